package implementations

import "github.com/annel0/voxel-engine/internal/world/block"

// GrassBehavior реализует поведение блока травы
type GrassBehavior struct{}

// ID возвращает идентификатор блока
func (b *GrassBehavior) ID() block.BlockID {
	return block.GrassBlockID
}

// Name возвращает имя блока
func (b *GrassBehavior) Name() string {
	return "Grass"
}

// IsSolid возвращает true
func (b *GrassBehavior) IsSolid() bool {
	return true
}

// TextureTile: трава сверху, земля снизу и по бокам
// (отдельной плитки для боковой грани в атласе нет).
func (b *GrassBehavior) TextureTile(face block.Face) int {
	if face == block.FaceTop {
		return TileGrass
	}
	return TileDirt
}
