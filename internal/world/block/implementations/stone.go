package implementations

import "github.com/annel0/voxel-engine/internal/world/block"

// Плитки атласа (горизонтальная раскладка): dirt(0), stone(1), grass(2)
const (
	TileDirt  = 0
	TileStone = 1
	TileGrass = 2
)

// StoneBehavior реализует поведение блока камня
type StoneBehavior struct{}

// ID возвращает идентификатор блока
func (b *StoneBehavior) ID() block.BlockID {
	return block.StoneBlockID
}

// Name возвращает имя блока
func (b *StoneBehavior) Name() string {
	return "Stone"
}

// IsSolid возвращает true
func (b *StoneBehavior) IsSolid() bool {
	return true
}

// TextureTile: камень одинаков со всех сторон
func (b *StoneBehavior) TextureTile(face block.Face) int {
	return TileStone
}
