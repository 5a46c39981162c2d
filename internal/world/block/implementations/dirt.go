package implementations

import "github.com/annel0/voxel-engine/internal/world/block"

// DirtBehavior реализует поведение блока земли
type DirtBehavior struct{}

// ID возвращает идентификатор блока
func (b *DirtBehavior) ID() block.BlockID {
	return block.DirtBlockID
}

// Name возвращает имя блока
func (b *DirtBehavior) Name() string {
	return "Dirt"
}

// IsSolid возвращает true
func (b *DirtBehavior) IsSolid() bool {
	return true
}

// TextureTile: земля одинакова со всех сторон
func (b *DirtBehavior) TextureTile(face block.Face) int {
	return TileDirt
}
