package implementations

import "github.com/annel0/voxel-engine/internal/world/block"

// AirBehavior реализует поведение пустой ячейки
type AirBehavior struct{}

// ID возвращает идентификатор блока
func (b *AirBehavior) ID() block.BlockID {
	return block.AirBlockID
}

// Name возвращает имя блока
func (b *AirBehavior) Name() string {
	return "Air"
}

// IsSolid возвращает false: воздух проходим и не закрывает грани
func (b *AirBehavior) IsSolid() bool {
	return false
}

// TextureTile не используется: воздух не попадает в меш
func (b *AirBehavior) TextureTile(face block.Face) int {
	return 0
}
