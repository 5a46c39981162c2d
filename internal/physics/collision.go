package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// AABB: ограничивающий параллелепипед, выровненный по осям мира
type AABB struct {
	Min mgl32.Vec3
	Max mgl32.Vec3
}

// NewActorAABB строит коллайдер сущности. pos: центр подошвы:
// по X и Z коробка симметрична относительно pos, по Y растёт вверх.
func NewActorAABB(pos mgl32.Vec3, width, height, depth float32) AABB {
	return AABB{
		Min: mgl32.Vec3{pos.X() - width/2, pos.Y(), pos.Z() - depth/2},
		Max: mgl32.Vec3{pos.X() + width/2, pos.Y() + height, pos.Z() + depth/2},
	}
}

// BlockAABB возвращает единичный куб блока (x, y, z)
func BlockAABB(x, y, z int) AABB {
	corner := mgl32.Vec3{float32(x), float32(y), float32(z)}
	return AABB{Min: corner, Max: corner.Add(mgl32.Vec3{1, 1, 1})}
}

// Intersects проверяет строгое перекрытие по всем трём осям.
// Коробки, касающиеся только гранью, не пересекаются.
func (a AABB) Intersects(b AABB) bool {
	return a.Min.X() < b.Max.X() && a.Max.X() > b.Min.X() &&
		a.Min.Y() < b.Max.Y() && a.Max.Y() > b.Min.Y() &&
		a.Min.Z() < b.Max.Z() && a.Max.Z() > b.Min.Z()
}

// Translate возвращает коробку, сдвинутую на d
func (a AABB) Translate(d mgl32.Vec3) AABB {
	return AABB{Min: a.Min.Add(d), Max: a.Max.Add(d)}
}

// Size возвращает размеры коробки по осям
func (a AABB) Size() mgl32.Vec3 {
	return a.Max.Sub(a.Min)
}

// SolidQuery отвечает, занята ли ячейка мира непроходимым блоком.
// Незагруженные области должны считаться пустыми.
type SolidQuery interface {
	IsSolid(x, y, z int) bool
}

// SolidFunc позволяет использовать функцию как SolidQuery
type SolidFunc func(x, y, z int) bool

func (f SolidFunc) IsSolid(x, y, z int) bool {
	return f(x, y, z)
}

// CellRange возвращает диапазон ячеек [min, max), которые задевает коробка
func (a AABB) CellRange() (lo, hi [3]int) {
	for i := 0; i < 3; i++ {
		lo[i] = int(math.Floor(float64(a.Min[i])))
		hi[i] = int(math.Ceil(float64(a.Max[i])))
	}
	return lo, hi
}

// Collides проверяет, пересекает ли коробка хотя бы один непроходимый блок
func Collides(box AABB, query SolidQuery) bool {
	lo, hi := box.CellRange()

	for x := lo[0]; x < hi[0]; x++ {
		for y := lo[1]; y < hi[1]; y++ {
			for z := lo[2]; z < hi[2]; z++ {
				if !query.IsSolid(x, y, z) {
					continue
				}
				if box.Intersects(BlockAABB(x, y, z)) {
					return true
				}
			}
		}
	}
	return false
}
