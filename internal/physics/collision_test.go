package physics

import (
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestNewActorAABB(t *testing.T) {
	box := NewActorAABB(mgl32.Vec3{1, 2, 3}, 0.6, 1.8, 0.4)

	assert.InDelta(t, 0.7, box.Min.X(), 1e-6)
	assert.InDelta(t, 2.0, box.Min.Y(), 1e-6)
	assert.InDelta(t, 2.8, box.Min.Z(), 1e-6)
	assert.InDelta(t, 1.3, box.Max.X(), 1e-6)
	assert.InDelta(t, 3.8, box.Max.Y(), 1e-6)
	assert.InDelta(t, 3.2, box.Max.Z(), 1e-6)
	assert.InDelta(t, 1.8, box.Size().Y(), 1e-6)
}

func TestIntersects(t *testing.T) {
	unit := BlockAABB(0, 0, 0)

	tests := []struct {
		name  string
		other AABB
		want  bool
	}{
		{"совпадает", BlockAABB(0, 0, 0), true},
		{"перекрытие", unit.Translate(mgl32.Vec3{0.5, 0.5, 0.5}), true},
		{"касание по X", BlockAABB(1, 0, 0), false},
		{"касание по Y", BlockAABB(0, 1, 0), false},
		{"касание по Z", BlockAABB(0, 0, -1), false},
		{"касание ребром", BlockAABB(1, 1, 0), false},
		{"далеко", BlockAABB(5, 5, 5), false},
		{"вложенная", AABB{Min: mgl32.Vec3{0.2, 0.2, 0.2}, Max: mgl32.Vec3{0.4, 0.4, 0.4}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, unit.Intersects(tt.other))
			assert.Equal(t, tt.want, tt.other.Intersects(unit), "симметрия")
		})
	}
}

func TestIntersectsSymmetricRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	randomBox := func() AABB {
		corner := mgl32.Vec3{float32(rng.Intn(8)) / 2, float32(rng.Intn(8)) / 2, float32(rng.Intn(8)) / 2}
		size := mgl32.Vec3{float32(rng.Intn(4)+1) / 2, float32(rng.Intn(4)+1) / 2, float32(rng.Intn(4)+1) / 2}
		return AABB{Min: corner, Max: corner.Add(size)}
	}

	for i := 0; i < 1000; i++ {
		a, b := randomBox(), randomBox()
		assert.Equal(t, a.Intersects(b), b.Intersects(a))
	}
}

func TestCellRange(t *testing.T) {
	box := NewActorAABB(mgl32.Vec3{-0.5, 9, 0.5}, 0.6, 1.8, 0.6)
	lo, hi := box.CellRange()

	assert.Equal(t, [3]int{-1, 9, 0}, lo)
	assert.Equal(t, [3]int{0, 11, 1}, hi)
}

func TestCollides(t *testing.T) {
	// Пол из одного слоя на высоте 5
	floor := SolidFunc(func(x, y, z int) bool { return y == 5 })

	standing := NewActorAABB(mgl32.Vec3{0.5, 6, 0.5}, 0.6, 1.8, 0.6)
	assert.False(t, Collides(standing, floor), "стоит на поверхности")

	sunk := standing.Translate(mgl32.Vec3{0, -0.01, 0})
	assert.True(t, Collides(sunk, floor), "погрузился в пол")

	above := standing.Translate(mgl32.Vec3{0, 3, 0})
	assert.False(t, Collides(above, floor))
}

func TestCollidesEmptyWorld(t *testing.T) {
	empty := SolidFunc(func(x, y, z int) bool { return false })
	box := NewActorAABB(mgl32.Vec3{-100, -3, 42}, 0.6, 1.8, 0.6)
	assert.False(t, Collides(box, empty))
}

func TestCollidesChecksOnlyOverlappedCells(t *testing.T) {
	var checked [][3]int
	query := SolidFunc(func(x, y, z int) bool {
		checked = append(checked, [3]int{x, y, z})
		return false
	})

	box := AABB{Min: mgl32.Vec3{0.2, 0, 0.2}, Max: mgl32.Vec3{1.5, 1, 0.8}}
	Collides(box, query)

	assert.ElementsMatch(t, [][3]int{{0, 0, 0}, {1, 0, 0}}, checked)
}
