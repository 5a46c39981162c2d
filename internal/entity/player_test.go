package entity

import (
	"testing"

	"github.com/annel0/voxel-engine/internal/physics"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dt = float32(1.0 / 60.0)

// ground: сплошная земля до высоты top включительно
func ground(top int) physics.SolidFunc {
	return func(x, y, z int) bool { return y <= top }
}

func TestPlayerDefaults(t *testing.T) {
	p := NewPlayer(mgl32.Vec3{1, 2, 3})

	assert.Equal(t, Airborne, p.State())
	assert.Equal(t, mgl32.Vec3{}, p.Velocity)
	assert.InDelta(t, 3.62, p.EyePosition().Y(), 1e-5)

	box := p.AABB()
	assert.InDelta(t, 0.7, box.Min.X(), 1e-6)
	assert.InDelta(t, 3.8, box.Max.Y(), 1e-6)
}

func TestPlayerFallsAndLands(t *testing.T) {
	world := ground(5)
	surfaceTop := float32(6)
	p := NewPlayer(mgl32.Vec3{0.5, 10, 0.5})

	landedAt := -1
	for tick := 0; tick < 600; tick++ {
		p.Update(dt, world)
		require.GreaterOrEqual(t, p.Position.Y(), surfaceTop, "тик %d: провалился под поверхность", tick)
		if p.State() == Grounded {
			landedAt = tick
			break
		}
	}
	require.NotEqual(t, -1, landedAt, "игрок так и не приземлился")
	assert.Equal(t, float32(0), p.Velocity.Y())
	// Падение с высоты 4 при g=-20 занимает около 0.63 с
	assert.InDelta(t, 38, landedAt, 3)

	for tick := 0; tick < 300; tick++ {
		p.Update(dt, world)
		require.GreaterOrEqual(t, p.Position.Y(), surfaceTop, "тик %d после приземления", tick)
		require.LessOrEqual(t, p.Position.Y(), surfaceTop+0.5)
	}
	assert.Equal(t, Grounded, p.State())
	assert.Equal(t, float32(0), p.Velocity.Y())
	assert.InDelta(t, 0.5, p.Position.X(), 1e-6)
	assert.InDelta(t, 0.5, p.Position.Z(), 1e-6)
}

func TestPlayerStandingStaysGrounded(t *testing.T) {
	p := NewPlayer(mgl32.Vec3{3.5, 6, -2.5})
	for i := 0; i < 100; i++ {
		p.Update(dt, ground(5))
		require.Equal(t, Grounded, p.State())
		require.Equal(t, float32(6), p.Position.Y())
	}
}

func TestPlayerTerminalVelocity(t *testing.T) {
	empty := physics.SolidFunc(func(x, y, z int) bool { return false })
	p := NewPlayer(mgl32.Vec3{0, 1000, 0})

	for i := 0; i < 600; i++ {
		p.Update(dt, empty)
	}
	assert.Equal(t, p.Physics.TerminalVelocity, p.Velocity.Y())
	assert.Equal(t, Airborne, p.State())
}

func TestPlayerJumpGating(t *testing.T) {
	p := NewPlayer(mgl32.Vec3{0.5, 6, 0.5})

	// В полёте прыжок недоступен
	p.Velocity[1] = -3
	assert.False(t, p.Jump())
	assert.Equal(t, float32(-3), p.Velocity.Y())
	assert.Equal(t, Airborne, p.State())

	p.Velocity[1] = 0
	p.Update(dt, ground(5))
	require.Equal(t, Grounded, p.State())

	require.True(t, p.Jump())
	assert.Equal(t, p.Physics.JumpStrength, p.Velocity.Y())
	assert.Equal(t, Airborne, p.State())

	// Двойной прыжок
	assert.False(t, p.Jump())
	assert.Equal(t, p.Physics.JumpStrength, p.Velocity.Y())

	p.Update(dt, ground(5))
	assert.Greater(t, p.Position.Y(), float32(6))
}

func TestPlayerJumpArcReturnsToGround(t *testing.T) {
	world := ground(5)
	p := NewPlayer(mgl32.Vec3{0.5, 6, 0.5})
	p.Update(dt, world)
	require.True(t, p.Jump())

	peak := p.Position.Y()
	for i := 0; i < 120; i++ {
		p.Update(dt, world)
		if p.Position.Y() > peak {
			peak = p.Position.Y()
		}
	}
	// v²/2g = 64/40
	assert.InDelta(t, 7.6, peak, 0.15)
	assert.Equal(t, Grounded, p.State())
}

func TestSetHorizontalVelocity(t *testing.T) {
	p := NewPlayer(mgl32.Vec3{})
	p.Velocity[1] = 4

	p.SetHorizontalVelocity(mgl32.Vec3{0.6, 0.9, -0.8}, 10)
	assert.InDelta(t, 6, p.Velocity.X(), 1e-5)
	assert.Equal(t, float32(4), p.Velocity.Y())
	assert.InDelta(t, -8, p.Velocity.Z(), 1e-5)
}

func TestPlayerBlockedByWall(t *testing.T) {
	// Пол и стена в столбце x == 2
	world := physics.SolidFunc(func(x, y, z int) bool { return y <= 5 || x == 2 })
	p := NewPlayer(mgl32.Vec3{0.5, 6, 0.5})

	for i := 0; i < 120; i++ {
		p.SetHorizontalVelocity(mgl32.Vec3{1, 0, 0}, 5)
		p.Update(dt, world)
		require.LessOrEqual(t, p.Position.X(), float32(1.7))
	}
	assert.Equal(t, float32(0), p.Velocity.X())
	assert.Greater(t, p.Position.X(), float32(1.5))
	assert.Equal(t, Grounded, p.State())
}

func TestPlayerSlidesAlongWall(t *testing.T) {
	// Движение по диагонали в стену: X блокируется, Z продолжается
	world := physics.SolidFunc(func(x, y, z int) bool { return y <= 5 || x == 2 })
	p := NewPlayer(mgl32.Vec3{1.6, 6, 0.5})

	dir := mgl32.Vec3{1, 0, 1}.Normalize()
	for i := 0; i < 60; i++ {
		p.SetHorizontalVelocity(dir, 5)
		p.Update(dt, world)
	}
	assert.LessOrEqual(t, p.Position.X(), float32(1.7))
	assert.Greater(t, p.Position.Z(), float32(3))
}

func TestPlayerBumpsCeiling(t *testing.T) {
	// Потолок на высоте 8: игрок ростом 1.8 упирается головой
	world := physics.SolidFunc(func(x, y, z int) bool { return y <= 5 || y == 8 })
	p := NewPlayer(mgl32.Vec3{0.5, 6, 0.5})
	p.Update(dt, world)
	require.True(t, p.Jump())

	for i := 0; i < 10; i++ {
		p.Update(dt, world)
		require.LessOrEqual(t, p.AABB().Max.Y(), float32(8))
	}
	assert.LessOrEqual(t, p.Velocity.Y(), float32(0))
}

func BenchmarkPlayerUpdate(b *testing.B) {
	world := ground(5)
	p := NewPlayer(mgl32.Vec3{0.5, 6, 0.5})
	for i := 0; i < b.N; i++ {
		p.SetHorizontalVelocity(mgl32.Vec3{1, 0, 0}, 1)
		p.Update(dt, world)
	}
}
