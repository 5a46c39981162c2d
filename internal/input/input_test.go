package input

import (
	"testing"

	"github.com/annel0/voxel-engine/internal/camera"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestDirection(t *testing.T) {
	cam := camera.New(mgl32.Vec3{})

	tests := []struct {
		name   string
		intent Intent
		want   mgl32.Vec3
	}{
		{"вперёд", Intent{Forward: 1}, mgl32.Vec3{0, 0, -1}},
		{"назад", Intent{Forward: -1}, mgl32.Vec3{0, 0, 1}},
		{"вправо", Intent{Strafe: 1}, mgl32.Vec3{1, 0, 0}},
		{"по диагонали", Intent{Forward: 1, Strafe: 1}, mgl32.Vec3{0.70710677, 0, -0.70710677}},
		{"стоит", Intent{}, mgl32.Vec3{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.intent.Direction(cam)
			assert.True(t, tt.want.ApproxEqualThreshold(got, 1e-5), "ожидалось %v, получено %v", tt.want, got)
		})
	}
}

func TestDirectionIgnoresPitch(t *testing.T) {
	cam := camera.New(mgl32.Vec3{})
	cam.ProcessLook(0, 600)

	dir := Intent{Forward: 1}.Direction(cam)
	assert.Equal(t, float32(0), dir.Y())
	assert.InDelta(t, 1, dir.Len(), 1e-5)
}

func TestScript(t *testing.T) {
	s := NewScript(Intent{Forward: 1}).Repeat(Intent{Jump: true}, 2)
	assert.Equal(t, 3, s.Len())

	assert.Equal(t, Intent{Forward: 1}, s.Poll())
	assert.True(t, s.Poll().Jump)
	assert.False(t, s.Done())
	assert.True(t, s.Poll().Jump)
	assert.True(t, s.Done())

	// После конца: пустое намерение
	assert.Equal(t, Intent{}, s.Poll())
	assert.False(t, s.Poll().Moving())
}

func TestScriptLoop(t *testing.T) {
	s := NewScript(Intent{Strafe: 1}, Intent{Strafe: -1})
	s.Loop = true

	for i := 0; i < 6; i++ {
		want := float32(1)
		if i%2 == 1 {
			want = -1
		}
		assert.Equal(t, want, s.Poll().Strafe)
	}
	assert.False(t, s.Done())
}

func TestStatic(t *testing.T) {
	var src Source = Static{Forward: 1, Sprint: true}
	for i := 0; i < 3; i++ {
		assert.Equal(t, Intent{Forward: 1, Sprint: true}, src.Poll())
	}
}
