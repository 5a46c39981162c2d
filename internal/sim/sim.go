// Package sim связывает мир, игрока, камеру и источник ввода в один
// контекст симуляции, которым владеет внешний цикл кадров.
package sim

import (
	"context"
	"time"

	"github.com/annel0/voxel-engine/internal/camera"
	"github.com/annel0/voxel-engine/internal/entity"
	"github.com/annel0/voxel-engine/internal/input"
	"github.com/annel0/voxel-engine/internal/logging"
	"github.com/annel0/voxel-engine/internal/metrics"
	"github.com/annel0/voxel-engine/internal/world"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

const (
	DefaultWalkSpeed        = 10.0
	DefaultSprintMultiplier = 2.5
)

// Movement: параметры ходьбы
type Movement struct {
	WalkSpeed        float32
	SprintMultiplier float32
}

// DefaultMovement возвращает скорость ходьбы и множитель бега по умолчанию
func DefaultMovement() Movement {
	return Movement{WalkSpeed: DefaultWalkSpeed, SprintMultiplier: DefaultSprintMultiplier}
}

// Speed возвращает скорость для намерения
func (m Movement) Speed(intent input.Intent) float32 {
	if intent.Sprint {
		return m.WalkSpeed * m.SprintMultiplier
	}
	return m.WalkSpeed
}

// Context: всё изменяемое состояние одного прогона симуляции
type Context struct {
	RunID  uuid.UUID
	World  *world.World
	Player *entity.Player
	Camera *camera.Camera
	Input  input.Source

	Movement Movement
	Ticks    uint64
	Elapsed  time.Duration

	// LandedAt: номер тика первого приземления, 0 = ещё не приземлялся
	LandedAt uint64

	logger *logging.Logger
}

// New создаёт контекст. Камера сразу ставится в точку глаз игрока.
func New(w *world.World, player *entity.Player, cam *camera.Camera, src input.Source) *Context {
	if src == nil {
		src = input.Static{}
	}
	c := &Context{
		RunID:    uuid.New(),
		World:    w,
		Player:   player,
		Camera:   cam,
		Input:    src,
		Movement: DefaultMovement(),
		logger:   logging.GetSimLogger(),
	}
	cam.SetPosition(player.EyePosition())
	return c
}

// Tick продвигает симуляцию на dt секунд:
// ввод, поворот камеры, движение игрока, камера следует за глазами.
func (c *Context) Tick(dt float32) {
	intent := c.Input.Poll()

	if intent.LookDX != 0 || intent.LookDY != 0 {
		c.Camera.ProcessLook(intent.LookDX, intent.LookDY)
	}
	if intent.Scroll != 0 {
		c.Camera.ProcessScroll(intent.Scroll)
	}

	c.Player.SetHorizontalVelocity(intent.Direction(c.Camera), c.Movement.Speed(intent))
	if intent.Jump && c.Player.Jump() {
		c.logger.Debug("[%s] тик %d: прыжок", c.shortID(), c.Ticks)
	}

	before := c.Player.State()
	c.Player.Update(dt, c.World)
	c.Ticks++
	c.Elapsed += time.Duration(float64(dt) * float64(time.Second))
	metrics.PhysicsTicks.Inc()

	if before == entity.Airborne && c.Player.State() == entity.Grounded {
		metrics.Landings.Inc()
		if c.LandedAt == 0 {
			c.LandedAt = c.Ticks
		}
		c.logger.Debug("[%s] тик %d: приземление на %.3f", c.shortID(), c.Ticks, c.Player.Position.Y())
	}

	c.Camera.SetPosition(c.Player.EyePosition())
}

// Run выполняет ticks шагов по dt секунд. Отмена контекста проверяется
// между тиками; уже начатый тик всегда завершается.
func (c *Context) Run(ctx context.Context, ticks int, dt float32) error {
	c.logger.Info("[%s] симуляция: %d тиков по %.4f с", c.shortID(), ticks, dt)

	for i := 0; i < ticks; i++ {
		if err := ctx.Err(); err != nil {
			c.logger.Warn("[%s] симуляция прервана на тике %d: %v", c.shortID(), c.Ticks, err)
			return err
		}
		c.Tick(dt)
	}

	c.logger.Info("[%s] симуляция завершена: %v, %s, позиция %v",
		c.shortID(), c.Elapsed.Round(time.Millisecond), c.Player.State(), c.Player.Position)
	return nil
}

func (c *Context) shortID() string {
	return c.RunID.String()[:8]
}

// SurfaceHeight возвращает высоту верхнего непроходимого блока столбца.
// Для незагруженного столбца берётся высота, которую даст генератор.
func SurfaceHeight(w *world.World, x, z int) int {
	if _, ok := w.ChunkAt(x, z); ok {
		for y := world.ChunkSize - 1; y >= 0; y-- {
			if w.IsSolid(x, y, z) {
				return y
			}
		}
		return -1
	}
	return w.Generator().ColumnHeight(x, z)
}

// Spawn создаёт игрока в центре столбца (x, z) на блок выше поверхности
func Spawn(w *world.World, x, z int) *entity.Player {
	h := SurfaceHeight(w, x, z)
	return entity.NewPlayer(mgl32.Vec3{float32(x) + 0.5, float32(h + 1), float32(z) + 0.5})
}
