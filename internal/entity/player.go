package entity

import (
	"github.com/annel0/voxel-engine/internal/logging"
	"github.com/annel0/voxel-engine/internal/metrics"
	"github.com/annel0/voxel-engine/internal/physics"
	"github.com/go-gl/mathgl/mgl32"
)

// State: состояние движения сущности
type State int

const (
	Airborne State = iota // в полёте, прыжок недоступен
	Grounded              // стоит на блоке
)

func (s State) String() string {
	if s == Grounded {
		return "grounded"
	}
	return "airborne"
}

// Body: размеры коллайдера сущности
type Body struct {
	Width     float32
	Height    float32
	Depth     float32
	EyeHeight float32
}

// DefaultBody возвращает размеры игрока
func DefaultBody() Body {
	return Body{Width: 0.6, Height: 1.8, Depth: 0.6, EyeHeight: 1.62}
}

// PhysicsParams: параметры вертикального движения
type PhysicsParams struct {
	Gravity          float32 // ускорение по Y, отрицательное
	JumpStrength     float32
	TerminalVelocity float32 // предельная скорость падения, отрицательная
}

// DefaultPhysics возвращает параметры физики игрока
func DefaultPhysics() PhysicsParams {
	return PhysicsParams{Gravity: -20, JumpStrength: 8, TerminalVelocity: -50}
}

// Player: сущность с AABB-коллайдером, движущаяся по воксельному миру.
// Position: центр подошвы.
type Player struct {
	Position mgl32.Vec3
	Velocity mgl32.Vec3
	OnGround bool

	Body    Body
	Physics PhysicsParams

	logger *logging.Logger
}

// NewPlayer создаёт игрока в полёте с нулевой скоростью
func NewPlayer(pos mgl32.Vec3) *Player {
	return &Player{
		Position: pos,
		Body:     DefaultBody(),
		Physics:  DefaultPhysics(),
		logger:   logging.GetPhysicsLogger(),
	}
}

// State возвращает текущее состояние движения
func (p *Player) State() State {
	if p.OnGround {
		return Grounded
	}
	return Airborne
}

// AABB возвращает коллайдер игрока в текущей позиции
func (p *Player) AABB() physics.AABB {
	return p.aabbAt(p.Position)
}

func (p *Player) aabbAt(pos mgl32.Vec3) physics.AABB {
	return physics.NewActorAABB(pos, p.Body.Width, p.Body.Height, p.Body.Depth)
}

// EyePosition возвращает точку обзора камеры
func (p *Player) EyePosition() mgl32.Vec3 {
	return p.Position.Add(mgl32.Vec3{0, p.Body.EyeHeight, 0})
}

// SetHorizontalVelocity задаёт скорость по X и Z, не трогая Y
func (p *Player) SetHorizontalVelocity(direction mgl32.Vec3, speed float32) {
	p.Velocity[0] = direction.X() * speed
	p.Velocity[2] = direction.Z() * speed
}

// Jump отталкивает игрока от земли. В полёте ничего не делает.
func (p *Player) Jump() bool {
	if !p.OnGround {
		return false
	}
	p.Velocity[1] = p.Physics.JumpStrength
	p.OnGround = false
	p.logger.Trace("Прыжок с %v", p.Position)
	return true
}

// Update выполняет шаг физики длительностью dt секунд.
//
// Перемещение разрешается по осям по очереди (X, Y, Z): ось, на которой
// коллайдер упёрся бы в блок, не сдвигается, а её скорость обнуляется.
// Упор при движении вниз ставит игрока на землю.
func (p *Player) Update(dt float32, world physics.SolidQuery) {
	before := p.State()

	p.Velocity[1] += p.Physics.Gravity * dt
	if p.Velocity[1] < p.Physics.TerminalVelocity {
		p.Velocity[1] = p.Physics.TerminalVelocity
	}

	for axis := 0; axis < 3; axis++ {
		candidate := p.Position
		candidate[axis] += p.Velocity[axis] * dt

		if axis == 1 {
			p.OnGround = false
		}

		if !physics.Collides(p.aabbAt(candidate), world) {
			p.Position = candidate
			continue
		}

		if axis == 1 && p.Velocity[1] < 0 {
			p.OnGround = true
		}
		p.Velocity[axis] = 0
		metrics.BlockedMoves.WithLabelValues(axisNames[axis]).Inc()
	}

	if after := p.State(); after != before {
		p.logger.Trace("Состояние %v -> %v на высоте %.3f", before, after, p.Position.Y())
	}
}

var axisNames = [3]string{"x", "y", "z"}
