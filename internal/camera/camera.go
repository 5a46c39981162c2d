package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	DefaultYaw         = -90.0
	DefaultPitch       = 0.0
	DefaultSensitivity = 0.1
	DefaultZoom        = 45.0

	MaxPitch = 89.0
	MinZoom  = 1.0
	MaxZoom  = 45.0
)

// Camera: камера от первого лица. Углы хранятся в градусах;
// базис Front/Right/Up пересчитывается при каждом повороте.
type Camera struct {
	Position mgl32.Vec3

	Yaw         float32
	Pitch       float32
	Sensitivity float32
	Zoom        float32

	worldUp mgl32.Vec3
	front   mgl32.Vec3
	right   mgl32.Vec3
	up      mgl32.Vec3
}

// New создаёт камеру с параметрами по умолчанию: взгляд вдоль -Z
func New(position mgl32.Vec3) *Camera {
	return NewWithAngles(position, DefaultYaw, DefaultPitch)
}

// NewWithAngles создаёт камеру с заданными углами
func NewWithAngles(position mgl32.Vec3, yaw, pitch float32) *Camera {
	c := &Camera{
		Position:    position,
		Yaw:         yaw,
		Pitch:       clampPitch(pitch),
		Sensitivity: DefaultSensitivity,
		Zoom:        DefaultZoom,
		worldUp:     mgl32.Vec3{0, 1, 0},
	}
	c.updateVectors()
	return c
}

// ProcessLook поворачивает камеру на смещение указателя
func (c *Camera) ProcessLook(dx, dy float32) {
	c.Yaw += dx * c.Sensitivity
	c.Pitch = clampPitch(c.Pitch + dy*c.Sensitivity)
	c.updateVectors()
}

// ProcessScroll меняет угол обзора в пределах [MinZoom, MaxZoom]
func (c *Camera) ProcessScroll(dy float32) {
	c.Zoom = mgl32.Clamp(c.Zoom-dy, MinZoom, MaxZoom)
}

// SetPosition перемещает камеру, например в точку глаз игрока
func (c *Camera) SetPosition(pos mgl32.Vec3) {
	c.Position = pos
}

func (c *Camera) Front() mgl32.Vec3 { return c.front }
func (c *Camera) Right() mgl32.Vec3 { return c.right }
func (c *Camera) Up() mgl32.Vec3    { return c.up }

// HorizontalFront возвращает направление взгляда, спроецированное на
// плоскость XZ. Используется для ходьбы: наклон камеры не меняет скорость.
func (c *Camera) HorizontalFront() mgl32.Vec3 {
	yaw := float64(mgl32.DegToRad(c.Yaw))
	return mgl32.Vec3{float32(math.Cos(yaw)), 0, float32(math.Sin(yaw))}
}

// HorizontalRight возвращает правую сторону в плоскости XZ
func (c *Camera) HorizontalRight() mgl32.Vec3 {
	return c.HorizontalFront().Cross(c.worldUp).Normalize()
}

func (c *Camera) updateVectors() {
	yaw := float64(mgl32.DegToRad(c.Yaw))
	pitch := float64(mgl32.DegToRad(c.Pitch))

	front := mgl32.Vec3{
		float32(math.Cos(yaw) * math.Cos(pitch)),
		float32(math.Sin(pitch)),
		float32(math.Sin(yaw) * math.Cos(pitch)),
	}
	c.front = front.Normalize()
	c.right = c.front.Cross(c.worldUp).Normalize()
	c.up = c.right.Cross(c.front).Normalize()
}

func clampPitch(p float32) float32 {
	return mgl32.Clamp(p, -MaxPitch, MaxPitch)
}
