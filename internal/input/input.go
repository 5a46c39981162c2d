// Package input описывает намерения игрока, не привязанные к устройству ввода.
// Ядро опрашивает Source раз в тик и не знает, откуда пришли данные.
package input

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// Intent: намерение игрока на один тик
type Intent struct {
	Forward float32 `yaml:"forward" json:"forward"` // -1..1, вперёд по взгляду
	Strafe  float32 `yaml:"strafe" json:"strafe"`   // -1..1, вправо
	Jump    bool    `yaml:"jump" json:"jump"`
	Sprint  bool    `yaml:"sprint" json:"sprint"`

	LookDX float32 `yaml:"look_dx" json:"look_dx"`
	LookDY float32 `yaml:"look_dy" json:"look_dy"`
	Scroll float32 `yaml:"scroll" json:"scroll"`
}

// Basis: горизонтальный базис камеры
type Basis interface {
	HorizontalFront() mgl32.Vec3
	HorizontalRight() mgl32.Vec3
}

// Direction возвращает нормированное горизонтальное направление движения.
// Без ввода возвращается нулевой вектор.
func (i Intent) Direction(b Basis) mgl32.Vec3 {
	dir := b.HorizontalFront().Mul(i.Forward).Add(b.HorizontalRight().Mul(i.Strafe))
	dir[1] = 0
	if dir.Len() < 1e-6 {
		return mgl32.Vec3{}
	}
	return dir.Normalize()
}

// Moving сообщает, есть ли горизонтальный ввод
func (i Intent) Moving() bool {
	return i.Forward != 0 || i.Strafe != 0
}

// Source выдаёт намерение на текущий тик
type Source interface {
	Poll() Intent
}

// Static всегда возвращает одно и то же намерение
type Static Intent

func (s Static) Poll() Intent {
	return Intent(s)
}

// Script воспроизводит заранее записанную последовательность намерений.
// После окончания записи возвращает пустое намерение либо, если включён
// Loop, начинает сначала.
type Script struct {
	mu      sync.Mutex
	intents []Intent
	pos     int
	Loop    bool
}

// NewScript создаёт сценарий из списка намерений
func NewScript(intents ...Intent) *Script {
	return &Script{intents: intents}
}

// Repeat добавляет намерение n раз подряд
func (s *Script) Repeat(intent Intent, n int) *Script {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := 0; k < n; k++ {
		s.intents = append(s.intents, intent)
	}
	return s
}

func (s *Script) Poll() Intent {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pos >= len(s.intents) {
		if !s.Loop || len(s.intents) == 0 {
			return Intent{}
		}
		s.pos = 0
	}
	intent := s.intents[s.pos]
	s.pos++
	return intent
}

// Len возвращает длину сценария
func (s *Script) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.intents)
}

// Done сообщает, что сценарий проигран до конца
func (s *Script) Done() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.Loop && s.pos >= len(s.intents)
}
