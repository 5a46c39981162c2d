package block

import (
	"strconv"
	"sync"
)

var (
	registry   = make(map[BlockID]BlockBehavior)
	registryMu sync.RWMutex
)

// Register добавляет поведение блока в регистр
func Register(id BlockID, behavior BlockBehavior) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[id] = behavior
}

// Get возвращает поведение для указанного ID
func Get(id BlockID) (BlockBehavior, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	behavior, exists := registry[id]
	return behavior, exists
}

// IsValidBlockID проверяет, является ли ID допустимым идентификатором блока
func IsValidBlockID(id BlockID) bool {
	_, exists := Get(id)
	return exists
}

// BlockID представляет идентификатор блока. Хранится по значению,
// один байт на ячейку чанка.
type BlockID uint8

// Константы ID блоков
const (
	AirBlockID   BlockID = iota // 0
	StoneBlockID                // 1
	DirtBlockID                 // 2
	GrassBlockID                // 3
)

// String возвращает имя блока из регистра или числовой ID
func (id BlockID) String() string {
	if behavior, ok := Get(id); ok {
		return behavior.Name()
	}
	switch id {
	case AirBlockID:
		return "Air"
	case StoneBlockID:
		return "Stone"
	case DirtBlockID:
		return "Dirt"
	case GrassBlockID:
		return "Grass"
	}
	return "Block(" + strconv.Itoa(int(id)) + ")"
}

// ParseBlockID возвращает ID по имени ("stone", "dirt", ...)
func ParseBlockID(name string) (BlockID, bool) {
	switch name {
	case "air", "Air":
		return AirBlockID, true
	case "stone", "Stone":
		return StoneBlockID, true
	case "dirt", "Dirt":
		return DirtBlockID, true
	case "grass", "Grass":
		return GrassBlockID, true
	}
	return AirBlockID, false
}
