package world

import (
	"github.com/annel0/voxel-engine/internal/vec"
	"github.com/annel0/voxel-engine/internal/world/block"
)

// EventType определяет тип события мира
type EventType uint8

const (
	EventChunkLoaded   EventType = iota // Чанк готов и добавлен в индекс
	EventChunkUnloaded                  // Чанк удалён из индекса
	EventBlockChanged                   // Изменение блока
	EventMeshRebuilt                    // Опубликован новый меш чанка
)

func (t EventType) String() string {
	switch t {
	case EventChunkLoaded:
		return "chunk_loaded"
	case EventChunkUnloaded:
		return "chunk_unloaded"
	case EventBlockChanged:
		return "block_changed"
	case EventMeshRebuilt:
		return "mesh_rebuilt"
	}
	return "unknown"
}

// Event описывает изменение в мире. Потребитель отрисовки по нему
// узнаёт, какие буферы нужно перезагрузить.
type Event struct {
	Type  EventType
	Chunk vec.Vec2

	// Мировые координаты и новый блок, только для EventBlockChanged
	Pos   vec.Vec3
	Block block.BlockID

	// Меш для EventChunkLoaded и EventMeshRebuilt
	Mesh *Mesh
}

// Listener получает события мира. Во время LoadArea вызывается
// из нескольких воркеров одновременно.
type Listener func(Event)

// Subscribe регистрирует обработчик событий и возвращает функцию отписки
func (w *World) Subscribe(l Listener) (unsubscribe func()) {
	w.listenersMu.Lock()
	defer w.listenersMu.Unlock()

	id := w.nextListener
	w.nextListener++
	w.listeners[id] = l

	return func() {
		w.listenersMu.Lock()
		defer w.listenersMu.Unlock()
		delete(w.listeners, id)
	}
}

// emit вызывает обработчики вне блокировок мира
func (w *World) emit(e Event) {
	w.listenersMu.RLock()
	if len(w.listeners) == 0 {
		w.listenersMu.RUnlock()
		return
	}
	listeners := make([]Listener, 0, len(w.listeners))
	for _, l := range w.listeners {
		listeners = append(listeners, l)
	}
	w.listenersMu.RUnlock()

	for _, l := range listeners {
		l(e)
	}
}
