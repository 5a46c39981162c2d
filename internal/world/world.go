package world

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/annel0/voxel-engine/internal/logging"
	"github.com/annel0/voxel-engine/internal/metrics"
	"github.com/annel0/voxel-engine/internal/vec"
	"github.com/annel0/voxel-engine/internal/world/block"
	_ "github.com/annel0/voxel-engine/internal/world/block/implementations"
	"github.com/go-gl/mathgl/mgl32"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// EditStore сохраняет правки блоков между запусками
type EditStore interface {
	// LoadEdits возвращает сохранённые правки чанка (пусто, если их нет)
	LoadEdits(coords vec.Vec2) ([]BlockEdit, error)
	// SaveEdits добавляет правки к уже сохранённым для чанка
	SaveEdits(coords vec.Vec2, edits []BlockEdit) error
}

// World: индекс чанков по координатам (cx, cz).
//
// Чанк попадает в индекс только полностью готовым: рельеф сгенерирован,
// сохранённые правки применены, меш построен. Отсутствующий чанк означает
// пустое пространство, а не ошибку.
type World struct {
	mu        sync.RWMutex
	chunks    map[vec.Vec2]*Chunk
	generator *Generator
	atlas     Atlas
	store     EditStore
	workers   int
	logger    *logging.Logger
	tracer    trace.Tracer

	listenersMu  sync.RWMutex
	listeners    map[int]Listener
	nextListener int
}

// NewWorld создаёт пустой мир с указанным генератором и атласом
func NewWorld(generator *Generator, atlas Atlas) *World {
	return &World{
		chunks:    make(map[vec.Vec2]*Chunk),
		generator: generator,
		atlas:     atlas,
		workers:   1,
		logger:    logging.GetWorldLogger(),
		tracer:    otel.Tracer("github.com/annel0/voxel-engine/internal/world"),
		listeners: make(map[int]Listener),
	}
}

// SetEditStore подключает хранилище правок (nil: правки не сохраняются)
func (w *World) SetEditStore(store EditStore) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.store = store
}

// SetWorkers задаёт число воркеров массовой генерации
func (w *World) SetWorkers(n int) {
	if n < 1 {
		n = 1
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.workers = n
}

// Atlas возвращает атлас, которым строятся меши
func (w *World) Atlas() Atlas {
	return w.atlas
}

// Generator возвращает генератор рельефа
func (w *World) Generator() *Generator {
	return w.generator
}

// Resolve переводит мировые координаты столбца в координаты чанка и
// локальные координаты внутри него. Деление округляет вниз, поэтому
// локальные координаты всегда в [0, ChunkSize).
func Resolve(worldX, worldZ int) (chunk vec.Vec2, localX, localZ int) {
	chunk = vec.Vec2{X: vec.FloorDiv(worldX, ChunkSize), Y: vec.FloorDiv(worldZ, ChunkSize)}
	localX = worldX - chunk.X*ChunkSize
	localZ = worldZ - chunk.Y*ChunkSize
	return chunk, localX, localZ
}

// ChunkTransform возвращает перенос чанка в мировые координаты
func ChunkTransform(coords vec.Vec2) mgl32.Mat4 {
	return mgl32.Translate3D(float32(coords.X*ChunkSize), 0, float32(coords.Y*ChunkSize))
}

// GetChunk возвращает чанк по координатам
func (w *World) GetChunk(coords vec.Vec2) (*Chunk, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	chunk, ok := w.chunks[coords]
	return chunk, ok
}

// ChunkAt возвращает чанк, содержащий мировой столбец (worldX, worldZ)
func (w *World) ChunkAt(worldX, worldZ int) (*Chunk, bool) {
	coords, _, _ := Resolve(worldX, worldZ)
	return w.GetChunk(coords)
}

// Len возвращает число загруженных чанков
func (w *World) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.chunks)
}

// Chunks возвращает загруженные чанки, упорядоченные по координатам
func (w *World) Chunks() []*Chunk {
	w.mu.RLock()
	chunks := make([]*Chunk, 0, len(w.chunks))
	for _, c := range w.chunks {
		chunks = append(chunks, c)
	}
	w.mu.RUnlock()

	sort.Slice(chunks, func(i, j int) bool {
		return chunks[i].Coords.Less(chunks[j].Coords)
	})
	return chunks
}

// GetBlock возвращает блок по мировым координатам; вне загруженных чанков: воздух
func (w *World) GetBlock(x, y, z int) block.BlockID {
	coords, lx, lz := Resolve(x, z)
	chunk, ok := w.GetChunk(coords)
	if !ok {
		return block.AirBlockID
	}
	return chunk.GetBlock(lx, y, lz)
}

// IsSolid сообщает, непроходим ли блок по мировым координатам.
// Незагруженные чанки и высоты вне [0, ChunkSize) считаются пустыми.
func (w *World) IsSolid(x, y, z int) bool {
	if y < 0 || y >= ChunkSize {
		return false
	}
	coords, lx, lz := Resolve(x, z)
	chunk, ok := w.GetChunk(coords)
	if !ok {
		return false
	}
	return chunk.IsSolid(lx, y, lz)
}

// SetBlock изменяет блок по мировым координатам, перестраивает меш чанка
// и сохраняет правку, если подключено хранилище. Возвращает false, если
// чанк не загружен, высота вне чанка, ID не зарегистрирован или блок
// уже такой: тогда меш, события и метрики не трогаются.
func (w *World) SetBlock(x, y, z int, id block.BlockID) bool {
	if !block.IsValidBlockID(id) {
		w.logger.Warn("Отклонена правка (%d,%d,%d): неизвестный блок %v", x, y, z, id)
		return false
	}
	coords, lx, lz := Resolve(x, z)
	chunk, ok := w.GetChunk(coords)
	if !ok || !chunk.SetBlock(lx, y, lz, id) {
		return false
	}

	mesh := w.rebuild(chunk)
	metrics.BlockEdits.Inc()
	w.logger.Debug("Блок (%d,%d,%d) -> %v в чанке %v", x, y, z, id, coords)
	w.emit(Event{Type: EventBlockChanged, Chunk: coords, Pos: vec.Vec3{X: x, Y: y, Z: z}, Block: id})
	w.emit(Event{Type: EventMeshRebuilt, Chunk: coords, Mesh: mesh})

	if err := w.flushChunk(chunk); err != nil {
		// Правка остаётся в памяти и будет сохранена при Flush
		w.logger.Error("Ошибка сохранения правок чанка %v: %v", coords, err)
	}
	return true
}

// rebuild строит меш и обновляет метрики
func (w *World) rebuild(chunk *Chunk) *Mesh {
	start := time.Now()
	mesh := chunk.RebuildMesh(w.atlas)
	metrics.ObserveSince(metrics.MeshSeconds, start)
	metrics.FacesEmitted.Add(float64(mesh.Faces))
	return mesh
}

// LoadChunk генерирует чанк, если его ещё нет в индексе
func (w *World) LoadChunk(ctx context.Context, coords vec.Vec2) (*Chunk, error) {
	if chunk, ok := w.GetChunk(coords); ok {
		return chunk, nil
	}

	ctx, span := w.tracer.Start(ctx, "world.LoadChunk",
		trace.WithAttributes(attribute.Int("chunk.x", coords.X), attribute.Int("chunk.z", coords.Y)))
	defer span.End()

	chunk, err := w.buildChunk(ctx, coords)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	w.mu.Lock()
	// Другой воркер мог успеть раньше: оставляем первый экземпляр
	if existing, ok := w.chunks[coords]; ok {
		w.mu.Unlock()
		return existing, nil
	}
	w.chunks[coords] = chunk
	loaded := len(w.chunks)
	w.mu.Unlock()

	metrics.ChunksLoaded.Set(float64(loaded))
	w.emit(Event{Type: EventChunkLoaded, Chunk: coords, Mesh: chunk.Mesh()})
	return chunk, nil
}

// buildChunk выполняет генерацию, применение правок и построение меша
func (w *World) buildChunk(ctx context.Context, coords vec.Vec2) (*Chunk, error) {
	start := time.Now()
	chunk := w.generator.GenerateChunk(coords)
	metrics.ObserveSince(metrics.GenerateSeconds, start)
	metrics.ChunksGenerated.Inc()

	w.mu.RLock()
	store := w.store
	w.mu.RUnlock()

	if store != nil {
		edits, err := store.LoadEdits(coords)
		if err != nil {
			return nil, fmt.Errorf("загрузка правок чанка %v: %w", coords, err)
		}
		applied, rejected := chunk.ApplyEdits(edits)
		if applied > 0 {
			w.logger.Debug("Чанк %v: применено %d сохранённых правок", coords, applied)
		}
		if rejected > 0 {
			w.logger.Warn("Чанк %v: отброшено %d сохранённых правок с неверными координатами или ID блока", coords, rejected)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mesh := w.rebuild(chunk)
	w.logger.Trace("Чанк %v готов: %d граней, %d вершин", coords, mesh.Faces, mesh.VertexCount())
	return chunk, nil
}

// AreaCoords возвращает координаты квадрата чанков со стороной 2*radius+1
// вокруг center в порядке обхода по X, затем по Z.
func AreaCoords(center vec.Vec2, radius int) []vec.Vec2 {
	if radius < 0 {
		return nil
	}
	side := 2*radius + 1
	coords := make([]vec.Vec2, 0, side*side)
	for x := center.X - radius; x <= center.X+radius; x++ {
		for z := center.Y - radius; z <= center.Y+radius; z++ {
			coords = append(coords, vec.Vec2{X: x, Y: z})
		}
	}
	return coords
}

// LoadArea загружает все чанки квадрата вокруг center. Чанки независимы,
// поэтому генерируются параллельно ограниченным числом воркеров.
func (w *World) LoadArea(ctx context.Context, center vec.Vec2, radius int) error {
	coords := AreaCoords(center, radius)

	ctx, span := w.tracer.Start(ctx, "world.LoadArea",
		trace.WithAttributes(
			attribute.Int("center.x", center.X),
			attribute.Int("center.z", center.Y),
			attribute.Int("radius", radius),
			attribute.Int("chunks", len(coords)),
		))
	defer span.End()

	w.mu.RLock()
	workers := w.workers
	w.mu.RUnlock()

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for _, c := range coords {
		c := c
		g.Go(func() error {
			_, err := w.LoadChunk(gctx, c)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("загрузка области %v r=%d: %w", center, radius, err)
	}

	w.logger.Info("Загружено %d чанков вокруг %v за %v (воркеров: %d)",
		len(coords), center, time.Since(start).Round(time.Millisecond), workers)
	return nil
}

// UnloadChunk удаляет чанк из индекса, предварительно сохранив правки
func (w *World) UnloadChunk(coords vec.Vec2) error {
	w.mu.Lock()
	chunk, ok := w.chunks[coords]
	if ok {
		delete(w.chunks, coords)
	}
	loaded := len(w.chunks)
	w.mu.Unlock()

	if !ok {
		return nil
	}
	metrics.ChunksLoaded.Set(float64(loaded))
	w.emit(Event{Type: EventChunkUnloaded, Chunk: coords})
	return w.flushChunk(chunk)
}

// flushChunk сохраняет несохранённые правки чанка
func (w *World) flushChunk(chunk *Chunk) error {
	w.mu.RLock()
	store := w.store
	w.mu.RUnlock()

	if store == nil || !chunk.HasChanges() {
		return nil
	}
	edits := chunk.TakeChanges()
	if err := store.SaveEdits(chunk.Coords, edits); err != nil {
		chunk.requeueChanges(edits)
		return err
	}
	return nil
}

// Flush сохраняет правки всех загруженных чанков
func (w *World) Flush() error {
	var errs []error
	for _, chunk := range w.Chunks() {
		if err := w.flushChunk(chunk); err != nil {
			errs = append(errs, fmt.Errorf("чанк %v: %w", chunk.Coords, err))
		}
	}
	return errors.Join(errs...)
}

// Close сохраняет правки и освобождает все чанки
func (w *World) Close() error {
	err := w.Flush()

	w.mu.Lock()
	w.chunks = make(map[vec.Vec2]*Chunk)
	w.mu.Unlock()

	metrics.ChunksLoaded.Set(0)
	return err
}
