package world

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/annel0/voxel-engine/internal/vec"
	"github.com/annel0/voxel-engine/internal/world/block"
	"github.com/willf/bitset"
)

const (
	// ChunkSize: длина ребра чанка в блоках
	ChunkSize = 1 << vec.ChunkShift
	// ChunkVolume: число ячеек в чанке
	ChunkVolume = ChunkSize * ChunkSize * ChunkSize
)

// Chunk представляет куб мира 16x16x16 блоков и его меш.
//
// Блоки хранятся плоским массивом с индексом x + N*(y + N*z).
// Меш: производное от блоков: после любой правки он считается
// устаревшим, пока не будет перестроен через RebuildMesh.
type Chunk struct {
	Coords vec.Vec2 // Координаты чанка в мире (X: ось X, Y: ось Z)

	blocks [ChunkVolume]block.BlockID
	solid  *bitset.BitSet // маска непроходимых ячеек, по тому же индексу

	version uint64                // растёт при каждом изменении блоков
	changes map[int]block.BlockID // правки после генерации, ещё не сохранённые

	mesh atomic.Pointer[Mesh] // последний полностью построенный меш
	mu   sync.RWMutex
}

// BlockEdit: правка блока в локальных координатах чанка
type BlockEdit struct {
	X  int           `json:"x"`
	Y  int           `json:"y"`
	Z  int           `json:"z"`
	ID block.BlockID `json:"id"`
}

// NewChunk создаёт пустой чанк (только воздух) с указанными координатами
func NewChunk(coords vec.Vec2) *Chunk {
	return &Chunk{
		Coords:  coords,
		solid:   bitset.New(ChunkVolume),
		changes: make(map[int]block.BlockID),
	}
}

// InBounds проверяет, что локальные координаты лежат внутри чанка
func InBounds(x, y, z int) bool {
	return x >= 0 && x < ChunkSize &&
		y >= 0 && y < ChunkSize &&
		z >= 0 && z < ChunkSize
}

func blockIndex(x, y, z int) int {
	return x + ChunkSize*(y+ChunkSize*z)
}

func indexToLocal(i int) (x, y, z int) {
	return i % ChunkSize, (i / ChunkSize) % ChunkSize, i / (ChunkSize * ChunkSize)
}

func isSolidID(id block.BlockID) bool {
	if behavior, ok := block.Get(id); ok {
		return behavior.IsSolid()
	}
	return id != block.AirBlockID
}

// GetBlock возвращает блок по локальным координатам.
// За пределами чанка всегда воздух.
func (c *Chunk) GetBlock(x, y, z int) block.BlockID {
	if !InBounds(x, y, z) {
		return block.AirBlockID
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.blocks[blockIndex(x, y, z)]
}

// SetBlock устанавливает блок по локальным координатам и помечает меш
// устаревшим. Возвращает true, только если блок изменился: координаты
// за пределами чанка, незарегистрированный ID и тот же блок дают false.
func (c *Chunk) SetBlock(x, y, z int, id block.BlockID) bool {
	if !InBounds(x, y, z) || !block.IsValidBlockID(id) {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	i := blockIndex(x, y, z)
	if c.blocks[i] == id {
		return false
	}
	c.setRaw(i, id)
	c.changes[i] = id
	c.version++
	return true
}

// setRaw пишет блок и маску без учёта изменений. Вызывать под c.mu.
func (c *Chunk) setRaw(i int, id block.BlockID) {
	c.blocks[i] = id
	if isSolidID(id) {
		c.solid.Set(uint(i))
	} else {
		c.solid.Clear(uint(i))
	}
}

// IsAir сообщает, пуста ли ячейка. За пределами чанка: true,
// поэтому граничные грани всегда попадают в меш.
func (c *Chunk) IsAir(x, y, z int) bool {
	return c.GetBlock(x, y, z) == block.AirBlockID
}

// IsSolid сообщает, непроходима ли ячейка. За пределами чанка: false.
func (c *Chunk) IsSolid(x, y, z int) bool {
	if !InBounds(x, y, z) {
		return false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.solid.Test(uint(blockIndex(x, y, z)))
}

// SolidCount возвращает число непроходимых ячеек
func (c *Chunk) SolidCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return int(c.solid.Count())
}

// Version возвращает номер версии блоков
func (c *Chunk) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}

// Snapshot возвращает копию блоков
func (c *Chunk) Snapshot() [ChunkVolume]block.BlockID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.blocks
}

// Mesh возвращает последний полностью построенный меш (nil, если меш ещё не строился)
func (c *Chunk) Mesh() *Mesh {
	return c.mesh.Load()
}

// Dirty сообщает, что блоки изменились после последнего построения меша
func (c *Chunk) Dirty() bool {
	m := c.mesh.Load()
	return m == nil || m.version != c.Version()
}

// HasChanges возвращает true, если в чанке есть несохранённые правки
func (c *Chunk) HasChanges() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.changes) > 0
}

// Changes возвращает несохранённые правки, упорядоченные по индексу ячейки
func (c *Chunk) Changes() []BlockEdit {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.changesLocked()
}

func (c *Chunk) changesLocked() []BlockEdit {
	indices := make([]int, 0, len(c.changes))
	for i := range c.changes {
		indices = append(indices, i)
	}
	sort.Ints(indices)

	edits := make([]BlockEdit, 0, len(indices))
	for _, i := range indices {
		x, y, z := indexToLocal(i)
		edits = append(edits, BlockEdit{X: x, Y: y, Z: z, ID: c.changes[i]})
	}
	return edits
}

// ClearChanges очищает список правок (после сохранения)
func (c *Chunk) ClearChanges() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.changes = make(map[int]block.BlockID)
}

// TakeChanges атомарно забирает несохранённые правки
func (c *Chunk) TakeChanges() []BlockEdit {
	c.mu.Lock()
	defer c.mu.Unlock()

	edits := c.changesLocked()
	c.changes = make(map[int]block.BlockID)
	return edits
}

// requeueChanges возвращает правки, которые не удалось сохранить.
// Более поздние правки тех же ячеек не перезаписываются.
func (c *Chunk) requeueChanges(edits []BlockEdit) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range edits {
		i := blockIndex(e.X, e.Y, e.Z)
		if _, ok := c.changes[i]; !ok {
			c.changes[i] = e.ID
		}
	}
}

// ApplyEdits применяет сохранённые правки как часть исходного состояния:
// они не попадают в список несохранённых изменений. Правки вне чанка
// и с незарегистрированным ID пропускаются и считаются в rejected.
func (c *Chunk) ApplyEdits(edits []BlockEdit) (applied, rejected int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range edits {
		if !InBounds(e.X, e.Y, e.Z) || !block.IsValidBlockID(e.ID) {
			rejected++
			continue
		}
		c.setRaw(blockIndex(e.X, e.Y, e.Z), e.ID)
		applied++
	}
	if applied > 0 {
		c.version++
	}
	return applied, rejected
}
