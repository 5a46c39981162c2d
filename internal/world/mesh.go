package world

import (
	"github.com/annel0/voxel-engine/internal/vec"
	"github.com/annel0/voxel-engine/internal/world/block"
)

const (
	// FloatsPerVertex: позиция (3) + текстурные координаты (2)
	FloatsPerVertex = 5
	// VerticesPerFace: два треугольника на грань
	VerticesPerFace = 6
	// DefaultAtlasTiles: плитки атласа: dirt, stone, grass
	DefaultAtlasTiles = 3
)

// Vertex: вершина меша в локальных координатах чанка
type Vertex struct {
	X, Y, Z float32
	U, V    float32
}

// Mesh: список треугольников чанка, по 6 вершин на видимую грань
type Mesh struct {
	Coords   vec.Vec2
	Vertices []Vertex
	Faces    int

	version uint64 // версия блоков, из которой построен меш
}

// VertexCount возвращает число вершин
func (m *Mesh) VertexCount() int {
	if m == nil {
		return 0
	}
	return len(m.Vertices)
}

// Interleaved возвращает буфер для отрисовки: x, y, z, u, v на вершину
func (m *Mesh) Interleaved() []float32 {
	if m == nil {
		return nil
	}
	out := make([]float32, 0, len(m.Vertices)*FloatsPerVertex)
	for _, v := range m.Vertices {
		out = append(out, v.X, v.Y, v.Z, v.U, v.V)
	}
	return out
}

// Atlas описывает атлас из Tiles плиток равной ширины, уложенных по горизонтали
type Atlas struct {
	Tiles int
}

// DefaultAtlas возвращает атлас из трёх плиток
func DefaultAtlas() Atlas {
	return Atlas{Tiles: DefaultAtlasTiles}
}

// UV переводит локальные координаты грани (0..1) в координаты атласа:
// u сжимается в горизонтальную полосу плитки, v не меняется.
func (a Atlas) UV(tile int, localU, localV float32) (u, v float32) {
	tiles := a.Tiles
	if tiles <= 0 {
		tiles = DefaultAtlasTiles
	}
	tileWidth := 1.0 / float32(tiles)
	return float32(tile)*tileWidth + localU*tileWidth, localV
}

// faceCorners: смещения вершин грани относительно угла блока.
// Обход каждой грани согласован с её внешней нормалью.
var faceCorners = [block.FaceCount][VerticesPerFace][3]float32{
	block.FaceFront:  {{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {1, 1, 1}, {0, 1, 1}, {0, 0, 1}},
	block.FaceBack:   {{0, 0, 0}, {1, 1, 0}, {1, 0, 0}, {1, 1, 0}, {0, 0, 0}, {0, 1, 0}},
	block.FaceLeft:   {{0, 1, 1}, {0, 1, 0}, {0, 0, 0}, {0, 0, 0}, {0, 0, 1}, {0, 1, 1}},
	block.FaceRight:  {{1, 1, 1}, {1, 0, 0}, {1, 1, 0}, {1, 0, 0}, {1, 1, 1}, {1, 0, 1}},
	block.FaceBottom: {{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {1, 0, 1}, {0, 0, 1}, {0, 0, 0}},
	block.FaceTop:    {{0, 1, 0}, {1, 1, 1}, {1, 1, 0}, {1, 1, 1}, {0, 1, 0}, {0, 1, 1}},
}

// faceUVs: локальные текстурные координаты вершин грани
var faceUVs = [block.FaceCount][VerticesPerFace][2]float32{
	block.FaceFront:  {{0, 0}, {1, 0}, {1, 1}, {1, 1}, {0, 1}, {0, 0}},
	block.FaceBack:   {{0, 0}, {1, 1}, {1, 0}, {1, 1}, {0, 0}, {0, 1}},
	block.FaceLeft:   {{1, 1}, {0, 1}, {0, 0}, {0, 0}, {1, 0}, {1, 1}},
	block.FaceRight:  {{0, 1}, {1, 0}, {1, 1}, {1, 0}, {0, 1}, {0, 0}},
	block.FaceBottom: {{0, 1}, {1, 1}, {1, 0}, {1, 0}, {0, 0}, {0, 1}},
	block.FaceTop:    {{0, 1}, {1, 0}, {1, 1}, {1, 0}, {0, 1}, {0, 0}},
}

// appendFace добавляет 6 вершин грани блока (x, y, z)
func appendFace(dst []Vertex, x, y, z int, face block.Face, id block.BlockID, atlas Atlas) []Vertex {
	tile := block.TileFor(id, face)
	fx, fy, fz := float32(x), float32(y), float32(z)

	for i := 0; i < VerticesPerFace; i++ {
		corner := faceCorners[face][i]
		local := faceUVs[face][i]
		u, v := atlas.UV(tile, local[0], local[1])
		dst = append(dst, Vertex{
			X: fx + corner[0],
			Y: fy + corner[1],
			Z: fz + corner[2],
			U: u,
			V: v,
		})
	}
	return dst
}

// exposed сообщает, видна ли грань: сосед пуст или лежит за пределами чанка.
// Соседние чанки не опрашиваются, поэтому грани на стыках всегда видны.
// Вызывать под c.mu.RLock.
func (c *Chunk) exposed(x, y, z int, face block.Face) bool {
	dx, dy, dz := face.Offset()
	nx, ny, nz := x+dx, y+dy, z+dz
	if !InBounds(nx, ny, nz) {
		return true
	}
	return c.blocks[blockIndex(nx, ny, nz)] == block.AirBlockID
}

// BuildMesh строит меш чанка отсечением невидимых граней.
// Чанк не изменяется; результат: новый буфер.
func BuildMesh(c *Chunk, atlas Atlas) *Mesh {
	c.mu.RLock()
	defer c.mu.RUnlock()

	mesh := &Mesh{Coords: c.Coords, version: c.version}

	for x := 0; x < ChunkSize; x++ {
		for y := 0; y < ChunkSize; y++ {
			for z := 0; z < ChunkSize; z++ {
				id := c.blocks[blockIndex(x, y, z)]
				if id == block.AirBlockID {
					continue
				}

				for face := block.Face(0); face < block.FaceCount; face++ {
					if c.exposed(x, y, z, face) {
						mesh.Vertices = appendFace(mesh.Vertices, x, y, z, face, id, atlas)
						mesh.Faces++
					}
				}
			}
		}
	}

	return mesh
}

// RebuildMesh строит новый меш и подменяет им текущий только после
// завершения построения: читатели видят либо старый, либо новый меш целиком.
func (c *Chunk) RebuildMesh(atlas Atlas) *Mesh {
	mesh := BuildMesh(c, atlas)
	for {
		cur := c.mesh.Load()
		// Параллельная перестройка уже опубликовала более свежий меш
		if cur != nil && cur.version > mesh.version {
			return cur
		}
		if c.mesh.CompareAndSwap(cur, mesh) {
			return mesh
		}
	}
}

// ExposedFaces считает пары (ячейка, грань), которые попадут в меш
func ExposedFaces(c *Chunk) int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	count := 0
	for i := 0; i < ChunkVolume; i++ {
		if c.blocks[i] == block.AirBlockID {
			continue
		}
		x, y, z := indexToLocal(i)
		for face := block.Face(0); face < block.FaceCount; face++ {
			if c.exposed(x, y, z, face) {
				count++
			}
		}
	}
	return count
}
