package world

import (
	"math"

	"github.com/annel0/voxel-engine/internal/util"
	"github.com/annel0/voxel-engine/internal/vec"
	"github.com/annel0/voxel-engine/internal/world/block"
)

// DirtDepth: толщина слоя земли, считая поверхностный блок
const DirtDepth = 3

// TerrainParams задаёт параметры генерации рельефа
type TerrainParams struct {
	Scale       float64       // Масштаб шума (меньше: положе рельеф)
	BaseHeight  int           // Базовая высота поверхности
	HeightRange int           // Амплитуда отклонения высоты
	Lacunarity  float64       // Рост частоты между октавами
	Gain        float64       // Падение амплитуды между октавами
	Octaves     int           // Число октав
	Surface     block.BlockID // Блок поверхности
}

// DefaultTerrainParams возвращает параметры по умолчанию
func DefaultTerrainParams() TerrainParams {
	return TerrainParams{
		Scale:       0.05,
		BaseHeight:  8,
		HeightRange: 6,
		Lacunarity:  2.0,
		Gain:        0.5,
		Octaves:     4,
		Surface:     block.DirtBlockID,
	}
}

// Generator генерирует рельеф чанков. Результат зависит только от
// координат чанка, параметров и источника шума.
type Generator struct {
	params TerrainParams
	noise  util.NoiseSource
}

// NewGenerator создаёт генератор рельефа
func NewGenerator(noise util.NoiseSource, params TerrainParams) *Generator {
	if params.Surface == block.AirBlockID {
		params.Surface = block.DirtBlockID
	}
	return &Generator{params: params, noise: noise}
}

// Params возвращает параметры генератора
func (g *Generator) Params() TerrainParams {
	return g.params
}

// ColumnHeight возвращает высоту поверхности столбца в мировых координатах,
// ограниченную отрезком [1, ChunkSize-1].
func (g *Generator) ColumnHeight(worldX, worldZ int) int {
	p := g.params
	n := g.noise.Noise3(
		float64(worldX)*p.Scale,
		0,
		float64(worldZ)*p.Scale,
		p.Lacunarity,
		p.Gain,
		p.Octaves,
	)

	height := p.BaseHeight + int(math.Round(n*float64(p.HeightRange)))
	return util.ClampInt(height, 1, ChunkSize-1)
}

// GenerateChunk создаёт чанк и заполняет его рельефом
func (g *Generator) GenerateChunk(coords vec.Vec2) *Chunk {
	chunk := NewChunk(coords)
	g.Fill(chunk)
	return chunk
}

// Fill перезаписывает блоки чанка рельефом. Несохранённые правки сбрасываются.
func (g *Generator) Fill(chunk *Chunk) {
	origin := chunk.Coords.Origin()

	var heights [ChunkSize][ChunkSize]int
	for x := 0; x < ChunkSize; x++ {
		for z := 0; z < ChunkSize; z++ {
			heights[x][z] = g.ColumnHeight(origin.X+x, origin.Y+z)
		}
	}

	chunk.mu.Lock()
	defer chunk.mu.Unlock()

	for x := 0; x < ChunkSize; x++ {
		for z := 0; z < ChunkSize; z++ {
			h := heights[x][z]
			for y := 0; y < ChunkSize; y++ {
				chunk.setRaw(blockIndex(x, y, z), g.blockAt(y, h))
			}
		}
	}

	chunk.changes = make(map[int]block.BlockID)
	chunk.version++
}

// blockAt возвращает блок на высоте y в столбце с поверхностью height
func (g *Generator) blockAt(y, height int) block.BlockID {
	switch {
	case y > height:
		return block.AirBlockID
	case y == height:
		return g.params.Surface
	case y > height-DirtDepth:
		return block.DirtBlockID
	default:
		return block.StoneBlockID
	}
}
