package world

import (
	"testing"

	"github.com/annel0/voxel-engine/internal/util"
	"github.com/annel0/voxel-engine/internal/vec"
	"github.com/annel0/voxel-engine/internal/world/block"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func perlinGenerator(seed int64) *Generator {
	return NewGenerator(util.NewPerlinNoise(seed), DefaultTerrainParams())
}

func TestGenerateDeterministic(t *testing.T) {
	coords := []vec.Vec2{{X: 0, Y: 0}, {X: -1, Y: 3}, {X: 7, Y: -5}}

	for _, c := range coords {
		a := perlinGenerator(42).GenerateChunk(c)
		b := perlinGenerator(42).GenerateChunk(c)
		again := perlinGenerator(42).GenerateChunk(c)

		assert.Equal(t, a.Snapshot(), b.Snapshot(), "чанк %v", c)
		assert.Equal(t, a.Snapshot(), again.Snapshot(), "чанк %v", c)
	}
}

func TestColumnHeightMapping(t *testing.T) {
	tests := []struct {
		name  string
		noise float64
		base  int
		want  int
	}{
		{"ноль", 0, 8, 8},
		{"половина", 0.5, 8, 11},
		{"округление вверх", 0.25, 8, 10}, // 8 + round(1.5)
		{"округление вниз", 0.2, 8, 9},    // 8 + round(1.2)
		{"минимум шума", -1, 8, 2},
		{"ограничение сверху", 1, 12, ChunkSize - 1},
		{"ограничение снизу", -1, 2, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultTerrainParams()
			p.BaseHeight = tt.base
			g := NewGenerator(constNoise(tt.noise), p)
			assert.Equal(t, tt.want, g.ColumnHeight(0, 0))
		})
	}
}

func TestColumnLayering(t *testing.T) {
	g := perlinGenerator(2024)

	for _, c := range []vec.Vec2{{X: 0, Y: 0}, {X: -2, Y: 1}, {X: 3, Y: -4}} {
		chunk := g.GenerateChunk(c)
		origin := c.Origin()

		for x := 0; x < ChunkSize; x++ {
			for z := 0; z < ChunkSize; z++ {
				h := g.ColumnHeight(origin.X+x, origin.Y+z)
				require.GreaterOrEqual(t, h, 1)
				require.LessOrEqual(t, h, ChunkSize-1)

				dirt := 0
				seenAir := false
				seenDirt := false
				for y := 0; y < ChunkSize; y++ {
					id := chunk.GetBlock(x, y, z)
					switch id {
					case block.AirBlockID:
						seenAir = true
						assert.Greater(t, y, h)
					case block.DirtBlockID:
						require.False(t, seenAir, "земля над воздухом в столбце (%d,%d)", x, z)
						seenDirt = true
						dirt++
					case block.StoneBlockID:
						require.False(t, seenAir, "камень над воздухом в столбце (%d,%d)", x, z)
						require.False(t, seenDirt, "камень над землёй в столбце (%d,%d)", x, z)
					default:
						t.Fatalf("неожиданный блок %v", id)
					}
				}

				assert.Equal(t, block.DirtBlockID, chunk.GetBlock(x, h, z))
				assert.Equal(t, min(DirtDepth, h+1), dirt, "столбец (%d,%d), высота %d", x, z, h)
			}
		}
	}
}

func TestGenerateUsesWorldCoordinates(t *testing.T) {
	g := NewGenerator(slopeNoise{}, DefaultTerrainParams())
	chunk := g.GenerateChunk(vec.Vec2{X: -1, Y: 0})

	// Локальный x=15 чанка -1: это мировой x=-1
	h := g.ColumnHeight(-1, 0)
	assert.Equal(t, block.DirtBlockID, chunk.GetBlock(15, h, 0))
	assert.Equal(t, block.AirBlockID, chunk.GetBlock(15, h+1, 0))
}

func TestGrassSurface(t *testing.T) {
	p := DefaultTerrainParams()
	p.Surface = block.GrassBlockID
	chunk := NewGenerator(constNoise(0), p).GenerateChunk(vec.Vec2{})

	assert.Equal(t, block.GrassBlockID, chunk.GetBlock(4, 8, 4))
	assert.Equal(t, block.DirtBlockID, chunk.GetBlock(4, 7, 4))
	assert.Equal(t, block.DirtBlockID, chunk.GetBlock(4, 6, 4))
	assert.Equal(t, block.StoneBlockID, chunk.GetBlock(4, 5, 4))
}

func TestFillResetsChanges(t *testing.T) {
	g := flatGenerator(8)
	chunk := NewChunk(vec.Vec2{})
	chunk.SetBlock(0, 15, 0, block.StoneBlockID)

	g.Fill(chunk)
	assert.False(t, chunk.HasChanges())
	assert.Equal(t, block.AirBlockID, chunk.GetBlock(0, 15, 0))
	assert.Equal(t, ChunkSize*ChunkSize*9, chunk.SolidCount())
}

func BenchmarkGenerateChunk(b *testing.B) {
	g := perlinGenerator(1)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g.GenerateChunk(vec.Vec2{X: i % 32, Y: i / 32})
	}
}
