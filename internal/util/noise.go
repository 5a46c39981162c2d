package util

import (
	"sync"

	"github.com/aquilax/go-perlin"
)

// NoiseSource: детерминированный источник когерентного шума.
// Результат лежит в [-1, 1].
type NoiseSource interface {
	Noise3(x, y, z, lacunarity, gain float64, octaves int) float64
}

type fbmKey struct {
	lacunarity float64
	gain       float64
	octaves    int
}

// PerlinNoise: фрактальный шум Перлина поверх go-perlin.
// Генераторы для каждой тройки параметров создаются один раз и
// только читаются, поэтому Noise3 можно вызывать из нескольких горутин.
type PerlinNoise struct {
	seed       int64
	mu         sync.RWMutex
	generators map[fbmKey]*perlin.Perlin
}

// NewPerlinNoise создаёт источник шума с указанным сидом
func NewPerlinNoise(seed int64) *PerlinNoise {
	return &PerlinNoise{
		seed:       seed,
		generators: make(map[fbmKey]*perlin.Perlin),
	}
}

// Seed возвращает сид генератора
func (p *PerlinNoise) Seed() int64 {
	return p.seed
}

// Noise3 возвращает сумму октав шума: частота растёт в lacunarity раз,
// амплитуда падает в gain раз на каждой октаве.
func (p *PerlinNoise) Noise3(x, y, z, lacunarity, gain float64, octaves int) float64 {
	g := p.generator(fbmKey{lacunarity: lacunarity, gain: gain, octaves: octaves})
	return Clamp(g.Noise3D(x, y, z), -1, 1)
}

func (p *PerlinNoise) generator(key fbmKey) *perlin.Perlin {
	p.mu.RLock()
	g, ok := p.generators[key]
	p.mu.RUnlock()
	if ok {
		return g
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if g, ok = p.generators[key]; ok {
		return g
	}

	// go-perlin делит амплитуду на alpha и умножает частоту на beta
	alpha := 2.0
	if key.gain > 0 {
		alpha = 1 / key.gain
	}
	g = perlin.NewPerlin(alpha, key.lacunarity, int32(key.octaves), p.seed)
	p.generators[key] = g
	return g
}

// Clamp ограничивает v отрезком [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ClampInt ограничивает v отрезком [lo, hi]
func ClampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
