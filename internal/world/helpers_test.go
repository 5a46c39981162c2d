package world

// constNoise возвращает одно и то же значение шума для любых координат
type constNoise float64

func (n constNoise) Noise3(x, y, z, lacunarity, gain float64, octaves int) float64 {
	return float64(n)
}

// slopeNoise растёт вдоль X, чтобы столбцы имели разную высоту
type slopeNoise struct{}

func (slopeNoise) Noise3(x, y, z, lacunarity, gain float64, octaves int) float64 {
	v := x * 0.5
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

// flatGenerator даёт плоский рельеф с поверхностью на высоте base
func flatGenerator(base int) *Generator {
	p := DefaultTerrainParams()
	p.BaseHeight = base
	return NewGenerator(constNoise(0), p)
}
