package vec

// ChunkShift: log2 размера чанка (16).
const ChunkShift = 4

// ChunkMask выделяет локальную координату внутри чанка.
const ChunkMask = 1<<ChunkShift - 1

// Vec2 представляет 2D координаты.
// Для координат чанка X соответствует оси X мира, Y: оси Z.
type Vec2 struct {
	X, Y int
}

// ToChunkCoords преобразует глобальные координаты столбца в координаты чанка.
// Арифметический сдвиг округляет вниз, поэтому -1 попадает в чанк -1.
func (v Vec2) ToChunkCoords() Vec2 {
	return Vec2{X: v.X >> ChunkShift, Y: v.Y >> ChunkShift}
}

// LocalInChunk возвращает локальные координаты внутри чанка, всегда в [0, 16)
func (v Vec2) LocalInChunk() Vec2 {
	return Vec2{X: v.X & ChunkMask, Y: v.Y & ChunkMask}
}

// Origin возвращает мировые координаты угла чанка с координатами v
func (v Vec2) Origin() Vec2 {
	return Vec2{X: v.X << ChunkShift, Y: v.Y << ChunkShift}
}

// Add складывает два вектора
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{X: v.X + other.X, Y: v.Y + other.Y}
}

// Less задаёт порядок обхода: сначала по X, затем по Y.
func (v Vec2) Less(other Vec2) bool {
	if v.X != other.X {
		return v.X < other.X
	}
	return v.Y < other.Y
}

// FloorDiv делит с округлением к минус бесконечности (не к нулю).
func FloorDiv(a, n int) int {
	if a >= 0 {
		return a / n
	}
	return (a - (n - 1)) / n
}
