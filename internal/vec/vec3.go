package vec

// Vec3 представляет мировые координаты блока
type Vec3 struct {
	X int
	Y int
	Z int
}
