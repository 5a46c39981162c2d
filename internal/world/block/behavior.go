package block

// Face задаёт грань куба. Порядок совпадает с порядком таблиц вершин меша.
type Face uint8

const (
	FaceFront  Face = iota // +Z
	FaceBack               // -Z
	FaceLeft               // -X
	FaceRight              // +X
	FaceBottom             // -Y
	FaceTop                // +Y

	FaceCount // всегда последний
)

// faceOffsets: смещение соседней ячейки для каждой грани
var faceOffsets = [FaceCount][3]int{
	FaceFront:  {0, 0, 1},
	FaceBack:   {0, 0, -1},
	FaceLeft:   {-1, 0, 0},
	FaceRight:  {1, 0, 0},
	FaceBottom: {0, -1, 0},
	FaceTop:    {0, 1, 0},
}

// Offset возвращает смещение (dx, dy, dz) к соседу за гранью
func (f Face) Offset() (dx, dy, dz int) {
	o := faceOffsets[f]
	return o[0], o[1], o[2]
}

// String возвращает имя грани
func (f Face) String() string {
	switch f {
	case FaceFront:
		return "front"
	case FaceBack:
		return "back"
	case FaceLeft:
		return "left"
	case FaceRight:
		return "right"
	case FaceBottom:
		return "bottom"
	case FaceTop:
		return "top"
	default:
		return "unknown"
	}
}

// BlockBehavior определяет свойства типа блока
type BlockBehavior interface {
	ID() BlockID
	Name() string
	// IsSolid сообщает, участвует ли блок в столкновениях и закрывает ли грани соседей
	IsSolid() bool
	// TextureTile возвращает индекс плитки атласа для грани
	TextureTile(face Face) int
}

// TileFor возвращает плитку атласа для блока и грани.
// Незарегистрированные блоки используют плитку 0.
func TileFor(id BlockID, face Face) int {
	if behavior, ok := Get(id); ok {
		return behavior.TextureTile(face)
	}
	return 0
}
