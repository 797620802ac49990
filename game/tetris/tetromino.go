package tetris

// Kind identifies one of the seven tetromino shapes.
type Kind uint8

// The supported tetromino shapes.
const (
	Line Kind = iota
	L
	ReverseL
	Square
	Five
	S
	T

	// NumKinds is the number of distinct shapes.
	NumKinds = 7
)

// SpawnOffset is the column of the left edge of a freshly spawned piece.
const SpawnOffset = 4

// shapes lists the cells of every kind relative to the top-left corner of
// its bounding box. The first cell is the one the grid token is read from
// when the piece moves.
var shapes = [NumKinds][4]Point{
	Line:     {{0, 1}, {1, 1}, {2, 1}, {3, 1}},
	L:        {{0, 0}, {2, 1}, {1, 0}, {2, 0}},
	ReverseL: {{0, 0}, {0, 1}, {1, 0}, {2, 0}},
	Square:   {{1, 0}, {2, 0}, {1, 1}, {2, 1}},
	Five:     {{1, 0}, {2, 0}, {0, 1}, {1, 1}},
	S:        {{0, 0}, {1, 0}, {1, 1}, {2, 1}},
	T:        {{0, 0}, {1, 0}, {2, 0}, {1, 1}},
}

// tokens holds the text attribute each kind is drawn with.
var tokens = [NumKinds]Token{
	Line:     0x0700, // light gray
	L:        0x0400, // red
	ReverseL: 0x0200, // green
	Square:   0x0100, // blue
	Five:     0x0500, // magenta
	S:        0x0e00, // yellow
	T:        0x0300, // cyan
}

// KindFromTicks picks a shape from the tick counter.
func KindFromTicks(ticks uint64) Kind {
	return Kind(ticks % NumKinds)
}

// Token returns the grid token for cells of this kind.
func (k Kind) Token() Token {
	return tokens[k%NumKinds]
}

// Extent returns the size of the square box the kind rotates in.
func (k Kind) Extent() int {
	switch k {
	case Line:
		return 4
	case Square:
		return 2
	default:
		return 3
	}
}

// Tetromino is a piece made of four cells.
type Tetromino struct {
	Cells [4]Point
	Kind  Kind
}

// Spawn returns a piece of the given kind with the left edge of its
// bounding box at column offsetX and its top at row 0.
func Spawn(kind Kind, offsetX int) Tetromino {
	t := Tetromino{Cells: shapes[kind%NumKinds], Kind: kind % NumKinds}
	return t.Translated(Point{X: offsetX})
}

// Translated returns a copy of t moved by d.
func (t Tetromino) Translated(d Point) Tetromino {
	for i := range t.Cells {
		t.Cells[i] = t.Cells[i].Add(d)
	}
	return t
}

// Rotated returns a copy of t turned by 90 degrees within the bounding box
// of its kind. The cells are first made relative to the top-left corner of
// their own bounds, rotated, then moved back by the same amount.
func (t Tetromino) Rotated() Tetromino {
	lowest := t.Cells[0]
	for _, p := range t.Cells[1:] {
		lowest.X = min(lowest.X, p.X)
		lowest.Y = min(lowest.Y, p.Y)
	}

	ext := t.Kind.Extent()
	for i, p := range t.Cells {
		local := Point{X: p.X - lowest.X, Y: p.Y - lowest.Y}
		t.Cells[i] = Point{
			X: local.Y,
			Y: 1 - (local.X - (ext - 2)),
		}.Add(lowest)
	}
	return t
}
