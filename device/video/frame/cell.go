package frame

// Color is one of the 16 text mode colors.
type Color uint8

// The text mode palette.
const (
	Black Color = iota
	Blue
	Green
	Cyan
	Red
	Magenta
	Brown
	LightGray
	DarkGray
	LightBlue
	LightGreen
	LightCyan
	LightRed
	LightMagenta
	Yellow
	White
)

// Attr packs a foreground color in its low nibble and a background color in
// its high nibble.
type Attr uint8

// MakeAttr returns the attribute for fg on bg.
func MakeAttr(fg, bg Color) Attr {
	return Attr(bg&0xf)<<4 | Attr(fg&0xf)
}

// Fg returns the foreground color.
func (a Attr) Fg() Color { return Color(a & 0xf) }

// Bg returns the background color.
func (a Attr) Bg() Color { return Color(a >> 4) }

// Cell is a character packed with its attribute, laid out like a word of
// text mode memory: attribute in the high byte, character in the low byte.
type Cell uint16

// Blank is a light gray space on black.
const Blank = Cell(uint16(LightGray)<<8 | ' ')

// MakeCell returns the cell displaying ch with attr.
func MakeCell(ch byte, attr Attr) Cell {
	return Cell(uint16(attr)<<8 | uint16(ch))
}

// Char returns the character of the cell.
func (c Cell) Char() byte { return byte(c) }

// Attr returns the attribute of the cell.
func (c Cell) Attr() Attr { return Attr(c >> 8) }
