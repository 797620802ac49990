package tetris

const (
	// Width is the number of columns of the playfield.
	Width = 10

	// Height is the number of rows of the playfield.
	Height = 20

	// MaxClearRows is the largest number of rows a single piece can
	// complete.
	MaxClearRows = 4
)

// Token is the content of a grid cell. Zero means empty. A filled cell
// holds the text attribute of its block in the high byte and the glyph used
// for drawing it in the low byte; a zero glyph draws as a solid block.
type Token uint16

const (
	// Empty marks an unoccupied cell.
	Empty Token = 0

	glyphMask  = Token(0x00ff)
	glyphBlock = Token('#')
	glyphBlank = Token(' ')

	// flashMask keeps the attribute and turns the '#' glyph into ' '.
	flashMask = Token(0xff20)
)

// Attr returns the text attribute of the token.
func (t Token) Attr() uint8 {
	return uint8(t >> 8)
}

// Glyph returns the character a filled cell is drawn with.
func (t Token) Glyph() byte {
	if t&glyphMask == glyphBlank {
		return ' '
	}
	return '#'
}

// Grid is the playfield, indexed by column then row.
type Grid struct {
	cells [Width][Height]Token
}

// Reset empties every cell.
func (g *Grid) Reset() {
	g.cells = [Width][Height]Token{}
}

// InBounds reports whether p lies within the playfield.
func (g *Grid) InBounds(p Point) bool {
	return p.X >= 0 && p.X < Width && p.Y >= 0 && p.Y < Height
}

// At returns the token at p. Positions outside the playfield read as Empty.
func (g *Grid) At(p Point) Token {
	if !g.InBounds(p) {
		return Empty
	}
	return g.cells[p.X][p.Y]
}

// Set stores tok at p. Positions outside the playfield are ignored.
func (g *Grid) Set(p Point, tok Token) {
	if !g.InBounds(p) {
		return
	}
	g.cells[p.X][p.Y] = tok
}

// Filled returns the number of non-empty cells.
func (g *Grid) Filled() int {
	var n int
	for x := 0; x < Width; x++ {
		for y := 0; y < Height; y++ {
			if g.cells[x][y] != Empty {
				n++
			}
		}
	}
	return n
}

// Fits reports whether every cell of t lies within the playfield on an
// empty cell.
func (g *Grid) Fits(t Tetromino) bool {
	for _, p := range t.Cells {
		if !g.InBounds(p) || g.cells[p.X][p.Y] != Empty {
			return false
		}
	}
	return true
}

// Place occupies the cells of t with tok if t fits.
func (g *Grid) Place(t Tetromino, tok Token) bool {
	if !g.Fits(t) {
		return false
	}
	g.fill(t, tok)
	return true
}

// Move shifts the piece t, which must be placed on the grid, by d. It
// reports whether the move was legal; an illegal move leaves both the grid
// and t untouched.
func (g *Grid) Move(t *Tetromino, d Point) bool {
	return g.replace(t, t.Translated(d))
}

// Rotate turns the placed piece t by 90 degrees. It reports whether the
// rotation was legal; an illegal rotation leaves both the grid and t
// untouched.
func (g *Grid) Rotate(t *Tetromino) bool {
	return g.replace(t, t.Rotated())
}

// replace swaps the placed piece t for candidate if candidate fits once t
// has been lifted off the grid.
func (g *Grid) replace(t *Tetromino, candidate Tetromino) bool {
	tok := g.At(t.Cells[0])

	g.fill(*t, Empty)
	ok := g.Fits(candidate)
	if ok {
		*t = candidate
	}
	g.fill(*t, tok)

	return ok
}

func (g *Grid) fill(t Tetromino, tok Token) {
	for _, p := range t.Cells {
		g.Set(p, tok)
	}
}

// CompleteRows scans the rows top to bottom and returns up to MaxClearRows
// rows whose cells are all filled, along with their count.
func (g *Grid) CompleteRows() ([MaxClearRows]int, int) {
	var (
		rows [MaxClearRows]int
		n    int
	)

	for y := 0; y < Height && n < MaxClearRows; y++ {
		if g.rowComplete(y) {
			rows[n] = y
			n++
		}
	}

	return rows, n
}

func (g *Grid) rowComplete(y int) bool {
	for x := 0; x < Width; x++ {
		if g.cells[x][y] == Empty {
			return false
		}
	}
	return true
}

// ToggleFlash flips the glyph of every cell in row y between a solid block
// and a blank.
func (g *Grid) ToggleFlash(y int) {
	if y < 0 || y >= Height {
		return
	}

	for x := 0; x < Width; x++ {
		if g.cells[x][y]&glyphMask == glyphBlock {
			g.cells[x][y] &= flashMask
		} else {
			g.cells[x][y] |= glyphBlock
		}
	}
}

// RemoveRow empties row y and moves every row above it down by one. The top
// row becomes empty.
func (g *Grid) RemoveRow(y int) {
	if y < 0 || y >= Height {
		return
	}

	for x := 0; x < Width; x++ {
		copy(g.cells[x][1:y+1], g.cells[x][0:y])
		g.cells[x][0] = Empty
	}
}
