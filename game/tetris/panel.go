package tetris

import "tetrisos/device/video/frame"

// Screen layout. The playfield is drawn one column right of the left border.
const (
	fieldLeft    = 1
	panelLeft    = Width + 6
	numbersLeft  = Width + 13
	numbersWidth = 8

	nextRow    = 2
	previewTop = 3
	linesRow   = 7
	levelRow   = 8
	scoreRow   = 9
	pausedRow  = 11
	overRow    = 12
	haltedRow  = 13
	legendRow  = 15

	previewSize = 4
)

var (
	textAttr   = frame.MakeAttr(frame.White, frame.Black)
	pausedAttr = frame.MakeAttr(frame.Green, frame.Black)
	overAttr   = frame.MakeAttr(frame.Red, frame.Black)
	haltedAttr = frame.MakeAttr(frame.Blue, frame.Black)

	legend = [...]string{
		"CONTROLS",
		"a - Left",
		"d - Right",
		"s - Drop",
		"w - Rotate",
		"p - Pause",
		"r - Restart",
		"q - Halt CPU",
	}
)

// Screen is the drawing surface used by the engine.
type Screen interface {
	Set(x, y int, c frame.Cell)
	PutString(x, y int, s string, attr frame.Attr)
	PutNumber(x, y int, v uint32, width int, attr frame.Attr)
	Present() int
}

// drawStatic draws the border, labels and the control legend.
func (e *Engine) drawStatic() {
	border := frame.MakeCell('#', textAttr)
	for y := 0; y < Height; y++ {
		e.screen.Set(0, y, border)
		e.screen.Set(Width+1, y, border)
	}
	for x := 0; x < Width+2; x++ {
		e.screen.Set(x, Height, border)
	}

	e.screen.PutString(panelLeft, nextRow, "NEXT:", textAttr)
	e.screen.PutString(panelLeft, linesRow, "LINES:", textAttr)
	e.screen.PutString(panelLeft, levelRow, "LEVEL:", textAttr)
	e.screen.PutString(panelLeft, scoreRow, "SCORE:", textAttr)

	for i, s := range legend {
		e.screen.PutString(panelLeft, legendRow+i, s, textAttr)
	}
}

func (e *Engine) drawLines() {
	e.screen.PutNumber(numbersLeft, linesRow, e.score.Lines, numbersWidth, textAttr)
}

func (e *Engine) drawLevel() {
	e.screen.PutNumber(numbersLeft, levelRow, e.score.Level, numbersWidth, textAttr)
}

func (e *Engine) drawScore() {
	e.screen.PutNumber(numbersLeft, scoreRow, e.score.Points, numbersWidth, textAttr)
}

// drawField copies the playfield and the preview box to the screen.
func (e *Engine) drawField() {
	for x := 0; x < Width; x++ {
		for y := 0; y < Height; y++ {
			e.screen.Set(fieldLeft+x, y, tokenCell(e.grid.cells[x][y]))
		}
	}

	for x := 0; x < previewSize; x++ {
		for y := 0; y < previewSize; y++ {
			e.screen.Set(panelLeft+x, previewTop+y, tokenCell(e.preview[x][y]))
		}
	}
}

// drawPreview refreshes the preview box with the pending piece.
func (e *Engine) drawPreview() {
	e.preview = [previewSize][previewSize]Token{}
	if !e.cfg.ShowNext {
		return
	}

	for _, p := range Spawn(e.next, 0).Cells {
		e.preview[p.X][p.Y] = e.next.Token()
	}
}

func tokenCell(tok Token) frame.Cell {
	if tok == Empty {
		return frame.Blank
	}
	return frame.MakeCell(tok.Glyph(), frame.Attr(tok.Attr()))
}
