package console

import (
	"io"

	"tetrisos/kernel"
	"tetrisos/kernel/kfmt"
)

const numColors = 16

var errMapFailed = &kernel.Error{Module: "vga_text_console", Message: "unable to map framebuffer"}

// VgaTextConsole drives the color text mode (mode 3) framebuffer. Every cell
// is a 16-bit word: the low byte holds the character and the high byte the
// attribute, with the background color in the upper nibble and the
// foreground color in the lower nibble.
//
// Cells are cleared to a blank on light gray over black.
type VgaTextConsole struct {
	columns uint32
	rows    uint32

	physAddr uintptr
	fb       []uint16

	fg, bg    uint8
	clearChar uint16
}

// NewVgaTextConsole returns a console for a columns x rows framebuffer at
// physical address physAddr. The framebuffer is mapped by DriverInit.
func NewVgaTextConsole(columns, rows uint32, physAddr uintptr) *VgaTextConsole {
	cons := new(VgaTextConsole)
	cons.Setup(columns, rows, physAddr)
	return cons
}

// Setup configures cons in place and forgets any mapped framebuffer.
func (cons *VgaTextConsole) Setup(columns, rows uint32, physAddr uintptr) {
	*cons = VgaTextConsole{
		columns:   columns,
		rows:      rows,
		physAddr:  physAddr,
		fg:        7,
		bg:        0,
		clearChar: ' ',
	}
}

// Dimensions returns the console width and height in characters.
func (cons *VgaTextConsole) Dimensions() (uint32, uint32) {
	return cons.columns, cons.rows
}

// DefaultColors returns the colors used for clearing the console.
func (cons *VgaTextConsole) DefaultColors() (uint8, uint8) {
	return cons.fg, cons.bg
}

// Fill clears a rectangle whose top-left corner is at the 1-based
// coordinates x, y. The rectangle is clipped to the screen; a corner that
// lies off-screen is moved to the nearest edge.
func (cons *VgaTextConsole) Fill(x, y, width, height uint32, fg, bg uint8) {
	if width == 0 || height == 0 {
		return
	}

	x = min(max(x, 1), cons.columns)
	y = min(max(y, 1), cons.rows)
	right := min(x+width-1, cons.columns)
	bottom := min(y+height-1, cons.rows)

	blank := cons.cell(byte(cons.clearChar), fg, bg)
	for row := y; row <= bottom; row++ {
		line := cons.fb[cons.offset(x, row) : cons.offset(right, row)+1]
		for i := range line {
			line[i] = blank
		}
	}
}

// Write places ch at the 1-based coordinates x, y. Writes outside the
// screen are dropped. Colors outside the 16 color palette are replaced by
// the defaults.
func (cons *VgaTextConsole) Write(ch byte, fg, bg uint8, x, y uint32) {
	if x == 0 || x > cons.columns || y == 0 || y > cons.rows {
		return
	}

	cons.fb[cons.offset(x, y)] = cons.cell(ch, fg, bg)
}

// offset returns the framebuffer index of the cell at x, y.
func (cons *VgaTextConsole) offset(x, y uint32) uint32 {
	return (y-1)*cons.columns + (x - 1)
}

func (cons *VgaTextConsole) cell(ch byte, fg, bg uint8) uint16 {
	if fg >= numColors {
		fg = cons.fg
	}
	if bg >= numColors {
		bg = cons.bg
	}
	return uint16(bg)<<12 | uint16(fg)<<8 | uint16(ch)
}

// DriverName returns the name of this driver.
func (cons *VgaTextConsole) DriverName() string {
	return "vga_text_console"
}

// DriverVersion returns the version of this driver.
func (cons *VgaTextConsole) DriverVersion() (uint16, uint16, uint16) {
	return 0, 1, 0
}

// DriverInit maps the framebuffer and clears it.
func (cons *VgaTextConsole) DriverInit(w io.Writer) *kernel.Error {
	fb := mapRegionFn(cons.physAddr, int(cons.columns*cons.rows))
	if fb == nil {
		return errMapFailed
	}

	cons.fb = fb
	cons.Fill(1, 1, cons.columns, cons.rows, cons.fg, cons.bg)

	kfmt.Fprintf(w, "mapped %dx%d framebuffer at 0x%x\n", cons.columns, cons.rows, cons.physAddr)
	return nil
}
