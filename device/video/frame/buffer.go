// Package frame implements a double-buffered renderer for a character-cell
// console. Drawing goes to an off-screen frame; Present copies only the
// cells that changed since the previous Present to the device.
package frame

import "tetrisos/device/video/console"

const (
	// Width is the number of columns in a frame.
	Width = 80

	// Height is the number of rows in a frame.
	Height = 25
)

// Buffer holds the frame currently shown by the device and the frame being
// drawn. Outside of Present, only the next frame is modified.
type Buffer struct {
	dev console.Device

	current [Width * Height]Cell
	next    [Width * Height]Cell
}

// New returns a Buffer that presents frames on dev. The device is cleared.
func New(dev console.Device) *Buffer {
	b := new(Buffer)
	b.Setup(dev)
	return b
}

// Setup points b at dev and resets both frames and the device.
func (b *Buffer) Setup(dev console.Device) {
	b.dev = dev
	b.Reset()
}

// Reset blanks both frames and the device so that they agree with each
// other.
func (b *Buffer) Reset() {
	for i := range b.current {
		b.current[i] = Blank
		b.next[i] = Blank
	}

	attr := Blank.Attr()
	b.dev.Fill(1, 1, Width, Height, uint8(attr.Fg()), uint8(attr.Bg()))
}

// Clear blanks the next frame.
func (b *Buffer) Clear() {
	for i := range b.next {
		b.next[i] = Blank
	}
}

// Set stores c at column x, row y of the next frame. Coordinates are
// 0-based; writes outside the frame are ignored.
func (b *Buffer) Set(x, y int, c Cell) {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return
	}
	b.next[y*Width+x] = c
}

// Get returns the cell at column x, row y of the next frame or Blank for
// coordinates outside the frame.
func (b *Buffer) Get(x, y int) Cell {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return Blank
	}
	return b.next[y*Width+x]
}

// PutString draws s starting at column x, row y. The string is clipped at
// the right edge.
func (b *Buffer) PutString(x, y int, s string, attr Attr) {
	for i := 0; i < len(s); i++ {
		b.Set(x+i, y, MakeCell(s[i], attr))
	}
}

// PutNumber draws v left-aligned in a field of width cells starting at
// column x, row y. The whole field is blanked with attr first.
func (b *Buffer) PutNumber(x, y int, v uint32, width int, attr Attr) {
	var (
		digits [10]byte
		n      int
	)

	for i := 0; i < width; i++ {
		b.Set(x+i, y, MakeCell(' ', attr))
	}

	for {
		digits[n] = '0' + byte(v%10)
		n++
		v /= 10
		if v == 0 {
			break
		}
	}

	for i := 0; i < n; i++ {
		b.Set(x+i, y, MakeCell(digits[n-1-i], attr))
	}
}

// Present writes every cell that differs between the next and the current
// frame to the device and returns the number of device writes.
func (b *Buffer) Present() int {
	var writes int

	for i, c := range &b.next {
		if c == b.current[i] {
			continue
		}

		b.current[i] = c
		attr := c.Attr()
		b.dev.Write(c.Char(), uint8(attr.Fg()), uint8(attr.Bg()), uint32(i%Width)+1, uint32(i/Width)+1)
		writes++
	}

	return writes
}
