// Package window displays the emulated text screen in a desktop window and
// forwards key presses and releases as keyboard scan codes.
package window

import "image/color"

const (
	// CellWidth and CellHeight are the size of a character cell in pixels.
	CellWidth  = 8
	CellHeight = 16
)

// palette holds the 16 colors of the default VGA palette.
var palette = [16]color.RGBA{
	{0x00, 0x00, 0x00, 0xff},
	{0x00, 0x00, 0xaa, 0xff},
	{0x00, 0xaa, 0x00, 0xff},
	{0x00, 0xaa, 0xaa, 0xff},
	{0xaa, 0x00, 0x00, 0xff},
	{0xaa, 0x00, 0xaa, 0xff},
	{0xaa, 0x55, 0x00, 0xff},
	{0xaa, 0xaa, 0xaa, 0xff},
	{0x55, 0x55, 0x55, 0xff},
	{0x55, 0x55, 0xff, 0xff},
	{0x55, 0xff, 0x55, 0xff},
	{0x55, 0xff, 0xff, 0xff},
	{0xff, 0x55, 0x55, 0xff},
	{0xff, 0x55, 0xff, 0xff},
	{0xff, 0xff, 0x55, 0xff},
	{0xff, 0xff, 0xff, 0xff},
}

// Colors returns the foreground and background colors of a VGA attribute.
// The blink bit is ignored.
func Colors(attr uint8) (color.RGBA, color.RGBA) {
	return palette[attr&0x0f], palette[(attr>>4)&0x07]
}

// Glyph returns the character to draw for a framebuffer byte and whether
// anything needs to be drawn at all.
func Glyph(ch byte) (byte, bool) {
	if ch <= ' ' || ch > '~' {
		return ' ', false
	}
	return ch, true
}
