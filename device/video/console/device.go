// Package console provides drivers for the character-cell display devices
// that the kernel draws on.
package console

// Device is a character-cell display. Coordinates are 1-based with the
// top-left cell at 1,1. Colors are indices into the 16 color palette.
type Device interface {
	// Dimensions returns the number of columns and rows.
	Dimensions() (uint32, uint32)

	// DefaultColors returns the foreground and background colors that
	// the device clears to.
	DefaultColors() (fg, bg uint8)

	// Fill clears a rectangle to blanks drawn in the given colors.
	Fill(x, y, width, height uint32, fg, bg uint8)

	// Write draws ch at the given position.
	Write(ch byte, fg, bg uint8, x, y uint32)
}
