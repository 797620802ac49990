package window

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColors(t *testing.T) {
	fg, bg := Colors(0x1f)
	assert.Equal(t, color.RGBA{0xff, 0xff, 0xff, 0xff}, fg)
	assert.Equal(t, color.RGBA{0x00, 0x00, 0xaa, 0xff}, bg)

	// The blink bit does not select a bright background.
	fg, bg = Colors(0xc6)
	assert.Equal(t, color.RGBA{0xaa, 0x55, 0x00, 0xff}, fg)
	assert.Equal(t, color.RGBA{0xaa, 0x00, 0x00, 0xff}, bg)
}

func TestGlyph(t *testing.T) {
	specs := []struct {
		in    byte
		exp   byte
		drawn bool
	}{
		{'#', '#', true},
		{'A', 'A', true},
		{' ', ' ', false},
		{0, ' ', false},
		{0xdb, ' ', false},
	}

	for specIndex, spec := range specs {
		ch, drawn := Glyph(spec.in)
		assert.Equal(t, spec.exp, ch, "spec %d", specIndex)
		assert.Equal(t, spec.drawn, drawn, "spec %d", specIndex)
	}
}
