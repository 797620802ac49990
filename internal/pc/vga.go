package pc

import (
	"strings"
	"sync"
)

const (
	// VGATextBase is the physical address of the color text framebuffer.
	VGATextBase = uintptr(0xb8000)

	// TextColumns and TextRows are the dimensions of mode 3.
	TextColumns = 80
	TextRows    = 25

	vgaTextWords = TextColumns * TextRows
)

// Screen is a copy of the text framebuffer. Each word holds the character
// in the low byte and the attribute in the high byte.
type Screen [vgaTextWords]uint16

// At returns the character and the attribute at column x, row y.
func (s *Screen) At(x, y int) (byte, uint8) {
	if x < 0 || x >= TextColumns || y < 0 || y >= TextRows {
		return 0, 0
	}
	w := s[y*TextColumns+x]
	return byte(w), uint8(w >> 8)
}

// Row returns the characters of row y with trailing blanks removed.
func (s *Screen) Row(y int) string {
	var b strings.Builder
	for x := 0; x < TextColumns; x++ {
		ch, _ := s.At(x, y)
		if ch < ' ' || ch > '~' {
			ch = ' '
		}
		b.WriteByte(ch)
	}
	return strings.TrimRight(b.String(), " ")
}

// String renders the screen as text, one line per row.
func (s *Screen) String() string {
	var b strings.Builder
	for y := 0; y < TextRows; y++ {
		b.WriteString(s.Row(y))
		b.WriteByte('\n')
	}
	return b.String()
}

// VGA holds the text framebuffer. The kernel writes to it directly; other
// goroutines only see the copies published with Publish.
type VGA struct {
	mem [vgaTextWords]uint16

	mu        sync.Mutex
	published Screen
	frames    uint64
}

// Memory returns the slice of text memory starting at physAddr if the
// range lies within the framebuffer.
func (v *VGA) Memory(physAddr uintptr, count int) ([]uint16, bool) {
	if physAddr < VGATextBase || count < 0 {
		return nil, false
	}

	offset := physAddr - VGATextBase
	if offset&1 != 0 {
		return nil, false
	}

	first := int(offset / 2)
	if first+count > vgaTextWords {
		return nil, false
	}
	return v.mem[first : first+count], true
}

// Publish copies the framebuffer so that it can be displayed.
func (v *VGA) Publish() {
	v.mu.Lock()
	v.published = v.mem
	v.frames++
	v.mu.Unlock()
}

// Snapshot returns the last published framebuffer and the number of times
// it was published.
func (v *VGA) Snapshot() (Screen, uint64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.published, v.frames
}
