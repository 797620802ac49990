// Package term displays the emulated text screen on an ANSI terminal and
// turns key strokes into keyboard scan codes.
package term

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"golang.org/x/term"

	"tetrisos/device/keyboard"
	"tetrisos/internal/pc"
)

const (
	// DefaultHold is how long a key stays down after its last byte was
	// received. Terminals report key strokes but not releases.
	DefaultHold = 150 * time.Millisecond

	frameInterval = time.Second / 30

	ctrlC = 0x03
)

// vgaToANSI maps the 3 color bits of a VGA attribute nibble to the ANSI
// color with the same appearance.
var vgaToANSI = [8]int{0, 4, 2, 6, 1, 5, 3, 7}

// Frontend connects a terminal to a machine.
type Frontend struct {
	m    *pc.Machine
	in   io.Reader
	out  io.Writer
	hold time.Duration

	mu       sync.Mutex
	releases map[uint8]*time.Timer

	last  pc.Screen
	drawn bool
	buf   bytes.Buffer
}

// New returns a frontend that reads keys from in and draws to out.
func New(m *pc.Machine, in io.Reader, out io.Writer) *Frontend {
	return &Frontend{
		m:        m,
		in:       in,
		out:      out,
		hold:     DefaultHold,
		releases: make(map[uint8]*time.Timer),
	}
}

// Run draws the screen until the machine powers off or ctx is canceled. If
// the input is a terminal it is switched to raw mode for the duration.
func (f *Frontend) Run(ctx context.Context) error {
	if file, ok := f.in.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		fd := int(file.Fd())
		state, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("term: enabling raw mode: %w", err)
		}
		defer term.Restore(fd, state)

		if w, h, err := term.GetSize(fd); err == nil && (w < pc.TextColumns || h < pc.TextRows) {
			log.Printf("terminal is %dx%d, the screen needs %dx%d", w, h, pc.TextColumns, pc.TextRows)
		}
	}

	fmt.Fprint(f.out, "\x1b[?25l\x1b[2J")
	defer fmt.Fprintf(f.out, "\x1b[0m\x1b[%d;1H\x1b[?25h\r\n", pc.TextRows+1)

	go f.readKeys()

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return f.draw()
		case <-f.m.Done():
			return f.draw()
		case <-ticker.C:
			if err := f.draw(); err != nil {
				return err
			}
		}
	}
}

// draw writes the cells that changed since the previous call.
func (f *Frontend) draw() error {
	screen, _ := f.m.VGA.Snapshot()

	f.buf.Reset()
	Render(&f.buf, &f.last, &screen, !f.drawn)
	f.last, f.drawn = screen, true

	if f.buf.Len() == 0 {
		return nil
	}
	if _, err := f.out.Write(f.buf.Bytes()); err != nil {
		return fmt.Errorf("term: writing frame: %w", err)
	}
	return nil
}

// readKeys feeds input bytes to HandleByte until the input is exhausted.
func (f *Frontend) readKeys() {
	var b [64]byte
	for {
		n, err := f.in.Read(b[:])
		for _, ch := range b[:n] {
			f.HandleByte(ch)
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Printf("term: reading input: %v", err)
			}
			return
		}
	}
}

// HandleByte presses the key that produced ch. The key is released once no
// further byte for it arrives within the hold time. Ctrl-C powers the
// machine off; bytes without a scan code are ignored.
func (f *Frontend) HandleByte(ch byte) {
	if ch == ctrlC {
		f.m.PowerOff()
		return
	}

	if ch >= 'A' && ch <= 'Z' {
		ch += 'a' - 'A'
	}
	code, ok := keyboard.MakeCode(ch)
	if !ok {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if timer, held := f.releases[code]; held {
		timer.Reset(f.hold)
		return
	}

	f.m.Keyboard.Press(code)
	f.releases[code] = time.AfterFunc(f.hold, func() {
		f.mu.Lock()
		delete(f.releases, code)
		f.mu.Unlock()
		f.m.Keyboard.Release(code)
	})
}

// Render appends to buf the escape sequences that turn prev into cur on a
// terminal whose cursor position is unknown. With full set every cell is
// drawn.
func Render(buf *bytes.Buffer, prev, cur *pc.Screen, full bool) {
	var (
		lastAttr         = -1
		cursorX, cursorY = -1, -1
	)

	for y := 0; y < pc.TextRows; y++ {
		for x := 0; x < pc.TextColumns; x++ {
			ch, attr := cur.At(x, y)
			if !full {
				if oldCh, oldAttr := prev.At(x, y); oldCh == ch && oldAttr == attr {
					continue
				}
			}

			if x != cursorX || y != cursorY {
				fmt.Fprintf(buf, "\x1b[%d;%dH", y+1, x+1)
			}
			if int(attr) != lastAttr {
				writeSGR(buf, attr)
				lastAttr = int(attr)
			}
			if ch < ' ' || ch > '~' {
				ch = ' '
			}
			buf.WriteByte(ch)
			cursorX, cursorY = x+1, y
		}
	}

	if lastAttr != -1 {
		buf.WriteString("\x1b[0m")
	}
}

// writeSGR selects the colors of a VGA attribute. Bright foregrounds use
// the high intensity ANSI colors; the blink bit is ignored.
func writeSGR(buf *bytes.Buffer, attr uint8) {
	fg := 30 + vgaToANSI[attr&7]
	if attr&0x08 != 0 {
		fg += 60
	}
	bg := 40 + vgaToANSI[(attr>>4)&7]
	fmt.Fprintf(buf, "\x1b[%d;%dm", fg, bg)
}
