// Package irq routes hardware interrupt requests to registered handlers.
package irq

// Line identifies one of the 16 request lines of the cascaded 8259A pair.
type Line uint8

const (
	// Timer is wired to channel 0 of the programmable interval timer.
	Timer = Line(0)

	// Keyboard is raised by the keyboard controller when a scan code is
	// available on its data port.
	Keyboard = Line(1)

	// NumLines is the number of request lines served by both controllers.
	NumLines = 16
)

const (
	// MasterBase is the first vector used by lines 0-7 once the
	// controllers are remapped. It sits right after the 32 vectors that
	// the CPU reserves for exceptions.
	MasterBase = uint8(0x20)

	// SlaveBase is the first vector used by lines 8-15.
	SlaveBase = uint8(0x28)
)

// Vector returns the CPU interrupt vector raised by line after the
// controllers have been remapped to MasterBase and SlaveBase.
func (l Line) Vector() uint8 {
	if l < 8 {
		return MasterBase + uint8(l)
	}
	return SlaveBase + uint8(l-8)
}

// Handler services a request line. HandleInterrupt is invoked with
// interrupts disabled whenever the line fires and must acknowledge the
// interrupt before returning.
//
// Registration must not allocate, so drivers register themselves instead of
// a method value.
type Handler interface {
	HandleInterrupt()
}

// HandlerFunc adapts an ordinary function to a Handler.
type HandlerFunc func()

// HandleInterrupt calls f.
func (f HandlerFunc) HandleInterrupt() { f() }

// Table holds one handler slot per request line.
type Table struct {
	handlers [NumLines]Handler
}

// Register installs h as the handler for line replacing any previous
// registration. Registrations for lines outside the supported range are
// ignored.
func (t *Table) Register(line Line, h Handler) {
	if line >= NumLines {
		return
	}
	t.handlers[line] = h
}

// Dispatch invokes the handler registered for line, if any.
//
//go:nosplit
func (t *Table) Dispatch(line Line) {
	if line >= NumLines {
		return
	}
	if h := t.handlers[line]; h != nil {
		h.HandleInterrupt()
	}
}
