// Package keyboard implements a driver for the PS/2 keyboard controller and
// the translation of its scan codes into key events.
package keyboard

import (
	"io"
	"sync/atomic"

	"tetrisos/kernel"
	"tetrisos/kernel/cpu"
	"tetrisos/kernel/irq"
	"tetrisos/kernel/kfmt"
	"tetrisos/kernel/pic"
)

const (
	dataPort = uint16(0x60)

	// pendingFlag marks the latched scan code as not yet consumed.
	pendingFlag = uint32(1 << 8)
)

var (
	// The following functions are mocked by tests.
	portReadByteFn     = cpu.PortReadByte
	enableInterruptsFn = cpu.EnableInterrupts
	picAcknowledgeFn   = pic.Acknowledge
)

// PS2 is the driver for the keyboard attached to the PS/2 controller. It
// latches the most recent scan code delivered by the controller; codes that
// arrive before the previous one is read overwrite it.
type PS2 struct {
	irqTable *irq.Table

	// latch holds pendingFlag | scanCode. It is written by the interrupt
	// handler and swapped to zero by Read.
	latch atomic.Uint32
}

// NewPS2 returns a keyboard driver that registers its interrupt handler
// with table.
func NewPS2(table *irq.Table) *PS2 {
	k := new(PS2)
	k.Setup(table)
	return k
}

// Setup configures a driver in place and drops any latched scan code.
func (k *PS2) Setup(table *irq.Table) {
	k.irqTable = table
	k.latch.Store(0)
}

// DriverName returns the name of this driver.
func (*PS2) DriverName() string {
	return "ps2_keyboard"
}

// DriverVersion returns the version of this driver.
func (*PS2) DriverVersion() (uint16, uint16, uint16) {
	return 0, 1, 0
}

// DriverInit registers the keyboard interrupt handler.
func (k *PS2) DriverInit(w io.Writer) *kernel.Error {
	k.Init()
	kfmt.Fprintf(w, "listening on irq %d\n", uint8(irq.Keyboard))
	return nil
}

// Init registers the keyboard interrupt handler and enables interrupts.
func (k *PS2) Init() {
	k.irqTable.Register(irq.Keyboard, k)
	enableInterruptsFn()
}

// HandleInterrupt latches the scan code waiting on the data port. It runs in
// interrupt context.
func (k *PS2) HandleInterrupt() {
	code := portReadByteFn(dataPort)
	k.latch.Store(pendingFlag | uint32(code))
	picAcknowledgeFn(uint8(irq.Keyboard))
}

// Read consumes the latched scan code and returns the matching event. If no
// code arrived since the previous call, the zero scan code is translated,
// which yields an event without a character.
func (k *PS2) Read() Event {
	return Translate(uint8(k.latch.Swap(0)))
}

// Pending reports whether a scan code is waiting to be read.
func (k *PS2) Pending() bool {
	return k.latch.Load()&pendingFlag != 0
}
