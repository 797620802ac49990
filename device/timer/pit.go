// Package timer drives channel 0 of the 8253/8254 programmable interval
// timer and keeps the system tick counter.
package timer

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
	// BaseFrequency is the input clock of the PIT in Hz.
	BaseFrequency = 1193182

	// MinFrequency is the lowest rate whose divisor fits in the 16-bit
	// reload register.
	MinFrequency = BaseFrequency/0xffff + 1

	channel0Port = uint16(0x40)
	commandPort  = uint16(0x43)

	// cmdChannel0RateGenerator selects channel 0, lobyte/hibyte access,
	// mode 2 (rate generator) and binary counting.
	cmdChannel0RateGenerator = uint8(0x34)
)

var (
	// The following functions are mocked by tests.
	portWriteByteFn     = cpu.PortWriteByte
	disableInterruptsFn = cpu.DisableInterrupts
	enableInterruptsFn  = cpu.EnableInterrupts
	picRemapFn          = pic.Remap
	picAcknowledgeFn    = pic.Acknowledge

	errFrequencyOutOfRange = &kernel.Error{Module: "pit", Message: "tick rate below minimum"}
)

// PIT is the driver for the programmable interval timer. It owns the tick
// counter incremented on every timer interrupt.
type PIT struct {
	irqTable *irq.Table
	hz       uint32
	ticks    atomic.Uint64
}

// NewPIT returns a driver that programs the timer to fire hz times per
// second and registers its tick handler with table.
func NewPIT(table *irq.Table, hz uint32) *PIT {
	p := new(PIT)
	p.Setup(table, hz)
	return p
}

// Setup configures a PIT in place and clears its tick counter. The kernel
// embeds its timer in a static struct and calls Setup instead of NewPIT.
func (p *PIT) Setup(table *irq.Table, hz uint32) {
	p.irqTable = table
	p.hz = hz
	p.ticks.Store(0)
}

// DriverName returns the name of this driver.
func (*PIT) DriverName() string {
	return "pit"
}

// DriverVersion returns the version of this driver.
func (*PIT) DriverVersion() (uint16, uint16, uint16) {
	return 0, 1, 0
}

// DriverInit remaps the interrupt controllers, programs the timer and starts
// counting ticks.
func (p *PIT) DriverInit(w io.Writer) *kernel.Error {
	if p.hz < MinFrequency {
		return errFrequencyOutOfRange
	}

	p.Init(p.hz)
	kfmt.Fprintf(w, "tick rate %dHz (divisor %d)\n", p.hz, Divisor(p.hz))
	return nil
}

// Init masks interrupts, remaps the interrupt controllers, programs the
// timer frequency, registers the tick handler and unmasks interrupts. The
// controllers are remapped before anything else so that no interrupt can
// hit an unconfigured vector.
func (p *PIT) Init(hz uint32) {
	disableInterruptsFn()
	picRemapFn(irq.MasterBase, irq.SlaveBase)
	p.SetFrequency(hz)
	p.irqTable.Register(irq.Timer, p)
	enableInterruptsFn()
}

// SetFrequency programs channel 0 as a rate generator firing hz times per
// second. A zero hz leaves the timer untouched.
func (p *PIT) SetFrequency(hz uint32) {
	if hz == 0 {
		return
	}

	divisor := Divisor(hz)
	portWriteByteFn(commandPort, cmdChannel0RateGenerator)
	portWriteByteFn(channel0Port, uint8(divisor))
	portWriteByteFn(channel0Port, uint8(divisor>>8))
	p.hz = hz
}

// Ticks returns the number of timer interrupts serviced since Init.
func (p *PIT) Ticks() uint64 {
	return p.ticks.Load()
}

// Frequency returns the configured tick rate in Hz.
func (p *PIT) Frequency() uint32 {
	return p.hz
}

// HandleInterrupt counts a tick. It runs in interrupt context.
func (p *PIT) HandleInterrupt() {
	p.ticks.Add(1)
	picAcknowledgeFn(uint8(irq.Timer))
}

// Divisor returns the reload value that makes the timer fire hz times per
// second. The result is never smaller than 1. Rates below MinFrequency
// yield divisors that do not fit in 16 bits.
func Divisor(hz uint32) uint32 {
	if hz == 0 {
		return 0
	}

	divisor := BaseFrequency / hz
	if divisor == 0 {
		divisor = 1
	}
	return divisor
}
