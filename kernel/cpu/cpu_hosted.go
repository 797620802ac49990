//go:build !baremetal

package cpu

// Platform is implemented by the software machine that stands in for the
// processor when the kernel runs as a hosted process. All methods are invoked
// from the goroutine that runs the kernel.
type Platform interface {
	// PortWriteByte handles an OUT instruction.
	PortWriteByte(port uint16, val uint8)

	// PortReadByte handles an IN instruction.
	PortReadByte(port uint16) uint8

	// SetInterruptFlag handles STI (true) and CLI (false). Pending
	// interrupts may be delivered before STI returns.
	SetInterruptFlag(enabled bool)

	// SetGate installs the entry point for an interrupt vector. The
	// platform clears the interrupt flag before invoking gate and restores
	// it when gate returns, mirroring an interrupt gate and IRET.
	SetGate(vector uint8, gate func())

	// Halt handles HLT. With the interrupt flag set it returns after at
	// least one interrupt has been delivered. With the flag clear the
	// machine powers off and Halt does not return.
	Halt()

	// Memory16 returns a view of count 16-bit words of physical memory
	// starting at physAddr.
	Memory16(physAddr uintptr, count int) []uint16
}

var platform Platform = detached{}

// Attach routes all processor operations to p. Passing nil detaches the
// current platform; operations then become no-ops.
func Attach(p Platform) {
	if p == nil {
		p = detached{}
	}
	platform = p
}

// EnableInterrupts enables interrupt handling.
func EnableInterrupts() { platform.SetInterruptFlag(true) }

// DisableInterrupts disables interrupt handling.
func DisableInterrupts() { platform.SetInterruptFlag(false) }

// Halt stops instruction execution until the next interrupt arrives.
func Halt() { platform.Halt() }

// PortWriteByte writes a uint8 value to the requested port.
func PortWriteByte(port uint16, val uint8) { platform.PortWriteByte(port, val) }

// PortReadByte reads a uint8 value from the requested port.
func PortReadByte(port uint16) uint8 { return platform.PortReadByte(port) }

// SetGate installs gate as the entry point for the given interrupt vector.
func SetGate(vector uint8, gate func()) { platform.SetGate(vector, gate) }

// Memory16 returns a view of count 16-bit words of physical memory.
func Memory16(physAddr uintptr, count int) []uint16 {
	return platform.Memory16(physAddr, count)
}

// detached is used while no platform is attached. Port reads float high like
// an unpopulated ISA bus and memory is backed by a scratch buffer.
type detached struct{}

func (detached) PortWriteByte(uint16, uint8) {}
func (detached) PortReadByte(uint16) uint8 { return 0xff }
func (detached) SetInterruptFlag(bool) {}
func (detached) SetGate(uint8, func()) {}
func (detached) Halt() {}
func (detached) Memory16(_ uintptr, count int) []uint16 {
	return make([]uint16, count)
}
