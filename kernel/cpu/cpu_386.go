//go:build baremetal && 386

package cpu

// EnableInterrupts executes STI.
func EnableInterrupts()

// DisableInterrupts executes CLI.
func DisableInterrupts()

// Halt executes HLT. It returns after the CPU has serviced an interrupt; with
// interrupts masked it never returns.
func Halt()

// PortWriteByte executes OUT to an 8-bit port.
func PortWriteByte(port uint16, val uint8)

// PortReadByte executes IN from an 8-bit port.
func PortReadByte(port uint16) uint8

// LoadIDT executes LIDT with the 6-byte limit/base descriptor stored at
// descriptorAddr.
func LoadIDT(descriptorAddr uintptr)
