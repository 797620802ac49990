//go:build baremetal && 386

package irq

import (
	"unsafe"

	"tetrisos/kernel/cpu"
)

const (
	// kernelCodeSelector is the flat code segment set up by the boot
	// loader.
	kernelCodeSelector = uint16(0x08)

	// gateFlags marks a present, ring 0, 32-bit interrupt gate.
	gateFlags = uint8(0x8e)
)

// idtEntry is the in-memory layout of a 32-bit gate descriptor.
type idtEntry struct {
	offsetLow  uint16
	selector   uint16
	zero       uint8
	flags      uint8
	offsetHigh uint16
}

var (
	// idt holds one descriptor per vector. Entries that are never set stay
	// zeroed and are therefore not present.
	idt [cpu.NumVectors]idtEntry

	// idtDescriptor is the 6-byte operand of LIDT: a 16-bit limit followed
	// by the 32-bit linear base address of idt.
	idtDescriptor [6]byte

	// activeTable receives every interrupt entering through a gate.
	activeTable *Table
)

// InstallGates points the timer and keyboard vectors at their assembly
// trampolines and loads the descriptor table. Both trampolines dispatch
// through t.
func InstallGates(t *Table) {
	activeTable = t

	setGate(Timer.Vector(), timerGateAddr())
	setGate(Keyboard.Vector(), keyboardGateAddr())

	limit := uint16(unsafe.Sizeof(idt) - 1)
	base := uint32(uintptr(unsafe.Pointer(&idt)))
	idtDescriptor[0] = byte(limit)
	idtDescriptor[1] = byte(limit >> 8)
	idtDescriptor[2] = byte(base)
	idtDescriptor[3] = byte(base >> 8)
	idtDescriptor[4] = byte(base >> 16)
	idtDescriptor[5] = byte(base >> 24)

	cpu.LoadIDT(uintptr(unsafe.Pointer(&idtDescriptor)))
}

func setGate(vector uint8, addr uintptr) {
	idt[vector] = idtEntry{
		offsetLow:  uint16(addr),
		selector:   kernelCodeSelector,
		flags:      gateFlags,
		offsetHigh: uint16(addr >> 16),
	}
}

// dispatchFromGate is called by the trampolines once the interrupted
// context has been saved.
//
//go:nosplit
func dispatchFromGate(line uint32) {
	activeTable.Dispatch(Line(line))
}

// timerGate and keyboardGate are the trampolines installed for the timer and
// keyboard vectors. They save all general purpose registers, dispatch the
// line and return with IRET.
func timerGate()
func keyboardGate()

// timerGateAddr and keyboardGateAddr return the entry addresses of the
// trampolines.
func timerGateAddr() uintptr
func keyboardGateAddr() uintptr
