package kfmt

import (
	"tetrisos/kernel"
	"tetrisos/kernel/cpu"
)

const panicRule = "\n-----------------------------------\n"

var (
	// cpuHaltFn is mocked by tests.
	cpuHaltFn = haltForever

	// errRuntimePanic carries the message of panics that were not raised
	// with a *kernel.Error.
	errRuntimePanic = &kernel.Error{Module: "rt", Message: "unknown cause"}
)

// Panic prints a banner describing e to the log sink and stops the CPU with
// interrupts disabled. e may be a *kernel.Error, an error, a string or nil.
// Panic never returns.
func Panic(e interface{}) {
	err := panicCause(e)

	Printf(panicRule)
	if err != nil {
		Printf("[%s] unrecoverable error: %s\n", err.Module, err.Message)
	}
	Printf("*** kernel panic: system halted ***")
	Printf(panicRule)

	cpuHaltFn()
}

func panicCause(e interface{}) *kernel.Error {
	switch t := e.(type) {
	case *kernel.Error:
		return t
	case error:
		errRuntimePanic.Message = t.Error()
	case string:
		errRuntimePanic.Message = t
	default:
		return nil
	}
	return errRuntimePanic
}

// haltForever masks interrupts so that HLT can never be woken up again.
func haltForever() {
	cpu.DisableInterrupts()
	for {
		cpu.Halt()
	}
}
