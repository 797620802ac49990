//go:build !baremetal

package irq

import "tetrisos/kernel/cpu"

// setGateFn is mocked by tests.
var setGateFn = cpu.SetGate

// InstallGates points the timer and keyboard vectors at gates that dispatch
// through t. The platform takes care of masking interrupts while a gate runs.
func InstallGates(t *Table) {
	for _, line := range []Line{Timer, Keyboard} {
		setGateFn(line.Vector(), func() { t.Dispatch(line) })
	}
}
