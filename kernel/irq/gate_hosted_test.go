//go:build !baremetal

package irq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tetrisos/kernel/cpu"
)

func TestInstallGates(t *testing.T) {
	defer func() { setGateFn = cpu.SetGate }()

	gates := make(map[uint8]func())
	setGateFn = func(vector uint8, gate func()) {
		gates[vector] = gate
	}

	var (
		table Table
		fired []Line
	)
	table.Register(Timer, HandlerFunc(func() { fired = append(fired, Timer) }))
	table.Register(Keyboard, HandlerFunc(func() { fired = append(fired, Keyboard) }))

	InstallGates(&table)

	require.Len(t, gates, 2)
	require.Contains(t, gates, uint8(0x20))
	require.Contains(t, gates, uint8(0x21))

	gates[0x21]()
	gates[0x20]()
	gates[0x20]()

	assert.Equal(t, []Line{Keyboard, Timer, Timer}, fired)
}
