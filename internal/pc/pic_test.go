package pc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// programPIC runs the initialization sequence used by the kernel.
func programPIC(p *PIC, masterBase, slaveBase uint8) {
	p.WritePort(MasterCommandPort, 0x11)
	p.WritePort(SlaveCommandPort, 0x11)
	p.WritePort(MasterDataPort, masterBase)
	p.WritePort(SlaveDataPort, slaveBase)
	p.WritePort(MasterDataPort, 0x04)
	p.WritePort(SlaveDataPort, 0x02)
	p.WritePort(MasterDataPort, 0x01)
	p.WritePort(SlaveDataPort, 0x01)
}

func TestPICInitialization(t *testing.T) {
	p := NewPIC()
	master, slave := p.VectorBases()
	assert.Equal(t, uint8(0x08), master)
	assert.Equal(t, uint8(0x70), slave)

	p.WritePort(MasterDataPort, 0xb8)
	programPIC(p, 0x20, 0x28)

	master, slave = p.VectorBases()
	assert.Equal(t, uint8(0x20), master)
	assert.Equal(t, uint8(0x28), slave)

	// ICW1 clears the mask; the words that follow must not touch it.
	masterMask, slaveMask := p.Masks()
	assert.Zero(t, masterMask)
	assert.Zero(t, slaveMask)

	p.WritePort(MasterDataPort, 0xfc)
	assert.Equal(t, uint8(0xfc), p.ReadPort(MasterDataPort))
}

func TestPICInitializationWithoutICW4(t *testing.T) {
	p := NewPIC()
	p.WritePort(MasterCommandPort, 0x12) // single, no ICW4
	p.WritePort(MasterDataPort, 0x40)
	p.WritePort(MasterDataPort, 0x55)

	base, _ := p.VectorBases()
	assert.Equal(t, uint8(0x40), base)
	assert.Equal(t, uint8(0x55), p.ReadPort(MasterDataPort))
}

func TestPICAcknowledge(t *testing.T) {
	p := NewPIC()
	programPIC(p, 0x20, 0x28)

	_, ok := p.Acknowledge()
	require.False(t, ok)
	require.False(t, p.Pending())

	p.Raise(1)
	p.Raise(0)
	require.True(t, p.Pending())

	vector, ok := p.Acknowledge()
	require.True(t, ok)
	assert.Equal(t, uint8(0x20), vector, "line 0 has the highest priority")

	// Line 1 is blocked until line 0 is acknowledged.
	_, ok = p.Acknowledge()
	assert.False(t, ok)

	p.WritePort(MasterCommandPort, 0x20)
	vector, ok = p.Acknowledge()
	require.True(t, ok)
	assert.Equal(t, uint8(0x21), vector)

	p.WritePort(MasterCommandPort, 0x20)
	masterISR, _ := p.InService()
	assert.Zero(t, masterISR)
}

func TestPICHigherPriorityPreempts(t *testing.T) {
	p := NewPIC()
	programPIC(p, 0x20, 0x28)

	p.Raise(1)
	vector, ok := p.Acknowledge()
	require.True(t, ok)
	require.Equal(t, uint8(0x21), vector)

	p.Raise(0)
	vector, ok = p.Acknowledge()
	require.True(t, ok)
	assert.Equal(t, uint8(0x20), vector)

	isr, _ := p.InService()
	assert.Equal(t, uint8(0x03), isr)

	// A non-specific EOI ends the highest priority request first.
	p.WritePort(MasterCommandPort, 0x20)
	isr, _ = p.InService()
	assert.Equal(t, uint8(0x02), isr)
}

func TestPICCascade(t *testing.T) {
	p := NewPIC()
	programPIC(p, 0x20, 0x28)

	p.Raise(12)
	vector, ok := p.Acknowledge()
	require.True(t, ok)
	assert.Equal(t, uint8(0x2c), vector)

	masterISR, slaveISR := p.InService()
	assert.Equal(t, uint8(1<<2), masterISR)
	assert.Equal(t, uint8(1<<4), slaveISR)

	// The slave is acknowledged first, then the master.
	p.WritePort(SlaveCommandPort, 0x20)
	p.WritePort(MasterCommandPort, 0x20)
	masterISR, slaveISR = p.InService()
	assert.Zero(t, masterISR)
	assert.Zero(t, slaveISR)
}

func TestPICMask(t *testing.T) {
	p := NewPIC()
	programPIC(p, 0x20, 0x28)
	p.WritePort(MasterDataPort, 0x01)

	p.Raise(0)
	assert.False(t, p.Pending())

	p.WritePort(MasterDataPort, 0x00)
	vector, ok := p.Acknowledge()
	require.True(t, ok)
	assert.Equal(t, uint8(0x20), vector)
}

func TestPICReadRegisters(t *testing.T) {
	p := NewPIC()
	programPIC(p, 0x20, 0x28)
	p.Raise(3)

	p.WritePort(MasterCommandPort, 0x0a) // OCW3: read IRR
	assert.Equal(t, uint8(1<<3), p.ReadPort(MasterCommandPort))

	_, ok := p.Acknowledge()
	require.True(t, ok)

	p.WritePort(MasterCommandPort, 0x0b) // OCW3: read ISR
	assert.Equal(t, uint8(1<<3), p.ReadPort(MasterCommandPort))

	p.WritePort(MasterCommandPort, 0x63) // specific EOI for line 3
	assert.Zero(t, p.ReadPort(MasterCommandPort))
}

func TestPICDismiss(t *testing.T) {
	p := NewPIC()
	programPIC(p, 0x20, 0x28)

	p.Raise(9)
	vector, ok := p.Acknowledge()
	require.True(t, ok)

	p.Dismiss(vector)
	masterISR, slaveISR := p.InService()
	assert.Zero(t, masterISR)
	assert.Zero(t, slaveISR)
}

func TestPICRaiseNotifies(t *testing.T) {
	var calls int
	p := NewPIC()
	p.onRequest = func() { calls++ }

	p.Raise(0)
	p.Raise(16)
	assert.Equal(t, 1, calls)
}
