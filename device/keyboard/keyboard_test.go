package keyboard

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tetrisos/kernel/cpu"
	"tetrisos/kernel/irq"
	"tetrisos/kernel/pic"
)

func TestTranslate(t *testing.T) {
	specs := []struct {
		code uint8
		exp  Event
	}{
		{0x00, Event{0, true}},
		{0x01, Event{27, true}},
		{0x0e, Event{'\b', true}},
		{0x10, Event{'q', true}},
		{0x11, Event{'w', true}},
		{0x13, Event{'r', true}},
		{0x19, Event{'p', true}},
		{0x1c, Event{'\n', true}},
		{0x1d, Event{0, true}},
		{0x1e, Event{'a', true}},
		{0x1f, Event{'s', true}},
		{0x20, Event{'d', true}},
		{0x2b, Event{'\\', true}},
		{0x39, Event{' ', true}},
		{0x3a, Event{0, true}},
		{0x7f, Event{0, true}},
		{0x9e, Event{'a', false}},
		{0xa0, Event{'d', false}},
		{0x80, Event{0, false}},
		{0xff, Event{0, false}},
	}

	for _, spec := range specs {
		assert.Equal(t, spec.exp, Translate(spec.code), "code 0x%02x", spec.code)
	}
}

func TestMakeCode(t *testing.T) {
	for _, ch := range []byte("adwsprq") {
		code, ok := MakeCode(ch)
		require.True(t, ok, "char %q", ch)
		assert.Equal(t, Event{ch, true}, Translate(code))
		assert.Equal(t, Event{ch, false}, Translate(BreakCode(code)))
	}

	_, ok := MakeCode(0)
	assert.False(t, ok)
	_, ok = MakeCode('A')
	assert.False(t, ok)
}

// mockController feeds the given scan codes to successive reads of the data
// port and counts acknowledged interrupts.
func mockController(t *testing.T, codes ...uint8) *int {
	var acks int

	portReadByteFn = func(port uint16) uint8 {
		assert.Equal(t, dataPort, port)
		require.NotEmpty(t, codes)
		code := codes[0]
		codes = codes[1:]
		return code
	}
	enableInterruptsFn = func() {}
	picAcknowledgeFn = func(line uint8) {
		assert.Equal(t, uint8(irq.Keyboard), line)
		acks++
	}

	t.Cleanup(func() {
		portReadByteFn = cpu.PortReadByte
		enableInterruptsFn = cpu.EnableInterrupts
		picAcknowledgeFn = pic.Acknowledge
	})

	return &acks
}

func TestPressReleaseAcrossPolls(t *testing.T) {
	acks := mockController(t, 0x1e, 0x9e)

	var table irq.Table
	kbd := NewPS2(&table)
	kbd.Init()

	table.Dispatch(irq.Keyboard)
	assert.True(t, kbd.Pending())
	assert.Equal(t, Event{'a', true}, kbd.Read())
	assert.False(t, kbd.Pending())

	table.Dispatch(irq.Keyboard)
	assert.Equal(t, Event{'a', false}, kbd.Read())

	assert.Equal(t, 2, *acks)
}

func TestReadClearsLatch(t *testing.T) {
	mockController(t, 0x20)

	var table irq.Table
	kbd := NewPS2(&table)
	kbd.Init()

	table.Dispatch(irq.Keyboard)
	assert.Equal(t, Event{'d', true}, kbd.Read())

	// Nothing new arrived so the poll yields an event without a char.
	assert.Equal(t, Event{0, true}, kbd.Read())
}

func TestNewerCodeOverwritesOlder(t *testing.T) {
	acks := mockController(t, 0x1e, 0x11, 0x91)

	var table irq.Table
	kbd := NewPS2(&table)
	kbd.Init()

	table.Dispatch(irq.Keyboard)
	table.Dispatch(irq.Keyboard)
	table.Dispatch(irq.Keyboard)

	assert.Equal(t, Event{'w', false}, kbd.Read())
	assert.Equal(t, Event{0, true}, kbd.Read())
	assert.Equal(t, 3, *acks)
}

func TestDriverInit(t *testing.T) {
	var enabled bool
	mockController(t, 0x10)
	enableInterruptsFn = func() { enabled = true }

	var (
		buf   bytes.Buffer
		table irq.Table
	)
	kbd := NewPS2(&table)
	require.Nil(t, kbd.DriverInit(&buf))
	assert.True(t, enabled)
	assert.Equal(t, "listening on irq 1\n", buf.String())

	table.Dispatch(irq.Keyboard)
	assert.Equal(t, Event{'q', true}, kbd.Read())
}

func TestSetupDropsLatch(t *testing.T) {
	mockController(t, 0x1e)

	var (
		table irq.Table
		kbd   PS2
	)
	kbd.Setup(&table)
	kbd.Init()
	table.Dispatch(irq.Keyboard)
	require.True(t, kbd.Pending())

	kbd.Setup(&table)
	assert.False(t, kbd.Pending())
}

func TestInitDoesNotAllocate(t *testing.T) {
	mockController(t)

	var (
		table irq.Table
		kbd   PS2
	)
	allocs := testing.AllocsPerRun(10, func() {
		kbd.Setup(&table)
		kbd.Init()
	})
	assert.Zero(t, allocs)
}
