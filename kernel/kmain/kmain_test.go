package kmain

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tetrisos/device"
	"tetrisos/device/keyboard"
	"tetrisos/game/tetris"
	"tetrisos/internal/pc"
	"tetrisos/kernel"
	"tetrisos/kernel/cpu"
	"tetrisos/kernel/hal/multiboot"
	"tetrisos/kernel/irq"
	"tetrisos/kernel/kfmt"
)

// boot attaches a fresh machine and runs the kernel on its own goroutine
// until it waits for the first interrupt.
func boot(t *testing.T, cmdLine string) (*pc.Machine, *bytes.Buffer) {
	t.Helper()

	var log bytes.Buffer
	m := pc.New()
	cpu.Attach(m)
	multiboot.SetBootCmdLine(cmdLine)
	kfmt.SetOutputSink(&log)

	t.Cleanup(func() {
		m.PowerOff()
		cpu.Attach(nil)
		multiboot.SetBootCmdLine("")
		kfmt.SetOutputSink(nil)
	})

	go Kmain(0)
	m.WaitIdle()
	return m, &log
}

func press(t *testing.T, m *pc.Machine, ch byte) {
	t.Helper()
	code, ok := keyboard.MakeCode(ch)
	require.True(t, ok)
	m.Press(code)
}

func release(t *testing.T, m *pc.Machine, ch byte) {
	t.Helper()
	code, ok := keyboard.MakeCode(ch)
	require.True(t, ok)
	m.Release(code)
}

func waitOff(t *testing.T, m *pc.Machine) {
	t.Helper()
	select {
	case <-m.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("machine did not halt")
	}
}

func screenContains(m *pc.Machine, row int, s string) bool {
	screen, _ := m.VGA.Snapshot()
	return strings.Contains(screen.Row(row), s)
}

func TestKmainBoot(t *testing.T) {
	m, log := boot(t, "tickrate=200 startlevel=3")

	assert.True(t, m.InterruptsEnabled())
	assert.Equal(t, uint32(200), m.PIT.Frequency())
	assert.Equal(t, uint8(2), m.PIT.Mode())

	master, slave := m.PIC.VectorBases()
	assert.Equal(t, irq.MasterBase, master)
	assert.Equal(t, irq.SlaveBase, slave)

	assert.True(t, screenContains(m, 7, "LINES:"))
	assert.True(t, screenContains(m, 8, "LEVEL: 3"))
	assert.True(t, screenContains(m, 9, "SCORE: 0"))

	m.Step(5)
	assert.Zero(t, m.Unhandled())

	out := log.String()
	assert.Contains(t, out, "[kmain] tickrate=200 startlevel=3 nextpreview=true\n")
	assert.Contains(t, out, "[hal] vga_text_console(0.1.0): initialized\n")
	assert.Contains(t, out, "[hal] pit(0.1.0): tick rate 200Hz (divisor 5965)\n")
	assert.Contains(t, out, "[hal] ps2_keyboard(0.1.0): initialized\n")
	assert.Contains(t, out, "[kmain] new game at tick 0\n")

	console := strings.Index(out, "vga_text_console")
	timer := strings.Index(out, "pit(")
	kbd := strings.Index(out, "ps2_keyboard")
	assert.True(t, console < timer && timer < kbd, "drivers initialized out of order:\n%s", out)
}

func TestKmainQuit(t *testing.T) {
	m, log := boot(t, "")

	m.Step(3)
	press(t, m, 'q')
	waitOff(t, m)

	assert.True(t, screenContains(m, 13, "CPU HALTED"))
	assert.False(t, m.InterruptsEnabled())
	assert.Contains(t, log.String(), "[kmain] quit: score 0, lines 0, level 0\n")
}

func TestKmainRestart(t *testing.T) {
	m, log := boot(t, "")

	// Move the piece so that the restarted playfield can be told apart.
	press(t, m, 'a')
	release(t, m, 'a')
	m.Step(2)
	before, _ := m.VGA.Snapshot()

	press(t, m, 'r')
	release(t, m, 'r')
	require.False(t, m.Off())

	after, _ := m.VGA.Snapshot()
	assert.NotEqual(t, before, after)
	assert.Equal(t, 2, strings.Count(log.String(), "[kmain] new game"))
	assert.Contains(t, log.String(), "[kmain] restart: ")
}

func TestKmainGameOver(t *testing.T) {
	m, log := boot(t, "startlevel=9 nextpreview=off")

	for i := 0; i < 5000 && !m.Off(); i++ {
		m.Step(1)
	}
	waitOff(t, m)

	assert.True(t, screenContains(m, 12, "GAME OVER"))
	assert.Contains(t, log.String(), "[kmain] game over: score 0, lines 0, level 9\n")
}

func TestInitMissingDriver(t *testing.T) {
	defer func() { installGatesFn = irq.InstallGates }()

	var installed *irq.Table
	installGatesFn = func(table *irq.Table) { installed = table }

	sys := setupSystem(Config{TickRate: 0})
	err := sys.Init()
	assert.Equal(t, errMissingDriver, err)
	assert.Equal(t, &sys.IRQ, installed)
	assert.Zero(t, sys.Timer.Frequency())
}

func TestInit(t *testing.T) {
	defer func() { installGatesFn = irq.InstallGates }()
	installGatesFn = func(*irq.Table) {}

	sys := setupSystem(Config{TickRate: 50, StartLevel: 2, ShowNext: true})
	var err *kernel.Error = sys.Init()
	require.Nil(t, err)
	assert.Same(t, &system, sys)

	w, h := sys.Display.Dimensions()
	assert.Equal(t, uint32(80), w)
	assert.Equal(t, uint32(25), h)
	assert.Equal(t, tetris.Config{StartLevel: 2, ShowNext: true}, sys.Game.Config())

	// The drivers were sorted by detection order.
	assert.Equal(t, device.DetectOrderEarly, sys.drivers[0].Order)
	assert.Equal(t, device.DetectOrderInterrupts, sys.drivers[1].Order)
	assert.Equal(t, device.DetectOrderInput, sys.drivers[2].Order)
}

func TestBootPathDoesNotAllocate(t *testing.T) {
	defer func() {
		installGatesFn = irq.InstallGates
		cpu.Attach(nil)
	}()
	installGatesFn = func(*irq.Table) {}
	cpu.Attach(pc.New())
	kfmt.SetOutputSink(nil)

	cfg := DefaultConfig()
	allocs := testing.AllocsPerRun(5, func() {
		if err := setupSystem(cfg).Init(); err != nil {
			t.Fatal(err.Message)
		}
	})
	assert.Zero(t, allocs)
}
