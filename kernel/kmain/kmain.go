// Package kmain wires the drivers and the game together and runs the main
// loop of the kernel.
package kmain

import (
	"tetrisos/device"
	"tetrisos/device/keyboard"
	"tetrisos/device/timer"
	"tetrisos/device/video/console"
	"tetrisos/device/video/frame"
	"tetrisos/game/tetris"
	"tetrisos/kernel"
	"tetrisos/kernel/cpu"
	"tetrisos/kernel/hal"
	"tetrisos/kernel/hal/multiboot"
	"tetrisos/kernel/irq"
	"tetrisos/kernel/kfmt"
)

var (
	// The following functions are mocked by tests.
	installGatesFn = irq.InstallGates
	idleFn         = cpu.Halt
	haltFn         = haltForever

	errMissingDriver = &kernel.Error{Module: "kmain", Message: "required driver failed to initialize"}
	errKmainReturned = &kernel.Error{Module: "kmain", Message: "Kmain returned"}
)

// System owns the state that is shared between interrupt context and the
// main loop: the handler table, the tick counter and the keyboard latch.
// There is exactly one System per boot and it lives in static storage, as
// the kernel runs without a heap.
type System struct {
	Config Config

	IRQ      irq.Table
	Timer    timer.PIT
	Keyboard keyboard.PS2
	Display  console.VgaTextConsole
	Frame    frame.Buffer
	Game     tetris.Engine

	probes  [numDrivers]device.DriverInfo
	drivers [numDrivers]*device.DriverInfo
}

const numDrivers = 3

var system System

// setupSystem configures the static System for cfg. Its drivers are not
// initialized yet.
func setupSystem(cfg Config) *System {
	s := &system
	s.Config = cfg
	s.IRQ = irq.Table{}
	s.Timer.Setup(&s.IRQ, cfg.TickRate)
	s.Keyboard.Setup(&s.IRQ)
	console.SetupVgaText(&s.Display)

	s.probes = [numDrivers]device.DriverInfo{
		{Order: device.DetectOrderInput, Probe: probeKeyboard},
		{Order: device.DetectOrderInterrupts, Probe: probeTimer},
		{Order: device.DetectOrderEarly, Probe: probeDisplay},
	}
	for i := range s.probes {
		s.drivers[i] = &s.probes[i]
	}
	return s
}

func probeKeyboard() device.Driver { return &system.Keyboard }
func probeTimer() device.Driver    { return &system.Timer }
func probeDisplay() device.Driver  { return &system.Display }

// Init installs the interrupt gates and initializes the console, the timer
// and the keyboard, in that order. Interrupts are enabled when Init returns.
func (s *System) Init() *kernel.Error {
	installGatesFn(&s.IRQ)

	if hal.DetectHardware(s.drivers[:]) != numDrivers {
		return errMissingDriver
	}

	s.Frame.Setup(&s.Display)
	s.Game.Setup(&s.Timer, &s.Keyboard, &s.Frame, s.Config.gameConfig())
	return nil
}

// Loop plays games until one of them ends with something other than a
// restart request. The machine is then halted with interrupts disabled.
func (s *System) Loop() {
	game := &s.Game

	for {
		s.Frame.Reset()
		game.Start()
		kfmt.Printf("[kmain] new game at tick %d\n", s.Timer.Ticks())

		outcome := game.Run(idleFn)
		score := game.Score()
		kfmt.Printf("[kmain] %s: score %d, lines %d, level %d\n",
			outcome.String(), score.Points, score.Lines, score.Level)

		if outcome != tetris.Restart {
			haltFn()
			return
		}
	}
}

// Kmain is the only Go symbol that is visible (exported) from the rt0
// initialization code. It is invoked with interrupts disabled and a pointer
// to the multiboot information structure.
//
// Kmain is not expected to return. If it does, the rt0 code will halt the
// CPU.
//
//go:noinline
func Kmain(multibootInfoPtr uintptr) {
	multiboot.SetInfoPtr(multibootInfoPtr)

	cfg := ParseConfig(multiboot.GetBootCmdLine())
	kfmt.Printf("[kmain] tickrate=%d startlevel=%d nextpreview=%t\n",
		cfg.TickRate, cfg.StartLevel, cfg.ShowNext)

	sys := setupSystem(cfg)
	if err := sys.Init(); err != nil {
		kfmt.Panic(err)
		return
	}

	sys.Loop()
	kfmt.Panic(errKmainReturned)
}

// haltForever stops the machine. With interrupts disabled nothing can wake
// the CPU up again.
func haltForever() {
	cpu.DisableInterrupts()
	for {
		cpu.Halt()
	}
}
