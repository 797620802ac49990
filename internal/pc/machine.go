package pc

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"tetrisos/kernel/cpu"
)

// Machine ties the devices together and stands in for the processor. The
// kernel runs on a single goroutine that calls the cpu.Platform methods;
// devices may raise interrupts from any goroutine. Interrupts are delivered
// on the kernel goroutine when it executes STI or HLT.
type Machine struct {
	Bus      *Bus
	PIC      *PIC
	PIT      *PIT
	Keyboard *Keyboard
	VGA      *VGA

	gates [cpu.NumVectors]func()

	interruptsEnabled atomic.Bool
	delivered         atomic.Uint64
	unhandled         atomic.Uint64

	wake    chan struct{}
	done    chan struct{}
	offOnce sync.Once

	// idle is set while the kernel waits in HLT with nothing to deliver.
	// idleSeq counts the times the kernel became idle.
	mu      sync.Mutex
	cond    *sync.Cond
	idle    bool
	idleSeq uint64
}

var _ cpu.Platform = (*Machine)(nil)

// New returns a powered-on machine with interrupts disabled.
func New() *Machine {
	m := &Machine{
		Bus:  NewBus(),
		PIC:  NewPIC(),
		VGA:  &VGA{},
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	m.cond = sync.NewCond(&m.mu)
	m.PIC.onRequest = m.signal
	m.PIT = NewPIT(m.PIC.Raise)
	m.Keyboard = NewKeyboard(m.PIC.Raise)

	m.Bus.Map(m.PIC, MasterCommandPort, MasterDataPort, SlaveCommandPort, SlaveDataPort)
	m.Bus.Map(m.PIT, PITChannel0Port, PITCommandPort)
	m.Bus.Map(m.Keyboard, KeyboardDataPort, KeyboardStatusPort)
	return m
}

// Start runs the timer in real time. The machine powers off when ctx is
// canceled.
func (m *Machine) Start(ctx context.Context) {
	go m.PIT.Run(ctx)
	go func() {
		select {
		case <-ctx.Done():
			m.PowerOff()
		case <-m.done:
		}
	}()
}

// PortWriteByte implements cpu.Platform.
func (m *Machine) PortWriteByte(port uint16, val uint8) {
	m.Bus.Write(port, val)
}

// PortReadByte implements cpu.Platform.
func (m *Machine) PortReadByte(port uint16) uint8 {
	return m.Bus.Read(port)
}

// SetInterruptFlag implements cpu.Platform.
func (m *Machine) SetInterruptFlag(enabled bool) {
	m.interruptsEnabled.Store(enabled)
	if enabled {
		m.deliver()
	}
}

// SetGate implements cpu.Platform.
func (m *Machine) SetGate(vector uint8, gate func()) {
	m.gates[vector] = gate
}

// Halt implements cpu.Platform. It publishes the framebuffer and sleeps
// until an interrupt has been delivered. Halting with interrupts disabled,
// or while the machine is off, ends the kernel goroutine.
func (m *Machine) Halt() {
	m.VGA.Publish()

	if m.Off() {
		runtime.Goexit()
	}
	if !m.interruptsEnabled.Load() {
		m.PowerOff()
		runtime.Goexit()
	}

	for {
		if m.deliver() > 0 {
			return
		}

		m.setIdle(true)
		select {
		case <-m.wake:
			m.setIdle(false)
		case <-m.done:
			runtime.Goexit()
		}
	}
}

// Memory16 implements cpu.Platform. Only the text framebuffer is backed by
// device memory; other ranges get scratch memory.
func (m *Machine) Memory16(physAddr uintptr, count int) []uint16 {
	if mem, ok := m.VGA.Memory(physAddr, count); ok {
		return mem
	}
	return make([]uint16, count)
}

// deliver dispatches pending interrupts while the interrupt flag is set and
// returns how many were delivered. The flag is cleared while a gate runs.
func (m *Machine) deliver() int {
	n := 0
	for m.interruptsEnabled.Load() {
		vector, ok := m.PIC.Acknowledge()
		if !ok {
			break
		}

		gate := m.gates[vector]
		if gate == nil {
			m.unhandled.Add(1)
			m.PIC.Dismiss(vector)
			continue
		}

		m.interruptsEnabled.Store(false)
		gate()
		m.interruptsEnabled.Store(true)

		m.delivered.Add(1)
		n++
	}
	return n
}

func (m *Machine) signal() {
	select {
	case m.wake <- struct{}{}:
	default:
	}
}

func (m *Machine) setIdle(idle bool) {
	m.mu.Lock()
	m.idle = idle
	if idle {
		m.idleSeq++
	}
	m.mu.Unlock()
	m.cond.Broadcast()
}

// InterruptsEnabled reports the state of the interrupt flag.
func (m *Machine) InterruptsEnabled() bool {
	return m.interruptsEnabled.Load()
}

// Delivered returns the number of interrupts dispatched to a gate.
func (m *Machine) Delivered() uint64 {
	return m.delivered.Load()
}

// Unhandled returns the number of interrupts that arrived on a vector
// without a gate.
func (m *Machine) Unhandled() uint64 {
	return m.unhandled.Load()
}

// PowerOff stops the machine. It is safe to call more than once and from
// any goroutine.
func (m *Machine) PowerOff() {
	m.offOnce.Do(func() {
		close(m.done)
		m.mu.Lock()
		m.cond.Broadcast()
		m.mu.Unlock()
	})
}

// Done returns a channel that is closed once the machine is off.
func (m *Machine) Done() <-chan struct{} {
	return m.done
}

// Off reports whether the machine has been powered off.
func (m *Machine) Off() bool {
	select {
	case <-m.done:
		return true
	default:
		return false
	}
}

// WaitIdle blocks until the kernel waits in HLT with nothing left to
// deliver or the machine is off.
func (m *Machine) WaitIdle() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for !m.settled() && !m.Off() {
		m.cond.Wait()
	}
}

// settled reports whether the kernel is idle and no interrupt is waiting to
// wake it up. The caller must hold m.mu.
func (m *Machine) settled() bool {
	return m.idle && !m.PIC.Pending()
}

// Do waits for the kernel to become idle, runs raise, which is expected to
// raise at least one interrupt, and waits until the kernel has handled it
// and is idle again.
func (m *Machine) Do(raise func()) {
	m.mu.Lock()
	for !m.settled() && !m.Off() {
		m.cond.Wait()
	}
	seq := m.idleSeq
	m.mu.Unlock()

	raise()

	m.mu.Lock()
	defer m.mu.Unlock()
	for !(m.settled() && m.idleSeq > seq) && !m.Off() {
		m.cond.Wait()
	}
}

// Step expires the timer n times, letting the kernel run to completion
// after each tick.
func (m *Machine) Step(n int) {
	for i := 0; i < n && !m.Off(); i++ {
		m.Do(m.PIT.Pulse)
	}
}

// Press delivers the make code of a key and waits for the kernel to handle
// it.
func (m *Machine) Press(scanCode uint8) {
	m.Do(func() { m.Keyboard.Press(scanCode) })
}

// Release delivers the break code of a key and waits for the kernel to
// handle it.
func (m *Machine) Release(scanCode uint8) {
	m.Do(func() { m.Keyboard.Release(scanCode) })
}
