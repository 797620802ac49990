package pc

import (
	"context"
	"sync"
	"time"
)

// Ports of the interval timer.
const (
	PITChannel0Port = uint16(0x40)
	PITCommandPort  = uint16(0x43)
)

const (
	// PITBaseFrequency is the input clock of the timer in Hz.
	PITBaseFrequency = 1193182

	accessLatch  = 0
	accessLow    = 1
	accessHigh   = 2
	accessLowHi  = 3
	minPITPeriod = 100 * time.Microsecond

	timerLine = 0
)

// PIT models channel 0 of the 8253/8254. Every expiry of the counter raises
// line 0 of the interrupt controller. The other channels are not wired.
type PIT struct {
	mu sync.Mutex

	mode   uint8
	access uint8
	reload uint16
	armed  bool

	// highNext is the lobyte/hibyte flip-flop shared by reads and writes.
	highNext bool
	lowByte  uint8
	latched  bool
	latch    uint16

	pulses  uint64
	changed chan struct{}
	raise   func(line uint8)
}

// NewPIT returns a timer that raises interrupts through raise. Like after a
// BIOS boot, the channel is armed with the maximum divisor (about 18.2Hz).
func NewPIT(raise func(line uint8)) *PIT {
	return &PIT{
		mode:    3,
		access:  accessLowHi,
		armed:   true,
		changed: make(chan struct{}, 1),
		raise:   raise,
	}
}

// ReadPort implements PortDevice.
func (p *PIT) ReadPort(port uint16) uint8 {
	if port != PITChannel0Port {
		return floatingBus
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	val := p.reload
	if p.latched {
		val = p.latch
	}

	switch p.access {
	case accessLow:
		p.latched = false
		return uint8(val)
	case accessHigh:
		p.latched = false
		return uint8(val >> 8)
	}

	if !p.highNext {
		p.highNext = true
		return uint8(val)
	}
	p.highNext = false
	p.latched = false
	return uint8(val >> 8)
}

// WritePort implements PortDevice.
func (p *PIT) WritePort(port uint16, val uint8) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch port {
	case PITCommandPort:
		if val>>6 != 0 {
			return
		}

		access := (val >> 4) & 3
		if access == accessLatch {
			p.latch, p.latched = p.reload, true
			return
		}
		p.access = access
		p.mode = (val >> 1) & 7
		p.highNext = false
		p.armed = false
	case PITChannel0Port:
		switch p.access {
		case accessLow:
			p.reload = uint16(val)
		case accessHigh:
			p.reload = uint16(val) << 8
		default:
			if !p.highNext {
				p.lowByte, p.highNext = val, true
				return
			}
			p.reload = uint16(p.lowByte) | uint16(val)<<8
			p.highNext = false
		}
		p.armed = true
	default:
		return
	}

	select {
	case p.changed <- struct{}{}:
	default:
	}
}

// Divisor returns the reload value of the counter. A programmed value of
// zero counts 65536 input cycles.
func (p *PIT) Divisor() uint32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.divisor()
}

func (p *PIT) divisor() uint32 {
	if p.reload == 0 {
		return 1 << 16
	}
	return uint32(p.reload)
}

// Mode returns the operating mode of channel 0.
func (p *PIT) Mode() uint8 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mode
}

// Frequency returns the output frequency in Hz, or zero while the counter
// is waiting for its reload value.
func (p *PIT) Frequency() uint32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.armed {
		return 0
	}
	return PITBaseFrequency / p.divisor()
}

// Period returns the time between two interrupts.
func (p *PIT) Period() (time.Duration, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.armed {
		return 0, false
	}

	period := time.Duration(uint64(p.divisor()) * uint64(time.Second) / PITBaseFrequency)
	return max(period, minPITPeriod), true
}

// Pulses returns the number of interrupts raised so far.
func (p *PIT) Pulses() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pulses
}

// Pulse expires the counter once.
func (p *PIT) Pulse() {
	p.mu.Lock()
	p.pulses++
	p.mu.Unlock()

	p.raise(timerLine)
}

// Run raises timer interrupts in real time until ctx is canceled. The rate
// follows every reprogramming of the counter.
func (p *PIT) Run(ctx context.Context) {
	var (
		ticker *time.Ticker
		tick   <-chan time.Time
	)

	rearm := func() {
		if ticker != nil {
			ticker.Stop()
			ticker, tick = nil, nil
		}
		if period, ok := p.Period(); ok {
			ticker = time.NewTicker(period)
			tick = ticker.C
		}
	}
	defer func() {
		if ticker != nil {
			ticker.Stop()
		}
	}()

	rearm()
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.changed:
			rearm()
		case <-tick:
			p.Pulse()
		}
	}
}
