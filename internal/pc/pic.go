package pc

import (
	"math/bits"
	"sync"
)

// Ports of the two interrupt controllers.
const (
	MasterCommandPort = uint16(0x20)
	MasterDataPort    = uint16(0x21)
	SlaveCommandPort  = uint16(0xa0)
	SlaveDataPort     = uint16(0xa1)
)

const (
	cascadeLine = 2

	icw1Init     = 0x10
	icw1NeedICW4 = 0x01
	icw1Single   = 0x02

	ocw3Select  = 0x08
	ocw3ReadReg = 0x02
	ocw3ReadISR = 0x01

	ocw2NonSpecificEOI = 0x1
	ocw2SpecificEOI    = 0x3

	// Vector bases programmed by the BIOS before the kernel takes over.
	biosMasterBase = 0x08
	biosSlaveBase  = 0x70
)

// chip models a single 8259A operating in edge triggered, fully nested mode.
type chip struct {
	base uint8
	irr  uint8
	isr  uint8
	imr  uint8
	icw3 uint8
	icw4 uint8

	// initStep is the next initialization word expected on the data port;
	// zero means the controller is operational.
	initStep uint8
	needICW4 bool
	single   bool
	readISR  bool
}

// ready returns the requests that are unmasked and have a higher priority
// than every request in service.
func (c *chip) ready(irr uint8) uint8 {
	inService := c.isr & -c.isr
	return irr &^ c.imr & (inService - 1)
}

func (c *chip) writeCommand(val uint8) {
	switch {
	case val&icw1Init != 0:
		c.initStep = 1
		c.needICW4 = val&icw1NeedICW4 != 0
		c.single = val&icw1Single != 0
		c.irr, c.isr, c.imr = 0, 0, 0
		c.readISR = false
	case val&(icw1Init|ocw3Select) == ocw3Select:
		if val&ocw3ReadReg != 0 {
			c.readISR = val&ocw3ReadISR != 0
		}
	default:
		switch val >> 5 {
		case ocw2NonSpecificEOI:
			c.isr &^= c.isr & -c.isr
		case ocw2SpecificEOI:
			c.isr &^= 1 << (val & 7)
		}
	}
}

func (c *chip) writeData(val uint8) {
	switch c.initStep {
	case 0:
		c.imr = val
	case 1:
		c.base = val &^ 7
		c.initStep = 2
		if c.single {
			c.finishCascade()
		}
	case 2:
		c.icw3 = val
		c.finishCascade()
	case 3:
		c.icw4 = val
		c.initStep = 0
	}
}

func (c *chip) finishCascade() {
	if c.needICW4 {
		c.initStep = 3
		return
	}
	c.initStep = 0
}

func (c *chip) readCommand() uint8 {
	if c.readISR {
		return c.isr
	}
	return c.irr
}

// PIC is a master and a slave 8259A with the slave cascaded on line 2 of
// the master. Lines can be raised from any goroutine.
type PIC struct {
	mu     sync.Mutex
	master chip
	slave  chip

	// onRequest is invoked without the lock held whenever a line is
	// raised.
	onRequest func()
}

// NewPIC returns a controller pair in the state the BIOS leaves it in.
func NewPIC() *PIC {
	return &PIC{
		master: chip{base: biosMasterBase},
		slave:  chip{base: biosSlaveBase},
	}
}

// Raise signals an edge on line. Lines 8 to 15 belong to the slave.
func (p *PIC) Raise(line uint8) {
	if line >= 16 {
		return
	}

	p.mu.Lock()
	if line < 8 {
		p.master.irr |= 1 << line
	} else {
		p.slave.irr |= 1 << (line - 8)
	}
	notify := p.onRequest
	p.mu.Unlock()

	if notify != nil {
		notify()
	}
}

// masterIRR returns the master request register with the cascade input
// reflecting the slave output.
func (p *PIC) masterIRR() uint8 {
	irr := p.master.irr
	if p.slave.ready(p.slave.irr) != 0 {
		irr |= 1 << cascadeLine
	}
	return irr
}

// Pending reports whether an interrupt would be delivered to the CPU.
func (p *PIC) Pending() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.master.ready(p.masterIRR()) != 0
}

// Acknowledge performs the interrupt acknowledge cycle. It moves the highest
// priority pending request into service and returns its vector.
func (p *PIC) Acknowledge() (uint8, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	pending := p.master.ready(p.masterIRR())
	if pending == 0 {
		return 0, false
	}

	line := uint8(bits.TrailingZeros8(pending))
	bit := uint8(1) << line
	p.master.isr |= bit

	if line == cascadeLine {
		if slavePending := p.slave.ready(p.slave.irr); slavePending != 0 {
			slaveLine := uint8(bits.TrailingZeros8(slavePending))
			slaveBit := uint8(1) << slaveLine
			p.slave.irr &^= slaveBit
			p.slave.isr |= slaveBit
			return p.slave.base | slaveLine, true
		}
	}

	p.master.irr &^= bit
	return p.master.base | line, true
}

// Dismiss ends service of vector as if the handler had issued an EOI. It is
// used for vectors that have no gate installed.
func (p *PIC) Dismiss(vector uint8) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if vector&^7 == p.slave.base {
		p.slave.isr &^= 1 << (vector & 7)
		p.master.isr &^= 1 << cascadeLine
		return
	}
	if vector&^7 == p.master.base {
		p.master.isr &^= 1 << (vector & 7)
	}
}

// VectorBases returns the vector offsets of the master and the slave.
func (p *PIC) VectorBases() (uint8, uint8) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.master.base, p.slave.base
}

// Masks returns the interrupt mask registers of the master and the slave.
func (p *PIC) Masks() (uint8, uint8) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.master.imr, p.slave.imr
}

// InService returns the in-service registers of the master and the slave.
func (p *PIC) InService() (uint8, uint8) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.master.isr, p.slave.isr
}

// ReadPort implements PortDevice.
func (p *PIC) ReadPort(port uint16) uint8 {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch port {
	case MasterCommandPort:
		return p.master.readCommand()
	case MasterDataPort:
		return p.master.imr
	case SlaveCommandPort:
		return p.slave.readCommand()
	case SlaveDataPort:
		return p.slave.imr
	}
	return floatingBus
}

// WritePort implements PortDevice.
func (p *PIC) WritePort(port uint16, val uint8) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch port {
	case MasterCommandPort:
		p.master.writeCommand(val)
	case MasterDataPort:
		p.master.writeData(val)
	case SlaveCommandPort:
		p.slave.writeCommand(val)
	case SlaveDataPort:
		p.slave.writeData(val)
	}
}
