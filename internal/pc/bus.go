// Package pc implements the small subset of a PC compatible machine that the
// kernel relies on: a cascaded pair of 8259A interrupt controllers, channel 0
// of the 8253 interval timer, the PS/2 keyboard data port and the color text
// mode framebuffer. A Machine implements cpu.Platform, which lets the
// unmodified kernel run as an ordinary process.
package pc

import "github.com/kamstrup/intmap"

// floatingBus is returned for reads from ports no device answers to.
const floatingBus = uint8(0xff)

// PortDevice is implemented by devices attached to the I/O port bus.
type PortDevice interface {
	ReadPort(port uint16) uint8
	WritePort(port uint16, val uint8)
}

// Bus routes port I/O to the device mapped at each port.
type Bus struct {
	ports *intmap.Map[uint16, PortDevice]
}

// NewBus returns a bus with no devices attached.
func NewBus() *Bus {
	return &Bus{ports: intmap.New[uint16, PortDevice](16)}
}

// Map attaches dev to the supplied ports, replacing any device previously
// mapped there.
func (b *Bus) Map(dev PortDevice, ports ...uint16) {
	for _, port := range ports {
		b.ports.Put(port, dev)
	}
}

// Read performs an IN from port.
func (b *Bus) Read(port uint16) uint8 {
	dev, ok := b.ports.Get(port)
	if !ok {
		return floatingBus
	}
	return dev.ReadPort(port)
}

// Write performs an OUT to port. Writes to unmapped ports are dropped.
func (b *Bus) Write(port uint16, val uint8) {
	if dev, ok := b.ports.Get(port); ok {
		dev.WritePort(port, val)
	}
}

// Len returns the number of mapped ports.
func (b *Bus) Len() int {
	return b.ports.Len()
}
