package pc

import "sync"

// Ports of the PS/2 controller.
const (
	KeyboardDataPort   = uint16(0x60)
	KeyboardStatusPort = uint16(0x64)
)

const (
	keyboardLine = 1

	statusOutputFull = 0x01
	statusSystemFlag = 0x04

	breakBit = 0x80
)

// Keyboard models the output buffer of the PS/2 controller with a set 1
// keyboard attached. Keys can be pressed from any goroutine; codes that are
// not read before the next key event are overwritten.
type Keyboard struct {
	mu   sync.Mutex
	data uint8
	full bool

	raise func(line uint8)
}

// NewKeyboard returns a keyboard that raises interrupts through raise.
func NewKeyboard(raise func(line uint8)) *Keyboard {
	return &Keyboard{raise: raise}
}

// Press places the make code of a key in the output buffer.
func (k *Keyboard) Press(scanCode uint8) {
	k.send(scanCode &^ breakBit)
}

// Release places the break code of a key in the output buffer.
func (k *Keyboard) Release(scanCode uint8) {
	k.send(scanCode | breakBit)
}

func (k *Keyboard) send(code uint8) {
	k.mu.Lock()
	k.data, k.full = code, true
	k.mu.Unlock()

	k.raise(keyboardLine)
}

// ReadPort implements PortDevice.
func (k *Keyboard) ReadPort(port uint16) uint8 {
	k.mu.Lock()
	defer k.mu.Unlock()

	switch port {
	case KeyboardDataPort:
		k.full = false
		return k.data
	case KeyboardStatusPort:
		status := uint8(statusSystemFlag)
		if k.full {
			status |= statusOutputFull
		}
		return status
	}
	return floatingBus
}

// WritePort implements PortDevice. Controller and keyboard commands are
// accepted and ignored.
func (k *Keyboard) WritePort(uint16, uint8) {}
