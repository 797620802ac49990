// Package pic drives the pair of cascaded 8259A programmable interrupt
// controllers found on every PC compatible machine.
package pic

import "tetrisos/kernel/cpu"

const (
	masterCommandPort = uint16(0x20)
	masterDataPort    = uint16(0x21)
	slaveCommandPort  = uint16(0xa0)
	slaveDataPort     = uint16(0xa1)

	// icw1Init starts the initialization sequence and announces that an
	// ICW4 word follows.
	icw1Init = uint8(0x11)

	// icw3MasterCascade tells the master that a slave sits on line 2.
	icw3MasterCascade = uint8(0x04)

	// icw3SlaveIdentity is the cascade identity of the slave.
	icw3SlaveIdentity = uint8(0x02)

	// icw48086Mode selects 8086/88 mode.
	icw48086Mode = uint8(0x01)

	// eoi is the non-specific end-of-interrupt command.
	eoi = uint8(0x20)

	// LinesPerController is the number of request lines each 8259A serves.
	LinesPerController = 8
)

var (
	// The following functions are mocked by tests.
	portWriteByteFn = cpu.PortWriteByte
	portReadByteFn  = cpu.PortReadByte
)

// Remap reprograms both controllers so that master lines 0-7 raise vectors
// masterBase to masterBase+7 and slave lines 8-15 raise vectors slaveBase to
// slaveBase+7. The line masks in effect before the call are preserved.
func Remap(masterBase, slaveBase uint8) {
	masterMask := portReadByteFn(masterDataPort)
	slaveMask := portReadByteFn(slaveDataPort)

	portWriteByteFn(masterCommandPort, icw1Init)
	portWriteByteFn(slaveCommandPort, icw1Init)

	portWriteByteFn(masterDataPort, masterBase)
	portWriteByteFn(slaveDataPort, slaveBase)

	portWriteByteFn(masterDataPort, icw3MasterCascade)
	portWriteByteFn(slaveDataPort, icw3SlaveIdentity)

	portWriteByteFn(masterDataPort, icw48086Mode)
	portWriteByteFn(slaveDataPort, icw48086Mode)

	portWriteByteFn(masterDataPort, masterMask)
	portWriteByteFn(slaveDataPort, slaveMask)
}

// Acknowledge signals the end of interrupt processing for line. Lines served
// by the slave controller are acknowledged on the slave first; the master is
// always acknowledged since it routes the cascade.
func Acknowledge(line uint8) {
	if line >= LinesPerController {
		portWriteByteFn(slaveCommandPort, eoi)
	}
	portWriteByteFn(masterCommandPort, eoi)
}
