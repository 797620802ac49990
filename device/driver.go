package device

import (
	"io"

	"tetrisos/kernel"
)

// Driver is an interface implemented by all drivers.
type Driver interface {
	// DriverName returns the name of the driver.
	DriverName() string

	// DriverVersion returns the driver version.
	DriverVersion() (major uint16, minor uint16, patch uint16)

	// DriverInit initializes the device driver. If the driver init code
	// needs to log some output, it can use the supplied io.Writer in
	// conjunction with a call to kfmt.Fprintf.
	DriverInit(io.Writer) *kernel.Error
}

// ProbeFn is a function that scans for the presence of a particular
// piece of hardware and returns a driver for it.
type ProbeFn func() Driver

// DetectOrder specifies when a driver is initialized relative to the other
// drivers. Lower values are initialized first.
type DetectOrder int8

const (
	// DetectOrderEarly is used by drivers that must be available before
	// anything else, like the display console.
	DetectOrderEarly DetectOrder = -128

	// DetectOrderInterrupts is used by the driver that remaps the
	// interrupt controllers. Drivers that register interrupt handlers
	// must use a later order.
	DetectOrderInterrupts DetectOrder = -64

	// DetectOrderInput is used by input device drivers.
	DetectOrderInput DetectOrder = 0

	// DetectOrderLast is used by drivers that must be initialized last.
	DetectOrderLast DetectOrder = 127
)

// DriverInfo describes a driver that the hal should probe for.
type DriverInfo struct {
	// Order specifies at which stage the driver is probed.
	Order DetectOrder

	// Probe returns the driver if the hardware it controls is present or
	// nil otherwise.
	Probe ProbeFn
}

// DriverInfoList is a list of DriverInfo entries that implements
// sort.Interface ordering entries by their detection order.
type DriverInfoList []*DriverInfo

// Len returns the length of the list.
func (l DriverInfoList) Len() int { return len(l) }

// Swap exchanges 2 elements in the list.
func (l DriverInfoList) Swap(i, j int) { l[i], l[j] = l[j], l[i] }

// Less returns true if the driver at index i must be probed before the
// driver at index j.
func (l DriverInfoList) Less(i, j int) bool { return l[i].Order < l[j].Order }
