// Package hal probes for the hardware the kernel needs and initializes the
// matching device drivers.
package hal

import (
	"tetrisos/device"
	"tetrisos/kernel/kfmt"
)

// maxPrefixLen bounds the "[hal] name(x.y.z): " tag of a driver.
const maxPrefixLen = 64

// prefixBuf holds the tag of the driver being initialized. Bytes past its
// capacity are dropped.
type prefixBuf struct {
	data [maxPrefixLen]byte
	n    int
}

func (b *prefixBuf) Write(p []byte) (int, error) {
	b.n += copy(b.data[b.n:], p)
	return len(p), nil
}

func (b *prefixBuf) reset()        { b.n = 0 }
func (b *prefixBuf) bytes() []byte { return b.data[:b.n] }

// Both writers are static so that DetectHardware does not allocate.
var (
	prefix    prefixBuf
	driverLog kfmt.PrefixWriter
)

// DetectHardware sorts drivers in place by DetectOrder, runs the probe of
// every entry and initializes the drivers that report present hardware. It
// returns the number of drivers that initialized successfully. Drivers whose
// init fails are logged and skipped.
func DetectHardware(drivers device.DriverInfoList) int {
	// Insertion sort is stable and, unlike sort.Stable, does not box the
	// list into an interface.
	for i := 1; i < drivers.Len(); i++ {
		for j := i; j > 0 && drivers.Less(j, j-1); j-- {
			drivers.Swap(j, j-1)
		}
	}

	return probe(drivers)
}

// probe initializes drivers in list order. Init output is tagged with the
// driver name and version.
func probe(list device.DriverInfoList) int {
	var active int

	driverLog.Sink = kfmt.GetOutputSink()
	for _, info := range list {
		drv := info.Probe()
		if drv == nil {
			continue
		}

		prefix.reset()
		major, minor, patch := drv.DriverVersion()
		kfmt.Fprintf(&prefix, "[hal] %s(%d.%d.%d): ", drv.DriverName(), major, minor, patch)
		driverLog.Prefix = prefix.bytes()

		if err := drv.DriverInit(&driverLog); err != nil {
			kfmt.Fprintf(&driverLog, "init failed: %s\n", err.Message)
			continue
		}

		kfmt.Fprintf(&driverLog, "initialized\n")
		active++
	}

	return active
}
