package console

import "tetrisos/kernel/mem"

const (
	// VgaTextBase is the physical address of the color text mode
	// framebuffer.
	VgaTextBase = uintptr(0xb8000)

	vgaTextColumns = 80
	vgaTextRows    = 25
)

var (
	// mapRegionFn is mocked by tests.
	mapRegionFn = mem.MapRegion16
)

// SetupVgaText configures cons for the 80x25 color text console that every
// VGA compatible adapter provides after boot.
func SetupVgaText(cons *VgaTextConsole) {
	cons.Setup(vgaTextColumns, vgaTextRows, VgaTextBase)
}
