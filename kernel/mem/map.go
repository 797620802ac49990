// Package mem provides access to fixed physical memory regions such as the
// text-mode framebuffer. The kernel runs with a flat, identity-mapped address
// space so no page tables are involved.
package mem

// MapRegion16 returns a slice of count 16-bit words overlaid on physical
// memory starting at physAddr.
func MapRegion16(physAddr uintptr, count int) []uint16 {
	if count <= 0 {
		return nil
	}
	return mapRegion16(physAddr, count)
}
