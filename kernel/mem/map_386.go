//go:build baremetal && 386

package mem

import "unsafe"

func mapRegion16(physAddr uintptr, count int) []uint16 {
	return unsafe.Slice((*uint16)(unsafe.Pointer(physAddr)), count)
}
