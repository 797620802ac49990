//go:build !baremetal

package mem

import "tetrisos/kernel/cpu"

func mapRegion16(physAddr uintptr, count int) []uint16 {
	return cpu.Memory16(physAddr, count)
}
