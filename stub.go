//go:build baremetal

package main

import "tetrisos/kernel/kmain"

// multibootInfoPtr is filled in by the rt0 code before main runs. Reading it
// from a variable keeps the compiler from inlining Kmain into main and
// discarding it.
var multibootInfoPtr uintptr

// main only exists so that the linker keeps the kernel entry point; rt0 jumps
// to kmain.Kmain directly.
func main() {
	kmain.Kmain(multibootInfoPtr)
}
