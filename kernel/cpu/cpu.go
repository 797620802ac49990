// Package cpu is the boundary between the kernel and the processor. It exposes
// the handful of privileged operations the kernel needs: toggling interrupt
// delivery, halting until the next interrupt, single-byte port I/O and
// installing interrupt gates.
//
// Two implementations exist. The baremetal build (GOARCH=386, tag baremetal)
// backs each operation with a few lines of assembly. The default build forwards
// every operation to a software Platform so that the kernel can run as an
// ordinary process on top of an emulated PC.
package cpu

// NumVectors is the number of slots in the interrupt descriptor table.
const NumVectors = 256
