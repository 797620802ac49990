// Package multiboot provides access to the information block that a
// multiboot2 compliant boot loader hands over to the kernel.
package multiboot

import "unsafe"

type tagType uint32

// Only the tags the kernel reads are listed.
const (
	tagEnd     tagType = 0
	tagCmdLine tagType = 1
)

// tagHeader starts every tag. size covers the header and the payload but
// not the padding up to the next 8-byte boundary.
type tagHeader struct {
	kind tagType
	size uint32
}

var (
	infoPtr uintptr

	// cmdLine overrides the command line found in the info block when
	// set via SetBootCmdLine.
	cmdLine    string
	cmdLineSet bool

	bootCmdLine CmdLine
	parsed      bool
)

// SetInfoPtr records the address of the info block passed in by the boot
// loader. Call it before GetBootCmdLine.
func SetInfoPtr(ptr uintptr) {
	infoPtr = ptr
	parsed = false
}

// SetBootCmdLine supplies the kernel command line directly. It is used when
// the kernel is not started by a boot loader and takes precedence over the
// info block.
func SetBootCmdLine(s string) {
	cmdLine = s
	cmdLineSet = true
	parsed = false
}

// GetBootCmdLine returns the options passed to the kernel on its command
// line. The result points to static storage that is refreshed by the next
// call after SetInfoPtr or SetBootCmdLine.
func GetBootCmdLine() *CmdLine {
	if parsed {
		return &bootCmdLine
	}

	line := cmdLine
	if !cmdLineSet {
		line = infoCmdLine()
	}

	bootCmdLine.parse(line)
	parsed = true
	return &bootCmdLine
}

// infoCmdLine returns the command line stored in the info block without
// its terminating NUL byte.
func infoCmdLine() string {
	payload, size := findTag(tagCmdLine)
	if size <= 1 {
		return ""
	}

	return unsafe.String((*byte)(unsafe.Pointer(payload)), int(size-1))
}

// findTag walks the tag list that follows the 8-byte info block header and
// returns the address and length of the payload of the first tag of the
// given kind. It returns (0, 0) when there is no such tag.
func findTag(kind tagType) (uintptr, uint32) {
	if infoPtr == 0 {
		return 0, 0
	}

	const hdrSize = uint32(unsafe.Sizeof(tagHeader{}))
	for addr := infoPtr + 8; ; {
		hdr := (*tagHeader)(unsafe.Pointer(addr))
		switch hdr.kind {
		case tagEnd:
			return 0, 0
		case kind:
			return addr + uintptr(hdrSize), hdr.size - hdrSize
		}
		addr += uintptr((hdr.size + 7) &^ 7)
	}
}
