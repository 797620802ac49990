package multiboot

import (
	"encoding/binary"
	"strings"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
)

// buildInfo lays out a minimal multiboot2 info block with a command line tag
// followed by the end tag.
func buildInfo(buf []uint64, cmdLine string) uintptr {
	raw := unsafe.Slice((*byte)(unsafe.Pointer(&buf[0])), len(buf)*8)

	tagSize := 8 + len(cmdLine) + 1
	binary.LittleEndian.PutUint32(raw[8:], uint32(tagCmdLine))
	binary.LittleEndian.PutUint32(raw[12:], uint32(tagSize))
	copy(raw[16:], cmdLine)
	raw[16+len(cmdLine)] = 0

	end := 8 + (tagSize+7)&^7
	binary.LittleEndian.PutUint32(raw[end:], uint32(tagEnd))
	binary.LittleEndian.PutUint32(raw[end+4:], 8)
	binary.LittleEndian.PutUint32(raw[0:], uint32(end+8))

	return uintptr(unsafe.Pointer(&buf[0]))
}

func resetState() {
	infoPtr = 0
	cmdLine = ""
	cmdLineSet = false
	parsed = false
}

func toMap(c *CmdLine) map[string]string {
	m := make(map[string]string)
	for i := 0; i < c.Len(); i++ {
		opt := c.Option(i)
		m[opt.Key] = opt.Value
	}
	return m
}

func TestGetBootCmdLineFromInfo(t *testing.T) {
	defer resetState()
	resetState()

	var buf [32]uint64
	SetInfoPtr(buildInfo(buf[:], "tickrate=200 startlevel=3 nextpreview=off verbose"))

	exp := map[string]string{
		"tickrate":    "200",
		"startlevel":  "3",
		"nextpreview": "off",
		"verbose":     "verbose",
	}
	assert.Equal(t, exp, toMap(GetBootCmdLine()))
}

func TestGetBootCmdLineOverride(t *testing.T) {
	defer resetState()
	resetState()

	var buf [32]uint64
	SetInfoPtr(buildInfo(buf[:], "tickrate=200"))
	SetBootCmdLine("  tickrate=50   a=b=c  ")

	// Malformed pairs are skipped.
	assert.Equal(t, map[string]string{"tickrate": "50"}, toMap(GetBootCmdLine()))
}

func TestGetBootCmdLineMissing(t *testing.T) {
	defer resetState()
	resetState()

	assert.Zero(t, GetBootCmdLine().Len())

	var buf [32]uint64
	SetInfoPtr(buildInfo(buf[:], ""))
	assert.Zero(t, GetBootCmdLine().Len())
}

func TestFindTagByTypeMissingTag(t *testing.T) {
	defer resetState()
	resetState()

	var buf [32]uint64
	SetInfoPtr(buildInfo(buf[:], "x"))

	ptr, size := findTag(tagType(7))
	assert.Zero(t, ptr)
	assert.Zero(t, size)
}

func TestParseCmdLine(t *testing.T) {
	c := ParseCmdLine("\ttickrate=50 quiet\nstartlevel=2 tickrate=75 =x")

	assert.Equal(t, 5, c.Len())
	assert.Equal(t, Option{Key: "quiet", Value: "quiet"}, c.Option(1))

	v, ok := c.Lookup("tickrate")
	assert.True(t, ok)
	assert.Equal(t, "75", v)

	v, ok = c.Lookup("")
	assert.True(t, ok)
	assert.Equal(t, "x", v)

	_, ok = c.Lookup("startlevel=2")
	assert.False(t, ok)

	var missing *CmdLine
	_, ok = missing.Lookup("tickrate")
	assert.False(t, ok)
}

func TestParseCmdLineKeepsFirstOptions(t *testing.T) {
	line := strings.Repeat("a=1 ", MaxOptions) + "last=2"
	c := ParseCmdLine(line)

	assert.Equal(t, MaxOptions, c.Len())
	_, ok := c.Lookup("last")
	assert.False(t, ok)
}

func TestGetBootCmdLineDoesNotAllocate(t *testing.T) {
	defer resetState()
	resetState()

	var buf [32]uint64
	ptr := buildInfo(buf[:], "tickrate=200 startlevel=3 nextpreview=off verbose")

	allocs := testing.AllocsPerRun(10, func() {
		SetInfoPtr(ptr)
		if GetBootCmdLine().Len() != 4 {
			t.Fatal("unexpected option count")
		}
	})
	assert.Zero(t, allocs)
}
