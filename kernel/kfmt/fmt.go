// Package kfmt implements the kernel's logging facilities: a small Printf that
// does not depend on the fmt package, a ring buffer that captures output
// emitted before a log sink is attached and a writer that prefixes each line
// of output.
package kfmt

import (
	"io"
	"unsafe"
)

// maxBufSize defines the buffer size for formatting numbers.
const maxBufSize = 32

var (
	errMissingArg   = []byte("(MISSING)")
	errWrongArgType = []byte("%!(WRONGTYPE)")
	errNoVerb       = []byte("%!(NOVERB)")
	errExtraArg     = []byte("%!(EXTRA)")
	trueValue       = []byte("true")
	falseValue      = []byte("false")

	digits = "0123456789abcdef"

	// numBuf holds the digits of the number being formatted, filled from
	// the right. One extra byte makes room for a sign in front of a
	// maximally padded value.
	numBuf [maxBufSize + 1]byte

	// singleByte is a shared buffer for emitting one character at a time.
	singleByte = []byte(" ")

	// earlyPrintBuffer captures Printf output while no sink is attached.
	earlyPrintBuffer ringBuffer

	// outputSink receives Printf output. When nil, output goes to
	// earlyPrintBuffer.
	outputSink io.Writer
)

// SetOutputSink sets the default target for calls to Printf to w and copies
// any data accumulated in the early print buffer to it.
func SetOutputSink(w io.Writer) {
	outputSink = w
	if w != nil {
		io.Copy(w, &earlyPrintBuffer)
	}
}

// GetOutputSink returns the writer that currently receives Printf output.
// While no sink is attached it returns a writer to the early print buffer.
func GetOutputSink() io.Writer {
	if outputSink == nil {
		return earlyWriter{}
	}
	return outputSink
}

// earlyWriter appends to the early print buffer.
type earlyWriter struct{}

func (earlyWriter) Write(p []byte) (int, error) {
	return earlyPrintBuffer.Write(p)
}

// Printf formats according to a format specifier and writes to the active
// output sink. It supports the following subset of the fmt verbs:
//
//	%s  string or []byte
//	%d  base 10 integer
//	%o  base 8 integer
//	%x  base 16 integer, lower-case a-f
//	%t  the word true or false
//	%%  a literal percent sign
//
// An optional decimal width may precede the verb. Strings and base-10
// integers are left-padded with spaces, base-8 and base-16 integers with
// zeroes.
func Printf(format string, args ...interface{}) {
	Fprintf(outputSink, format, args...)
}

// Fprintf behaves exactly like Printf but writes the formatted output to w.
func Fprintf(w io.Writer, format string, args ...interface{}) {
	var nextArg int

	for i := 0; i < len(format); i++ {
		if format[i] != '%' {
			writeByte(w, format[i])
			continue
		}

		width := 0
		for i++; i < len(format) && format[i] >= '0' && format[i] <= '9'; i++ {
			width = width*10 + int(format[i]-'0')
		}

		if i == len(format) {
			doWrite(w, errNoVerb)
			break
		}

		switch verb := format[i]; verb {
		case '%':
			writeByte(w, '%')
		case 'd', 'o', 'x', 's', 't':
			if nextArg >= len(args) {
				doWrite(w, errMissingArg)
				continue
			}

			arg := args[nextArg]
			nextArg++

			switch verb {
			case 'd':
				fmtInt(w, arg, 10, width)
			case 'o':
				fmtInt(w, arg, 8, width)
			case 'x':
				fmtInt(w, arg, 16, width)
			case 's':
				fmtString(w, arg, width)
			case 't':
				fmtBool(w, arg)
			}
		default:
			doWrite(w, errNoVerb)
		}
	}

	for ; nextArg < len(args); nextArg++ {
		doWrite(w, errExtraArg)
	}
}

func fmtBool(w io.Writer, v interface{}) {
	b, ok := v.(bool)
	switch {
	case !ok:
		doWrite(w, errWrongArgType)
	case b:
		doWrite(w, trueValue)
	default:
		doWrite(w, falseValue)
	}
}

func fmtString(w io.Writer, v interface{}, width int) {
	switch s := v.(type) {
	case string:
		fmtRepeat(w, ' ', width-len(s))
		for i := 0; i < len(s); i++ {
			writeByte(w, s[i])
		}
	case []byte:
		fmtRepeat(w, ' ', width-len(s))
		doWrite(w, s)
	default:
		doWrite(w, errWrongArgType)
	}
}

func fmtRepeat(w io.Writer, ch byte, count int) {
	for ; count > 0; count-- {
		writeByte(w, ch)
	}
}

// fmtInt writes v in the requested base applying the requested width. Base-10
// values are space padded with the sign next to the digits; other bases are
// zero padded with the sign in front of the padding.
func fmtInt(w io.Writer, v interface{}, base, width int) {
	var (
		val uint64
		neg bool
	)

	switch n := v.(type) {
	case uint8:
		val = uint64(n)
	case uint16:
		val = uint64(n)
	case uint32:
		val = uint64(n)
	case uint64:
		val = n
	case uint:
		val = uint64(n)
	case uintptr:
		val = uint64(n)
	case int8:
		val, neg = abs(int64(n))
	case int16:
		val, neg = abs(int64(n))
	case int32:
		val, neg = abs(int64(n))
	case int64:
		val, neg = abs(n)
	case int:
		val, neg = abs(int64(n))
	default:
		doWrite(w, errWrongArgType)
		return
	}

	if width >= maxBufSize {
		width = maxBufSize - 1
	}

	end := len(numBuf)
	pos := end
	for {
		pos--
		numBuf[pos] = digits[val%uint64(base)]
		val /= uint64(base)
		if val == 0 {
			break
		}
	}

	padCh := byte('0')
	if base == 10 {
		padCh = ' '
		if neg {
			pos--
			numBuf[pos] = '-'
			neg = false
		}
	}

	for end-pos < width {
		pos--
		numBuf[pos] = padCh
	}

	if neg {
		pos--
		numBuf[pos] = '-'
	}

	doWrite(w, numBuf[pos:end])
}

func abs(v int64) (uint64, bool) {
	if v < 0 {
		return uint64(-v), true
	}
	return uint64(v), false
}

func writeByte(w io.Writer, b byte) {
	singleByte[0] = b
	doWrite(w, singleByte)
}

// doWrite hands p to w through a pointer that escape analysis cannot follow.
// Otherwise every Printf argument would be moved to the heap because w is an
// unknown io.Writer, and Printf must work without a heap.
func doWrite(w io.Writer, p []byte) {
	writeHidden(w, hide(unsafe.Pointer(&p)))
}

func writeHidden(w io.Writer, pp unsafe.Pointer) {
	p := *(*[]byte)(pp)
	if w != nil {
		w.Write(p)
		return
	}
	earlyPrintBuffer.Write(p)
}

// hide returns p unchanged in a way the compiler does not track.
//
//go:nosplit
func hide(p unsafe.Pointer) unsafe.Pointer {
	x := uintptr(p)
	return unsafe.Pointer(x ^ 0)
}
