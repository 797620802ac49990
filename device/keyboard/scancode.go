package keyboard

// releaseBit is set in the scan code sent when a key is released.
const releaseBit = 0x80

// scanCodeSet1 maps set-1 make codes to the character printed on the key of
// a US layout. Keys without a character map to 0.
var scanCodeSet1 = [128]byte{
	0, 27, '1', '2', '3', '4', '5', '6', '7', '8', '9', '0', '-', '=', '\b',
	'\t', 'q', 'w', 'e', 'r', 't', 'y', 'u', 'i', 'o', 'p', '[', ']', '\n', 0,
	'a', 's', 'd', 'f', 'g', 'h', 'j', 'k', 'l', ';', '\'', '`', 0, '\\',
	'z', 'x', 'c', 'v', 'b', 'n', 'm', ',', '.', '/', 0, '*', 0, ' ',
}

// Event is the logical key event derived from a single scan code.
type Event struct {
	// Char is the character of the key or 0 if the key has none.
	Char byte

	// Pressed is false when the scan code reports a key release.
	Pressed bool
}

// Translate converts a raw set-1 scan code into an Event.
func Translate(code uint8) Event {
	return Event{
		Char:    scanCodeSet1[code&^releaseBit],
		Pressed: code&releaseBit == 0,
	}
}

// MakeCode returns the set-1 make code for ch and whether the character is
// present in the table.
func MakeCode(ch byte) (uint8, bool) {
	if ch == 0 {
		return 0, false
	}

	for code, c := range scanCodeSet1 {
		if c == ch {
			return uint8(code), true
		}
	}
	return 0, false
}

// BreakCode returns the scan code sent when the key with the given make code
// is released.
func BreakCode(makeCode uint8) uint8 {
	return makeCode | releaseBit
}
