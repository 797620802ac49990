package multiboot

import "strings"

// MaxOptions is the number of command line options kept by a CmdLine.
// Options past it are ignored.
const MaxOptions = 16

const blanks = " \t\r\n"

// Option is a key=value pair from the command line. A bare word is stored
// with the word as both key and value.
type Option struct {
	Key, Value string
}

// CmdLine holds parsed command line options in a fixed array. Keys and
// values share the memory of the parsed line, so parsing does not allocate.
type CmdLine struct {
	opts [MaxOptions]Option
	n    int
}

// ParseCmdLine splits line into whitespace separated options. Options with
// more than one '=' are skipped.
func ParseCmdLine(line string) CmdLine {
	var c CmdLine
	c.parse(line)
	return c
}

func (c *CmdLine) parse(line string) {
	c.n = 0

	for {
		line = strings.TrimLeft(line, blanks)
		if line == "" || c.n == MaxOptions {
			return
		}

		end := strings.IndexAny(line, blanks)
		if end < 0 {
			end = len(line)
		}
		field := line[:end]
		line = line[end:]

		key, val, found := strings.Cut(field, "=")
		switch {
		case !found:
			val = key
		case strings.IndexByte(val, '=') >= 0:
			continue
		}

		c.opts[c.n] = Option{Key: key, Value: val}
		c.n++
	}
}

// Len returns the number of options.
func (c *CmdLine) Len() int {
	if c == nil {
		return 0
	}
	return c.n
}

// Option returns the i-th option in command line order.
func (c *CmdLine) Option(i int) Option {
	return c.opts[i]
}

// Lookup returns the value of key. When a key is repeated the last value
// wins. A nil CmdLine has no options.
func (c *CmdLine) Lookup(key string) (string, bool) {
	for i := c.Len() - 1; i >= 0; i-- {
		if c.opts[i].Key == key {
			return c.opts[i].Value, true
		}
	}
	return "", false
}
