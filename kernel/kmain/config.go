package kmain

import (
	"tetrisos/device/timer"
	"tetrisos/game/tetris"
	"tetrisos/kernel/hal/multiboot"
	"tetrisos/kernel/kfmt"
)

const (
	// DefaultTickRate is the timer frequency used when the boot command
	// line does not specify one.
	DefaultTickRate = 100

	// minTickRate is the lowest rate whose divisor fits the timer.
	minTickRate = timer.MinFrequency

	// maxTickRate is the highest rate whose divisor is still larger than 1.
	maxTickRate = 596591
)

// Config holds the options read from the boot command line.
type Config struct {
	// TickRate is the timer frequency in Hz (tickrate=<hz>).
	TickRate uint32

	// StartLevel is the level each game starts at (startlevel=<0..9>).
	StartLevel uint32

	// ShowNext enables the preview of the next piece. It is turned off
	// with nextpreview=off.
	ShowNext bool
}

// DefaultConfig returns the configuration used for an empty command line.
func DefaultConfig() Config {
	return Config{
		TickRate: DefaultTickRate,
		ShowNext: true,
	}
}

// ParseConfig builds a Config from the boot command line. Unknown keys are
// ignored; malformed values are reported and replaced by their defaults.
func ParseConfig(cmdLine *multiboot.CmdLine) Config {
	cfg := DefaultConfig()

	if v, ok := cmdLine.Lookup("tickrate"); ok {
		if hz, ok := parseDecimal(v, maxTickRate); ok && hz >= minTickRate {
			cfg.TickRate = hz
		} else {
			kfmt.Printf("[kmain] ignoring invalid tickrate %s\n", v)
		}
	}

	if v, ok := cmdLine.Lookup("startlevel"); ok {
		if level, ok := parseDecimal(v, tetris.MaxLevel); ok {
			cfg.StartLevel = level
		} else {
			kfmt.Printf("[kmain] ignoring invalid startlevel %s\n", v)
		}
	}

	if v, ok := cmdLine.Lookup("nextpreview"); ok && (v == "off" || v == "0" || v == "false") {
		cfg.ShowNext = false
	}

	return cfg
}

// parseDecimal parses an unsigned base 10 number that is at most limit. It
// does not allocate, even for malformed input.
func parseDecimal(s string, limit uint32) (uint32, bool) {
	if s == "" {
		return 0, false
	}

	var v uint64
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
		v = v*10 + uint64(s[i]-'0')
		if v > uint64(limit) {
			return 0, false
		}
	}
	return uint32(v), true
}

// gameConfig returns the per-game options.
func (c Config) gameConfig() tetris.Config {
	return tetris.Config{StartLevel: c.StartLevel, ShowNext: c.ShowNext}
}
