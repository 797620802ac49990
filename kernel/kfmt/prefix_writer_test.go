package kfmt

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrefixWriter(t *testing.T) {
	specs := []struct {
		input string
		exp   string
	}{
		{"", ""},
		{"\n", "[hal] pit(1.0.0): \n"},
		{"initialized", "[hal] pit(1.0.0): initialized"},
		{"initialized\n", "[hal] pit(1.0.0): initialized\n"},
		{
			"\nrate 100Hz\ndivisor 11931\ndone",
			"[hal] pit(1.0.0): \n[hal] pit(1.0.0): rate 100Hz\n[hal] pit(1.0.0): divisor 11931\n[hal] pit(1.0.0): done",
		},
	}

	var (
		buf bytes.Buffer
		w   = PrefixWriter{Sink: &buf, Prefix: []byte("[hal] pit(1.0.0): ")}
	)

	for specIndex, spec := range specs {
		buf.Reset()
		w.midLine = false

		wrote, err := w.Write([]byte(spec.input))
		assert.NoError(t, err, "spec %d", specIndex)
		assert.Equal(t, len(spec.input), wrote, "spec %d", specIndex)
		assert.Equal(t, spec.exp, buf.String(), "spec %d", specIndex)
	}
}

func TestPrefixWriterContinuesLine(t *testing.T) {
	var (
		buf bytes.Buffer
		w   = PrefixWriter{Sink: &buf, Prefix: []byte("> ")}
	)

	w.Write([]byte("part one, "))
	w.Write([]byte("part two\n"))
	w.Write([]byte("next"))

	assert.Equal(t, "> part one, part two\n> next", buf.String())
}

func TestPrefixWriterErrors(t *testing.T) {
	expErr := errors.New("write failed")

	for _, input := range []string{"no line break", "\nsplit\nlines"} {
		w := PrefixWriter{Sink: failingWriter{expErr}, Prefix: []byte("> ")}
		_, err := w.Write([]byte(input))
		assert.Equal(t, expErr, err)
	}
}

type failingWriter struct {
	err error
}

func (w failingWriter) Write(_ []byte) (int, error) {
	return 0, w.err
}
