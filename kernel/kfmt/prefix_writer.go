package kfmt

import "io"

// PrefixWriter forwards writes to Sink and tags every line with Prefix. The
// hal uses it to label driver output with the driver name.
type PrefixWriter struct {
	Sink   io.Writer
	Prefix []byte

	// midLine is set while the last byte forwarded was not a newline.
	midLine bool
}

// Write forwards p to the sink line by line. The returned count only covers
// bytes of p.
func (w *PrefixWriter) Write(p []byte) (int, error) {
	var total int

	for len(p) != 0 {
		if !w.midLine {
			w.Sink.Write(w.Prefix)
		}

		end := len(p)
		for i, b := range p {
			if b == '\n' {
				end = i + 1
				break
			}
		}

		n, err := w.Sink.Write(p[:end])
		total += n
		w.midLine = p[end-1] != '\n'
		if err != nil {
			return total, err
		}
		p = p[end:]
	}

	return total, nil
}
