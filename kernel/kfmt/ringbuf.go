package kfmt

import "io"

// earlyBufSize holds roughly one screen of text. Index arithmetic relies on
// it being a power of two.
const earlyBufSize = 2048

// ringBuffer keeps Printf output produced before a sink is attached. When it
// fills up the oldest bytes are dropped.
type ringBuffer struct {
	data       [earlyBufSize]byte
	head, tail int
}

func (rb *ringBuffer) Write(p []byte) (int, error) {
	const mask = earlyBufSize - 1
	for _, b := range p {
		rb.data[rb.tail] = b
		rb.tail = (rb.tail + 1) & mask
		if rb.tail == rb.head {
			rb.head = (rb.head + 1) & mask
		}
	}
	return len(p), nil
}

// Read drains buffered bytes into p and reports io.EOF once empty. A buffer
// that has wrapped around is returned in two chunks.
func (rb *ringBuffer) Read(p []byte) (int, error) {
	if rb.head == rb.tail {
		return 0, io.EOF
	}

	end := rb.tail
	if rb.head > rb.tail {
		end = earlyBufSize
	}

	n := copy(p, rb.data[rb.head:end])
	rb.head = (rb.head + n) & (earlyBufSize - 1)
	return n, nil
}
