package io

// wordFIFO is a fixed-capacity FIFO of wire words, used to restage
// device buffers into exact transport blocks. Single-context use only;
// it is confined to the device callback.
type wordFIFO struct {
	buf  []uint32
	r, w int
	size int
}

func newWordFIFO(capacity int) *wordFIFO {
	return &wordFIFO{buf: make([]uint32, capacity)}
}

func (f *wordFIFO) cap() int { return len(f.buf) }
func (f *wordFIFO) len() int { return f.size }

// push appends words, dropping whatever does not fit, and returns how
// many were kept.
func (f *wordFIFO) push(p []uint32) int {
	n := 0
	for _, w := range p {
		if f.size == len(f.buf) {
			break
		}
		f.buf[f.w] = w
		f.w = (f.w + 1) % len(f.buf)
		f.size++
		n++
	}
	return n
}

// pop removes up to len(p) words and returns how many were written.
func (f *wordFIFO) pop(p []uint32) int {
	n := 0
	for n < len(p) && f.size > 0 {
		p[n] = f.buf[f.r]
		f.r = (f.r + 1) % len(f.buf)
		f.size--
		n++
	}
	return n
}
