// package ring provides a fixed-capacity byte FIFO.
package ring

import "sync"

// Ring is a bounded byte FIFO safe for one producer and one consumer.
// It never allocates after construction; when full, Push drops the
// excess rather than blocking or growing.
type Ring struct {
	mu   sync.Mutex
	buf  []byte
	r, w int
	size int
}

// New allocates a Ring holding up to capacity bytes.
func New(capacity int) *Ring {
	return &Ring{buf: make([]byte, capacity)}
}

// Push appends bytes, returning how many fit. Bytes that do not fit
// are dropped; the producer is typically a device callback that cannot
// wait.
func (r *Ring) Push(p []byte) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, b := range p {
		if r.size == len(r.buf) {
			break
		}
		r.buf[r.w] = b
		r.w = (r.w + 1) % len(r.buf)
		r.size++
		n++
	}
	return n
}

// Read pops up to len(p) bytes. It never blocks; an empty ring reads
// zero bytes with a nil error, so it satisfies the polled byte-source
// contract rather than io.Reader's blocking convention.
func (r *Ring) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for n < len(p) && r.size > 0 {
		p[n] = r.buf[r.r]
		r.r = (r.r + 1) % len(r.buf)
		r.size--
		n++
	}
	return n, nil
}

// Len returns the number of buffered bytes.
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.size
}
