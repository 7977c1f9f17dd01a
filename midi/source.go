package midi

import (
	"io"

	"github.com/thopman/wm8960/internal/ring"
)

// Source is a polled byte source: Read returns immediately with
// whatever is available, possibly nothing. Any io.Reader with that
// behavior works; blocking readers should be bridged with Pump.
type Source = io.Reader

// RingSource buffers bytes pushed from a delivery callback (a UART
// interrupt, a USB packet handler) until the Poller picks them up. It
// is bounded and drops input on overflow rather than stalling the
// producer.
type RingSource struct {
	r *ring.Ring
}

// NewRingSource creates a RingSource holding up to capacity bytes.
func NewRingSource(capacity int) *RingSource {
	return &RingSource{r: ring.New(capacity)}
}

// Push hands raw bytes from the transport to the source. Returns how
// many were kept.
func (s *RingSource) Push(p []byte) int {
	return s.r.Push(p)
}

// Read pops buffered bytes without blocking.
func (s *RingSource) Read(p []byte) (int, error) {
	return s.r.Read(p)
}

// Pump copies from a blocking reader into the source until the reader
// fails or is closed. Run it in its own goroutine; the returned error
// is io.EOF on a clean end of stream.
func (s *RingSource) Pump(r io.Reader) error {
	buf := make([]byte, 64)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			s.Push(buf[:n])
		}
		if err != nil {
			return err
		}
	}
}
