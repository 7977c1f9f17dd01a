package midi

import (
	"context"
	"errors"
	"io"
	"time"
)

// Poller drains a byte source into a Parser at a fixed cadence,
// decoupled from the audio block rate. Event delivery latency is
// bounded by the poll interval but never sample-accurate.
type Poller struct {
	src    io.Reader
	parser *Parser
	buf    [32]byte
}

// NewPoller creates a Poller reading from src.
func NewPoller(src io.Reader, parser *Parser) *Poller {
	return &Poller{src: src, parser: parser}
}

// Poll performs a single bounded read and feeds whatever arrived to
// the parser. An empty read is not an error.
func (p *Poller) Poll() error {
	n, err := p.src.Read(p.buf[:])
	if n > 0 {
		p.parser.Feed(p.buf[:n])
	}
	if errors.Is(err, io.EOF) {
		return io.EOF
	}
	return err
}

// Run polls at the given interval until the context is cancelled or
// the source is exhausted. EOF is a clean shutdown, not an error.
func (p *Poller) Run(ctx context.Context, interval time.Duration) error {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			switch err := p.Poll(); {
			case errors.Is(err, io.EOF):
				return nil
			case err != nil:
				return err
			}
		}
	}
}
