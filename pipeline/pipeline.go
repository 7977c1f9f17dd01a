// package pipeline moves audio blocks between a transport and a DSP.
//
// The transport hands over interleaved wire-format blocks from its
// receive callback and asks for processed blocks from its request
// callback, in strict alternation per block: receive, then request,
// never concurrently. That ordering is the whole concurrency
// discipline; there are no locks on the block path and nothing
// allocates after construction.
package pipeline

import (
	"errors"
	"fmt"

	"github.com/thopman/wm8960/perf"
	"github.com/thopman/wm8960/sample"
)

// ErrSizeMismatch reports a block whose length does not match the
// configured transport block size. The block is dropped; the previous
// output keeps playing.
var ErrSizeMismatch = errors.New("pipeline: block size mismatch")

// DSP is the processing unit invoked once per block. It reads and
// writes the channel buffers bound with SetChannelBuffers in place;
// Process must be bounded-time and must not retain other references.
type DSP interface {
	SetChannelBuffers(outL, outR, inL, inR []float32)
	Process()
}

// DoubleBuffer owns two fixed-size wire-format slots. At any instant
// one slot belongs to the transport for the next write and the other to
// the pipeline; the caller selects with the active flag and flips
// ownership exactly once per completed block.
type DoubleBuffer struct {
	a, b []uint32
}

// NewDoubleBuffer allocates both slots with the given word count.
func NewDoubleBuffer(size int) *DoubleBuffer {
	return &DoubleBuffer{
		a: make([]uint32, size),
		b: make([]uint32, size),
	}
}

// Slot returns the slot selected by active.
func (d *DoubleBuffer) Slot(active bool) []uint32 {
	if active {
		return d.a
	}
	return d.b
}

// Pipeline wires the transport callbacks to the sample conversion, the
// double buffers and the DSP.
type Pipeline struct {
	dsp       DSP
	blockSize int
	frames    int

	in, out *DoubleBuffer
	activeA bool

	// channel buffers shared by reference with the DSP for its whole
	// lifetime.
	inL, inR   []float32
	outL, outR []float32

	mon     *perf.Monitor
	dropped uint64
}

// New creates a Pipeline for the given transport block size in words
// (two words per frame). dsp may be nil, in which case the pipeline
// runs an exact input-to-output bypass.
func New(dsp DSP, blockSize int) (*Pipeline, error) {
	if blockSize <= 0 || blockSize%2 != 0 {
		return nil, fmt.Errorf("pipeline: bad block size %d", blockSize)
	}
	frames := blockSize / 2
	p := &Pipeline{
		dsp:       dsp,
		blockSize: blockSize,
		frames:    frames,
		in:        NewDoubleBuffer(blockSize),
		out:       NewDoubleBuffer(blockSize),
		activeA:   true,
		inL:       make([]float32, frames),
		inR:       make([]float32, frames),
		outL:      make([]float32, frames),
		outR:      make([]float32, frames),
	}
	if dsp != nil {
		dsp.SetChannelBuffers(p.outL, p.outR, p.inL, p.inR)
	}
	return p, nil
}

// BlockSize returns the transport block size in words.
func (p *Pipeline) BlockSize() int { return p.blockSize }

// Frames returns the number of frames per channel per block.
func (p *Pipeline) Frames() int { return p.frames }

// Dropped returns the number of blocks rejected for a size mismatch.
func (p *Pipeline) Dropped() uint64 { return p.dropped }

// SetMonitor attaches a perf monitor timing each processed block. Must
// be called before the transport starts.
func (p *Pipeline) SetMonitor(m *perf.Monitor) { p.mon = m }

// OnSamplesReceived accepts one wire block from the transport. It runs
// in the transport's delivery context and must complete before the
// paired OnSamplesRequested for the same block.
func (p *Pipeline) OnSamplesReceived(block []uint32) error {
	if len(block) != p.blockSize {
		p.dropped++
		return ErrSizeMismatch
	}
	cur := p.in.Slot(p.activeA)
	copy(cur, block)
	sample.Deinterleave(cur, p.inL, p.inR)
	return nil
}

// OnSamplesRequested fills one wire block for the transport and
// returns the number of words written, 0 when the length is wrong (the
// caller must not transmit the buffer then). The ownership flip of the
// double buffers is the last step, so a caller respecting the
// alternation contract always observes a consistent pair.
func (p *Pipeline) OnSamplesRequested(out []uint32) int {
	if len(out) != p.blockSize {
		p.dropped++
		return 0
	}
	if p.mon != nil {
		p.mon.Begin()
	}
	cur := p.out.Slot(p.activeA)
	if p.dsp != nil {
		p.dsp.Process()
	} else {
		// bypass: exact copy, not an approximation.
		copy(p.outL, p.inL)
		copy(p.outR, p.inR)
	}
	sample.Interleave(p.outL, p.outR, cur)
	copy(out, cur)
	if p.mon != nil {
		p.mon.End(p.frames)
	}
	p.activeA = !p.activeA
	return p.blockSize
}
