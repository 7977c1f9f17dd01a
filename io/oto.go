package io

import (
	"context"
	"encoding/binary"
	"math"

	"github.com/ebitengine/oto/v3"

	"github.com/thopman/wm8960/pipeline"
	"github.com/thopman/wm8960/sample"
)

// Playback drives the pipeline output-only through oto, for machines
// without a capture device. Input blocks are silence; the pipeline
// path is otherwise identical to the duplex transport.
func Playback(ctx context.Context, p *pipeline.Pipeline, cfg Config) error {
	octx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   cfg.SampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return err
	}
	<-ready

	player := octx.NewPlayer(newBlockReader(p))
	player.Play()

	<-ctx.Done()

	return player.Close()
}

// blockReader pulls blocks through the pipeline and serves them as
// little-endian float32 frames, one Read at a time.
type blockReader struct {
	p       *pipeline.Pipeline
	silence []uint32
	block   []uint32
	staged  []byte
	pos     int
}

func newBlockReader(p *pipeline.Pipeline) *blockReader {
	size := p.BlockSize()
	br := &blockReader{
		p:       p,
		silence: make([]uint32, size),
		block:   make([]uint32, size),
		staged:  make([]byte, 4*size),
	}
	br.pos = len(br.staged)
	return br
}

func (b *blockReader) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if b.pos == len(b.staged) {
			b.next()
		}
		c := copy(p[n:], b.staged[b.pos:])
		b.pos += c
		n += c
	}
	return n, nil
}

func (b *blockReader) next() {
	b.p.OnSamplesReceived(b.silence)
	if b.p.OnSamplesRequested(b.block) != len(b.block) {
		for i := range b.block {
			b.block[i] = 0
		}
	}
	for i, word := range b.block {
		f := sample.ToFloat[float32](sample.Decode(word))
		binary.LittleEndian.PutUint32(b.staged[i*4:], math.Float32bits(f))
	}
	b.pos = 0
}
