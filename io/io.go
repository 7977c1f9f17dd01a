// package io does audio in and out.
//
// It adapts a host audio device to the pipeline's block callbacks: the
// device's data callback plays the role of the I2S interrupt,
// delivering and requesting wire-format blocks in strict alternation.
package io

import (
	"context"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/gen2brain/malgo"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/thopman/wm8960/pipeline"
	"github.com/thopman/wm8960/sample"
)

// Config selects the device parameters. The block size is taken from
// the pipeline; only 44100 and 48000 make sense with the codec.
type Config struct {
	SampleRate int
	// Capture, if not "", also writes the produced output to a 24-bit
	// wav file with that name.
	Capture string
}

// Run opens the default duplex device and drives the pipeline until
// the context is cancelled. Device buffers do not always align with
// the transport block size, so words are staged through fixed FIFOs on
// both sides; the pipeline itself always sees exact blocks.
func Run(ctx context.Context, p *pipeline.Pipeline, cfg Config) error {
	mctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(msg string) {
		fmt.Fprint(os.Stderr, msg)
	})
	if err != nil {
		return err
	}
	defer func() {
		mctx.Uninit()
		mctx.Free()
	}()

	dcfg := malgo.DefaultDeviceConfig(malgo.Duplex)
	dcfg.Capture.Format = malgo.FormatS32
	dcfg.Capture.Channels = 2
	dcfg.Playback.Format = malgo.FormatS32
	dcfg.Playback.Channels = 2
	dcfg.SampleRate = uint32(cfg.SampleRate)
	dcfg.PeriodSizeInFrames = uint32(p.Frames())

	blockSize := p.BlockSize()
	var (
		inq      = newWordFIFO(8 * blockSize)
		outq     = newWordFIFO(8 * blockSize)
		inBlock  = make([]uint32, blockSize)
		outBlock = make([]uint32, blockSize)
		scratch  = make([]uint32, 8*blockSize)
	)

	var w *wav.Encoder
	var capture *audio.IntBuffer
	if cfg.Capture != "" {
		f, err := os.Create(cfg.Capture)
		if err != nil {
			return err
		}
		defer f.Close()
		w = wav.NewEncoder(f, cfg.SampleRate, 24, 2, 1)
		capture = &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: 2, SampleRate: cfg.SampleRate},
			Data:           make([]int, blockSize),
			SourceBitDepth: 24,
		}
	}

	recv := func(out, in []byte, framecount uint32) {
		if framecount == 0 {
			return
		}
		// stage the captured words.
		n := 0
		for i := 0; i+4 <= len(in) && n < len(scratch); i += 4 {
			scratch[n] = binary.LittleEndian.Uint32(in[i:])
			n++
		}
		inq.push(scratch[:n])

		// run the pipeline for every complete block available.
		for inq.len() >= blockSize && outq.len()+blockSize <= outq.cap() {
			inq.pop(inBlock)
			p.OnSamplesReceived(inBlock)
			if p.OnSamplesRequested(outBlock) != blockSize {
				continue
			}
			outq.push(outBlock)
			if w != nil {
				for i, word := range outBlock {
					capture.Data[i] = int(sample.Decode(word))
				}
				if err := w.Write(capture); err != nil {
					panic(err)
				}
			}
		}

		// drain to the playback side, zero-filling on underrun.
		want := len(out) / 4
		if want > len(scratch) {
			want = len(scratch)
		}
		got := outq.pop(scratch[:want])
		for i := 0; i < got; i++ {
			binary.LittleEndian.PutUint32(out[i*4:], scratch[i])
		}
		for i := got * 4; i < len(out); i++ {
			out[i] = 0
		}
	}

	device, err := malgo.InitDevice(mctx.Context, dcfg, malgo.DeviceCallbacks{
		Data: recv,
	})
	if err != nil {
		return err
	}
	if err := device.Start(); err != nil {
		return err
	}

	<-ctx.Done()

	device.Uninit()

	if w != nil {
		return w.Close()
	}
	return nil
}
