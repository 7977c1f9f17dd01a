// command wm8960 brings up the codec and runs the realtime pipeline.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"runtime/pprof"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/thopman/wm8960/codec"
	wmio "github.com/thopman/wm8960/io"
	"github.com/thopman/wm8960/midi"
	"github.com/thopman/wm8960/perf"
	"github.com/thopman/wm8960/pipeline"
)

var (
	rateFlag    = flag.Int("rate", 48000, "sample rate, 44100 or 48000")
	blockFlag   = flag.Int("block", 256, "transport block size in words (two per frame)")
	backendFlag = flag.String("backend", "duplex", "audio backend: duplex or playback")
	i2cFlag     = flag.String("i2c", "none", "i2c bus for the codec, e.g. /dev/i2c-1, or none to skip bring-up")
	addrFlag    = flag.Uint("addr", 0, "codec i2c address, 0 for the default")
	midiFlag    = flag.String("midi", "", "path to a raw midi byte source, e.g. a serial device")
	writeFlag   = flag.Bool("write", false, "if true, writes the output to a wav file in the current directory")
	profileFlag = flag.Bool("profile", false, "whether to write pprof profiles to the current working directory")
)

func main() {
	flag.Parse()

	if *profileFlag {
		finish, err := startProfiles()
		if err != nil {
			log.Fatalf("Starting profiling: %v", err)
		}
		defer func() {
			if err := finish(); err != nil {
				log.Fatalf("Finishing profiles: %v", err)
			}
		}()
	}

	if *i2cFlag != "none" {
		bus, err := codec.OpenI2C(*i2cFlag, uint16(*addrFlag))
		if err != nil {
			log.Fatalf("Opening codec bus: %v", err)
		}
		defer bus.Close()
		ctrl, err := codec.New(bus, *rateFlag, true, true)
		if err != nil {
			log.Fatal(err)
		}
		if err := ctrl.Probe(); err != nil {
			log.Fatalf("Codec bring-up: %v", err)
		}
		log.Printf("codec ready at %d Hz", *rateFlag)
	}

	// No DSP unit is bound here, so the pipeline runs its exact
	// bypass; a synth or effect would be passed instead of nil.
	p, err := pipeline.New(nil, *blockFlag)
	if err != nil {
		log.Fatal(err)
	}
	mon := perf.New("block", *rateFlag, 256)
	p.SetMonitor(mon)

	var filename string
	if *writeFlag {
		filename = fmt.Sprintf("out-%d.wav", time.Now().Unix())
		fmt.Fprintf(os.Stderr, "Writing output to %q\n", filename)
	}

	g, ctx := errgroup.WithContext(interruptContext())

	if *midiFlag != "" {
		f, err := os.Open(*midiFlag)
		if err != nil {
			log.Fatalf("Opening midi source: %v", err)
		}
		// closing the file unblocks Pump on shutdown; a serial device
		// never reaches EOF on its own.
		context.AfterFunc(ctx, func() { f.Close() })
		src := midi.NewRingSource(1024)
		g.Go(func() error {
			err := src.Pump(f)
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return nil
			}
			return err
		})
		poller := midi.NewPoller(src, midi.NewParser(logSink{}))
		g.Go(func() error {
			return poller.Run(ctx, time.Millisecond)
		})
	}

	cfg := wmio.Config{SampleRate: *rateFlag, Capture: filename}
	g.Go(func() error {
		switch *backendFlag {
		case "duplex":
			return wmio.Run(ctx, p, cfg)
		case "playback":
			return wmio.Playback(ctx, p, cfg)
		}
		return fmt.Errorf("unknown backend %q", *backendFlag)
	})

	g.Go(func() error {
		pr := message.NewPrinter(language.English)
		t := time.NewTicker(time.Second)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-t.C:
				s := mon.Stats()
				pr.Printf("\r%s: %.2f%% avg, %.2f%% max, %v avg, %d dropped",
					s.Name, s.AvgLoad, s.MaxLoad, s.AvgTime, p.Dropped())
			}
		}
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal(err)
	}
}

// logSink reports decoded MIDI messages; with a DSP bound its
// ReceiveMIDIEvent would go to the unit instead.
type logSink struct{}

func (logSink) ReceiveMIDIEvent(count int, timestamp float64, typ, channel, data1, data2 byte) {
	log.Printf("midi: type %#02x channel %d data %d %d", typ, channel, data1, data2)
}

func interruptContext() context.Context {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	go func() {
		<-ctx.Done()
		cancel()
	}()
	return ctx
}

func startProfiles() (func() error, error) {
	cpu, err := os.Create("cpu.pprof")
	if err != nil {
		return nil, err
	}
	if err := pprof.StartCPUProfile(cpu); err != nil {
		return nil, fmt.Errorf("starting cpu profile: %w", err)
	}

	mem, err := os.Create("mem.pprof")
	if err != nil {
		return nil, err
	}
	return func() error {
		pprof.StopCPUProfile()
		if err := cpu.Close(); err != nil {
			return err
		}
		runtime.GC()
		if err := pprof.WriteHeapProfile(mem); err != nil {
			return err
		}
		return mem.Close()
	}, nil
}
