package midi

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"
)

func TestPollerFeedsParser(t *testing.T) {
	sink := &recordSink{}
	src := NewRingSource(64)
	p := NewPoller(src, NewParser(sink))

	src.Push([]byte{0x90, 0x3C})
	if err := p.Poll(); err != nil {
		t.Fatal(err)
	}
	if len(sink.events) != 0 {
		t.Fatalf("event dispatched from a partial message")
	}

	src.Push([]byte{0x64, 0xB0, 0x01, 0x02})
	if err := p.Poll(); err != nil {
		t.Fatal(err)
	}
	if len(sink.events) != 2 {
		t.Fatalf("%d events, want 2", len(sink.events))
	}
}

func TestPollerEOF(t *testing.T) {
	sink := &recordSink{}
	p := NewPoller(strings.NewReader(string([]byte{0x90, 0x3C, 0x64})), NewParser(sink))
	if err := p.Poll(); err != nil && err != io.EOF {
		t.Fatal(err)
	}
	if err := p.Poll(); err != io.EOF {
		t.Fatalf("Poll after exhaustion = %v, want EOF", err)
	}
	if len(sink.events) != 1 {
		t.Fatalf("%d events, want 1", len(sink.events))
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := NewPoller(NewRingSource(8), NewParser(nil))

	done := make(chan error, 1)
	go func() { done <- p.Run(ctx, time.Millisecond) }()
	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("Run = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not stop on cancel")
	}
}

func TestRunStopsOnEOF(t *testing.T) {
	p := NewPoller(strings.NewReader(""), NewParser(nil))
	done := make(chan error, 1)
	go func() { done <- p.Run(context.Background(), time.Millisecond) }()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run = %v, want nil on EOF", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not stop on EOF")
	}
}
