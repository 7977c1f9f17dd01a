package midi

import (
	"testing"
)

type event struct {
	count        int
	typ, channel byte
	data1, data2 byte
}

type recordSink struct {
	events []event
}

func (s *recordSink) ReceiveMIDIEvent(count int, timestamp float64, typ, channel, data1, data2 byte) {
	if timestamp != 0 {
		panic("timestamp must be zero")
	}
	s.events = append(s.events, event{count, typ, channel, data1, data2})
}

func TestNoteOn(t *testing.T) {
	sink := &recordSink{}
	p := NewParser(sink)
	p.Feed([]byte{0x90, 0x3C, 0x64})
	if len(sink.events) != 1 {
		t.Fatalf("%d events, want 1", len(sink.events))
	}
	want := event{3, TypeNoteOn, 0, 60, 100}
	if sink.events[0] != want {
		t.Errorf("event %+v, want %+v", sink.events[0], want)
	}
}

func TestStatusInterruptsMessage(t *testing.T) {
	sink := &recordSink{}
	p := NewParser(sink)
	// a new status mid-message discards the partial message, and the
	// interrupting byte starts the next one.
	p.Feed([]byte{0x90, 0x3C, 0x80, 0x40, 0x50})
	if len(sink.events) != 1 {
		t.Fatalf("%d events, want 1", len(sink.events))
	}
	want := event{3, TypeNoteOff, 0, 0x40, 0x50}
	if sink.events[0] != want {
		t.Errorf("event %+v, want %+v", sink.events[0], want)
	}
}

func TestVelocityZeroIsNoteOff(t *testing.T) {
	sink := &recordSink{}
	p := NewParser(sink)
	p.Feed([]byte{0x93, 0x3C, 0x00})
	want := event{3, TypeNoteOff, 3, 60, 0}
	if len(sink.events) != 1 || sink.events[0] != want {
		t.Fatalf("events %+v, want [%+v]", sink.events, want)
	}
}

func TestControlChange(t *testing.T) {
	sink := &recordSink{}
	p := NewParser(sink)
	p.Feed([]byte{0xB2, 0x07, 0x7F})
	want := event{3, TypeControlChange, 2, 7, 127}
	if len(sink.events) != 1 || sink.events[0] != want {
		t.Fatalf("events %+v, want [%+v]", sink.events, want)
	}
}

func TestGarbageIgnoredAwaitingStatus(t *testing.T) {
	sink := &recordSink{}
	p := NewParser(sink)
	// data bytes and unsupported statuses before a message are
	// discarded without losing the message that follows.
	p.Feed([]byte{0x12, 0x7F, 0xF8, 0xC5, 0x90, 0x3C, 0x64})
	if len(sink.events) != 1 {
		t.Fatalf("%d events, want 1", len(sink.events))
	}
	if sink.events[0].typ != TypeNoteOn {
		t.Errorf("type %#x, want note on", sink.events[0].typ)
	}
}

func TestFeedByteAtATime(t *testing.T) {
	sink := &recordSink{}
	p := NewParser(sink)
	for _, b := range []byte{0x80, 0x40, 0x01, 0x91, 0x41, 0x02} {
		p.Feed([]byte{b})
	}
	if len(sink.events) != 2 {
		t.Fatalf("%d events, want 2", len(sink.events))
	}
	if sink.events[0] != (event{3, TypeNoteOff, 0, 0x40, 0x01}) {
		t.Errorf("first event %+v", sink.events[0])
	}
	if sink.events[1] != (event{3, TypeNoteOn, 1, 0x41, 0x02}) {
		t.Errorf("second event %+v", sink.events[1])
	}
}

func TestHandlePacket(t *testing.T) {
	sink := &recordSink{}
	p := NewParser(sink)
	for _, tc := range []struct {
		pkt  []byte
		want []event
	}{
		{[]byte{0x90, 0x3C, 0x64}, []event{{3, TypeNoteOn, 0, 60, 100}}},
		{[]byte{0xC4, 0x05, 0x00}, []event{{2, TypeProgramChange, 4, 5, 0}}},
		{[]byte{0xD1, 0x40, 0x00}, []event{{2, TypeChannelPressure, 1, 0x40, 0}}},
		{[]byte{0xE0, 0x00, 0x40}, []event{{3, TypePitchBend, 0, 0, 0x40}}},
		// unsupported status type: received, not forwarded.
		{[]byte{0xF0, 0x01, 0x02}, nil},
		// too short to be a packet.
		{[]byte{0x90, 0x3C}, nil},
	} {
		sink.events = nil
		p.HandlePacket(tc.pkt)
		if len(sink.events) != len(tc.want) {
			t.Errorf("packet %x: %d events, want %d", tc.pkt, len(sink.events), len(tc.want))
			continue
		}
		for i := range tc.want {
			if sink.events[i] != tc.want[i] {
				t.Errorf("packet %x: event %+v, want %+v", tc.pkt, sink.events[i], tc.want[i])
			}
		}
	}
}

func TestHandlePacketKeepsStreamState(t *testing.T) {
	sink := &recordSink{}
	p := NewParser(sink)
	// half a message on the byte path...
	p.Feed([]byte{0x90, 0x3C})
	// ...a packet in between...
	p.HandlePacket([]byte{0xB0, 0x01, 0x02})
	// ...and the stream finishes undisturbed.
	p.Feed([]byte{0x64})
	if len(sink.events) != 2 {
		t.Fatalf("%d events, want 2", len(sink.events))
	}
	if sink.events[1] != (event{3, TypeNoteOn, 0, 60, 100}) {
		t.Errorf("stream event %+v", sink.events[1])
	}
}

func TestNilSink(t *testing.T) {
	p := NewParser(nil)
	p.Feed([]byte{0x90, 0x3C, 0x64}) // must not panic
}
