// package midi reconstructs MIDI messages from a raw byte stream.
//
// The parser works identically whether bytes trickle in from a serial
// UART or arrive as already-aligned packets from a USB MIDI transport;
// the source is just something that can be asked to read some bytes.
package midi

// Status types forwarded to the sink, the standard status nibbles
// shifted into the high byte.
const (
	TypeNoteOff         = 0x80
	TypeNoteOn          = 0x90
	TypeControlChange   = 0xB0
	TypeProgramChange   = 0xC0
	TypeChannelPressure = 0xD0
	TypePitchBend       = 0xE0
)

// Sink receives decoded messages. count is the number of meaningful
// arguments (2 or 3); the timestamp is always 0, events are delivered
// "now" relative to the audio stream.
type Sink interface {
	ReceiveMIDIEvent(count int, timestamp float64, typ, channel, data1, data2 byte)
}

// parser states: how many bytes of the current message are stored.
const (
	awaitingStatus = iota
	awaitingData1
	awaitingData2
)

// Parser is a byte-level state machine assembling 3-byte messages.
// Create it once; it keeps no history beyond the message in flight.
type Parser struct {
	sink  Sink
	state int
	msg   [3]byte
}

// NewParser creates a Parser dispatching to sink. A nil sink parses
// and discards, which is still useful to keep stream sync.
func NewParser(sink Sink) *Parser {
	return &Parser{sink: sink}
}

// Feed runs the state machine over a chunk of raw bytes.
func (p *Parser) Feed(data []byte) {
	for _, b := range data {
		p.feedByte(b)
	}
}

func (p *Parser) feedByte(b byte) {
	switch p.state {
	case awaitingStatus:
		if (b&0xE0) == 0x80 || // note on/off, all channels
			(b&0xF0) == 0xB0 { // control change, all channels
			p.msg[0] = b
			p.state = awaitingData1
		}
		// other bytes are discarded while awaiting a status.

	case awaitingData1, awaitingData2:
		if b&0x80 != 0 {
			// a status byte where a data byte was expected: drop the
			// partial message and reconsider this byte from scratch.
			p.state = awaitingStatus
			p.feedByte(b)
			return
		}
		p.msg[p.state] = b
		p.state++
		if p.state == len(p.msg) {
			p.dispatch(p.msg[:])
			p.state = awaitingStatus
		}
	}
}

// HandlePacket decodes a pre-framed message, e.g. a USB MIDI packet
// that already carries the aligned status and data bytes. It shares
// the dispatch rules with the byte-stream path but never touches its
// state. Packets shorter than 3 bytes are ignored.
func (p *Parser) HandlePacket(pkt []byte) {
	if len(pkt) < 3 {
		return
	}
	p.dispatch(pkt)
}

func (p *Parser) dispatch(msg []byte) {
	if p.sink == nil {
		return
	}
	var (
		status  = msg[0]
		channel = status & 0x0F
		d1, d2  = msg[1], msg[2]
	)
	switch status & 0xF0 {
	case TypeNoteOff, TypeNoteOn:
		typ := byte(TypeNoteOff)
		if status&0xF0 == TypeNoteOn && d2 > 0 {
			typ = TypeNoteOn
		}
		p.sink.ReceiveMIDIEvent(3, 0, typ, channel, d1, d2)
	case TypeControlChange:
		p.sink.ReceiveMIDIEvent(3, 0, TypeControlChange, channel, d1, d2)
	case TypeProgramChange:
		p.sink.ReceiveMIDIEvent(2, 0, TypeProgramChange, channel, d1, 0)
	case TypeChannelPressure:
		p.sink.ReceiveMIDIEvent(2, 0, TypeChannelPressure, channel, d1, 0)
	case TypePitchBend:
		p.sink.ReceiveMIDIEvent(3, 0, TypePitchBend, channel, d1, d2)
	}
	// anything else is received but not forwarded.
}
