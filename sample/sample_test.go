package sample

import (
	"testing"
)

func TestDecodeEncodeRoundTrip(t *testing.T) {
	for s := Min24; s <= Max24; s++ {
		if got := Decode(Encode(s)); got != s {
			t.Fatalf("Decode(Encode(%d)) = %d", s, got)
		}
	}
}

func TestDecode(t *testing.T) {
	for _, c := range []struct {
		w   uint32
		out int32
	}{
		{0x00000000, 0},
		{0x00000100, 1},
		{0xFFFFFF00, -1},
		{0x7FFFFF00, Max24},
		{0x80000000, Min24},
		// a dirty low byte is discarded
		{0x000001FF, 1},
	} {
		if got := Decode(c.w); got != c.out {
			t.Errorf("Decode(%#08x) = %d, want: %d", c.w, got, c.out)
		}
	}
}

func TestFromFloatClamps(t *testing.T) {
	for _, c := range []struct {
		in  float32
		out int32
	}{
		{0, 0},
		{2.0, FromFloat[float32](0.999999)},
		{1.0, FromFloat[float32](0.999999)},
		{-1.0, Min24},
		{-5.0, Min24},
	} {
		if got := FromFloat(c.in); got != c.out {
			t.Errorf("FromFloat(%f) = %d, want: %d", c.in, got, c.out)
		}
	}
	if got := FromFloat[float32](2.0); got > Max24 || got < Min24 {
		t.Errorf("FromFloat(2.0) = %d outside the 24-bit range", got)
	}
}

func TestScaleInverse(t *testing.T) {
	// FromFloat(ToFloat(s)) may differ from s by at most 1 due to
	// truncation, and only near positive full scale where the float
	// clamp bites.
	for s := Min24; s <= Max24; s += 7 {
		got := FromFloat(ToFloat[float32](s))
		d := got - s
		if d < 0 {
			d = -d
		}
		if s <= FromFloat[float32](0.999999) && d != 0 {
			t.Fatalf("FromFloat(ToFloat(%d)) = %d", s, got)
		}
		if got > Max24 || got < Min24 {
			t.Fatalf("FromFloat(ToFloat(%d)) = %d outside range", s, got)
		}
	}
}

func TestInterleaveRoundTrip(t *testing.T) {
	block := []uint32{
		Encode(0), Encode(1),
		Encode(-1), Encode(1234567),
		Encode(-1234567), Encode(4000000),
		Encode(-8388608), Encode(8388599),
	}
	outL := make([]float32, 4)
	outR := make([]float32, 4)
	Deinterleave(block, outL, outR)

	got := make([]uint32, len(block))
	Interleave(outL, outR, got)
	for i := range block {
		if got[i] != block[i] {
			t.Errorf("word %d: %#08x, want %#08x", i, got[i], block[i])
		}
	}
}
