// package sample converts between the I2S wire format and floats.
//
// The wire format is the WM8960's 24-bit left-justified mode: each
// 32-bit word carries a signed 24-bit sample in bits 31-8, low byte
// zero. Words are interleaved stereo, even index left, odd right.
package sample

import (
	"golang.org/x/exp/constraints"
)

const (
	// Min24 and Max24 bound the signed 24-bit sample range.
	Min24 int32 = -1 << 23
	Max24 int32 = 1<<23 - 1

	// fullScale is 2^23. The inverse scale must match exactly so that
	// ToFloat and FromFloat round-trip.
	fullScale = 8388608.0

	// maxFloat is the positive clamp applied before re-encoding,
	// slightly below full scale so truncation cannot overflow the
	// 24-bit range on the way back.
	maxFloat = 0.999999
)

// Decode sign-extends the 24-bit sample held in the top bits of a wire
// word. The low byte is discarded.
func Decode(w uint32) int32 {
	return int32(w) >> 8
}

// Encode left-justifies a 24-bit sample into a wire word, low byte
// zero. The inverse of Decode for in-range samples.
func Encode(s int32) uint32 {
	return uint32(s) << 8
}

// ToFloat scales a 24-bit sample to [-1.0, 1.0).
func ToFloat[T constraints.Float](s int32) T {
	var scale = 1.0 / T(fullScale)
	return T(s) * scale
}

// FromFloat converts a normalized value back to a 24-bit sample,
// saturating rather than wrapping. Values are clamped to
// [-1.0, 0.999999] first, then the truncated result is clamped again to
// guard against rounding overshoot.
func FromFloat[T constraints.Float](x T) int32 {
	if x > maxFloat {
		x = maxFloat
	}
	if x < -1.0 {
		x = -1.0
	}
	s := int32(x * fullScale)
	return min(max(s, Min24), Max24)
}

// Deinterleave decodes a stereo wire block into per-channel float
// buffers. outL and outR must each hold len(block)/2 samples.
func Deinterleave[T constraints.Float](block []uint32, outL, outR []T) {
	for i := 0; i < len(block)/2; i++ {
		outL[i] = ToFloat[T](Decode(block[2*i]))
		outR[i] = ToFloat[T](Decode(block[2*i+1]))
	}
}

// Interleave encodes per-channel float buffers into a stereo wire
// block, the inverse of Deinterleave.
func Interleave[T constraints.Float](inL, inR []T, block []uint32) {
	for i := 0; i < len(block)/2; i++ {
		block[2*i] = Encode(FromFloat(inL[i]))
		block[2*i+1] = Encode(FromFloat(inR[i]))
	}
}
