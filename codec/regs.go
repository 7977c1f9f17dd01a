package codec

// WM8960 register addresses. 7-bit addresses, 9-bit values; there is
// no readback, so anything read-modify-write is tracked in software.
const (
	regLInVol    = 0x00 // left input PGA volume
	regRInVol    = 0x01 // right input PGA volume
	regLOut1Vol  = 0x02 // headphone left
	regROut1Vol  = 0x03 // headphone right
	regClocking1 = 0x04
	regADCDACCtl = 0x05
	regIface1    = 0x07 // audio interface format
	regALC1      = 0x11
	regNoiseGate = 0x14
	regReset     = 0x0F
	regPower1    = 0x19
	regPower2    = 0x1A
	regLADCPath  = 0x20 // ADCL signal path
	regRADCPath  = 0x21 // ADCR signal path
	regLOutMix   = 0x22
	regROutMix   = 0x25
	regLOut2Vol  = 0x28 // speaker left
	regROut2Vol  = 0x29 // speaker right
	regBoost1    = 0x2B // input boost mixer (1), LINPUT2/3
	regBoost2    = 0x2C // input boost mixer (2), RINPUT2/3
	regPower3    = 0x2F
	regClassD1   = 0x31 // Class D speaker enable
	regClassD3   = 0x33 // speaker boost gains
	regPLLN      = 0x34
	regPLLK1     = 0x35 // PLLK[23:16]
	regPLLK2     = 0x36 // PLLK[15:8]
	regPLLK3     = 0x37 // PLLK[7:0]
)

// Fixed bring-up and control values. See the WM8960 datasheet for the
// bit fields; these are used as whole-register literals.
const (
	// volUpdate is the hardware "update" flag (bit 8), sent with every
	// volume write and never cached.
	volUpdate = 0x100

	// inVol0dB is the input PGA 0 dB magnitude code.
	inVol0dB = 0x17

	// outVol0dB is the 0 dB encoding for the headphone and speaker
	// volume registers, update bit included.
	outVol0dB = 0x179

	// power1InOut/power1Out: VREF, analogue inputs, ADCs, digital core.
	power1InOut = 0x1FC
	power1Out   = 0x1C0
	// power2Out enables the DACs and outputs.
	power2Out = 0x1F9
	power2Min = 0x001
	// power3 mixer enables.
	power3InMix  = 0x030
	power3OutMix = 0x00C

	// clockingPLL selects the PLL as clock source.
	clockingPLL = 0x005

	// ifaceI2S: I2S word format, slave mode, inverted LRCLK polarity.
	ifaceI2S = 0x00A

	// noiseGateOn enables the gate with a fixed threshold.
	noiseGateOn = 0x0F9

	// classD3Boost sets the speaker DC/AC boost gains.
	classD3Boost = 0x08D

	// classDOn/classDOff toggle the Class D speaker outputs; the rest
	// of the register keeps its reserved default bits.
	classDOn  = 0x0F7
	classDOff = 0x037

	// boostLine3 routes LINPUT3/RINPUT3 into the boost mixer at the
	// lowest gain step and mutes LINPUT2/RINPUT2. The 3-bit boost
	// fields are a fixed lookup of gain levels, mute through +6 dB.
	boostLine3 = 0x010

	// dacToMix connects the DAC to the output mixer.
	dacToMix = 0x100

	// alcOn/alcOff toggle ALC for both channels with fixed target and
	// hold settings.
	alcOn  = 0x1FB
	alcOff = 0x00B
)

// pll holds the clock configuration for one supported sample rate:
// integer multiplier N and the 24-bit fractional part K split high to
// low across three registers.
type pll struct {
	n          uint16
	k1, k2, k3 uint16
}

var pllRates = map[int]pll{
	44100: {n: 0x037, k1: 0x086, k2: 0x0C2, k3: 0x026},
	48000: {n: 0x038, k1: 0x031, k2: 0x026, k3: 0x0E8},
}
