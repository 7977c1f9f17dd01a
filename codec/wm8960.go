// package codec controls a WM8960 audio codec over its two-wire bus.
//
// The device is write-only: a register write is two bytes, the 7-bit
// register address and the top value bit in the first, the low eight
// value bits in the second. Probe runs the fixed bring-up sequence;
// the small control surface handles jacks, volume, mute and ALC.
package codec

import (
	"errors"
	"fmt"
)

// Bus is the byte-level write primitive for the two-wire bus, with the
// device address already bound. A register write succeeds only when
// exactly two bytes are acknowledged.
type Bus interface {
	Write(p []byte) (int, error)
}

// Control selects a controllable property.
type Control int

const (
	ControlMute Control = iota
	ControlVolume
	ControlALC
)

// Jack names a physical connector on the board.
type Jack int

const (
	JackDefaultOut Jack = iota
	JackLineOut
	JackSpeaker
	JackHeadphone
	JackDefaultIn
	JackMicrophone
)

func (j Jack) isInput() bool {
	return j == JackDefaultIn || j == JackMicrophone
}

// Channel selects which channels a control operation addresses.
type Channel int

const (
	ChannelLeft Channel = iota
	ChannelRight
	ChannelAll
)

// ControlInfo describes whether a control is available for a jack and
// channel, and the accepted value range (dB for volume, 0/1 for mute
// and ALC).
type ControlInfo struct {
	Supported bool
	RangeMin  int
	RangeMax  int
}

var (
	// ErrUnsupported reports a control/jack/channel combination the
	// hardware has no means to express.
	ErrUnsupported = errors.New("codec: unsupported control")
	// ErrRange reports a control value outside the documented range.
	// Nothing is written to the hardware.
	ErrRange = errors.New("codec: value out of range")
)

// Controller drives one WM8960. It caches the input PGA volume bytes
// because the mute bit is read-modify-write against software state; the
// device has no readback.
type Controller struct {
	bus        Bus
	sampleRate int
	out, in    bool

	// bits 5-0 magnitude, bit 7 mute. The update flag (bit 8) is sent
	// with every write, never cached.
	inVolume [2]uint8
}

// New creates a Controller for the given sample rate. The out and in
// flags declare which capabilities this instance powers up; at least
// one must be set.
func New(bus Bus, sampleRate int, out, in bool) (*Controller, error) {
	if !out && !in {
		return nil, errors.New("codec: neither input nor output enabled")
	}
	return &Controller{
		bus:        bus,
		sampleRate: sampleRate,
		out:        out,
		in:         in,
		inVolume:   [2]uint8{inVol0dB, inVol0dB}, // 0 dB
	}, nil
}

func (c *Controller) writeReg(reg uint8, val uint16) error {
	cmd := [2]byte{reg<<1 | uint8(val>>8), uint8(val)}
	n, err := c.bus.Write(cmd[:])
	if err != nil {
		return fmt.Errorf("codec: write reg %d: %w", reg, err)
	}
	if n != len(cmd) {
		return fmt.Errorf("codec: write reg %d: short ack (%d bytes)", reg, n)
	}
	return nil
}

func (c *Controller) writeRegs(rv ...[2]uint16) error {
	for _, w := range rv {
		if err := c.writeReg(uint8(w[0]), w[1]); err != nil {
			return err
		}
	}
	return nil
}

// Probe runs the full bring-up sequence and aborts at the first write
// that fails to acknowledge, leaving the device state undefined; retry
// from scratch, never mid-sequence.
func (c *Controller) Probe() error {
	// software reset, all registers to defaults.
	if err := c.writeReg(regReset, 0x000); err != nil {
		return err
	}

	// power management and mixers, conditioned on the capabilities.
	power1, power2, power3 := uint16(power1Out), uint16(power2Min), uint16(0)
	if c.in {
		power1 = power1InOut
		power3 |= power3InMix
	}
	if c.out {
		power2 = power2Out
		power3 |= power3OutMix
	}
	if err := c.writeRegs(
		[2]uint16{regPower1, power1},
		[2]uint16{regPower2, power2},
		[2]uint16{regPower3, power3},
	); err != nil {
		return err
	}

	// clock source and PLL multipliers for the requested rate.
	cfg, ok := pllRates[c.sampleRate]
	if !ok {
		return fmt.Errorf("codec: unsupported sample rate %d", c.sampleRate)
	}
	if err := c.writeRegs(
		[2]uint16{regClocking1, clockingPLL},
		[2]uint16{regPLLN, cfg.n},
		[2]uint16{regPLLK1, cfg.k1},
		[2]uint16{regPLLK2, cfg.k2},
		[2]uint16{regPLLK3, cfg.k3},
	); err != nil {
		return err
	}

	// ADC/DAC control, interface format, noise gate.
	if err := c.writeRegs(
		[2]uint16{regADCDACCtl, 0x000},
		[2]uint16{regIface1, ifaceI2S},
		[2]uint16{regNoiseGate, noiseGateOn},
	); err != nil {
		return err
	}

	// bring-up volumes: headphone, speaker, speaker boost, then the
	// cached input PGA volumes with the update flag.
	if err := c.writeRegs(
		[2]uint16{regLOut1Vol, outVol0dB},
		[2]uint16{regROut1Vol, outVol0dB},
		[2]uint16{regLOut2Vol, outVol0dB},
		[2]uint16{regROut2Vol, outVol0dB},
		[2]uint16{regClassD3, classD3Boost},
		[2]uint16{regLInVol, volUpdate | uint16(c.inVolume[0])},
		[2]uint16{regRInVol, volUpdate | uint16(c.inVolume[1])},
	); err != nil {
		return err
	}

	// signal path routing: line inputs 3 into the boost mixer at the
	// lowest gain with the PGA path disconnected, speakers on, DACs
	// into the output mixers.
	return c.writeRegs(
		[2]uint16{regLADCPath, 0x000},
		[2]uint16{regRADCPath, 0x000},
		[2]uint16{regBoost1, boostLine3},
		[2]uint16{regBoost2, boostLine3},
		[2]uint16{regClassD1, classDOn},
		[2]uint16{regLOutMix, dacToMix},
		[2]uint16{regROutMix, dacToMix},
	)
}

// EnableJack enables a jack. Only the speaker has an independent
// enable; every other jack is permanently enabled, so enabling is a
// successful no-op.
func (c *Controller) EnableJack(jack Jack) error {
	switch jack {
	case JackSpeaker:
		return c.writeReg(regClassD1, classDOn)
	case JackDefaultOut, JackLineOut, JackHeadphone, JackDefaultIn, JackMicrophone:
		return nil
	}
	return ErrUnsupported
}

// DisableJack disables a jack. Only the speaker can be disabled.
func (c *Controller) DisableJack(jack Jack) error {
	if jack == JackSpeaker {
		return c.writeReg(regClassD1, classDOff)
	}
	return ErrUnsupported
}

// GetControlInfo reports whether a control exists for the jack and
// channel, and its accepted range. A pure lookup, no bus traffic.
func (c *Controller) GetControlInfo(control Control, jack Jack, channel Channel) ControlInfo {
	switch control {
	case ControlMute:
		if jack.isInput() {
			return ControlInfo{true, 0, 1}
		}
	case ControlVolume:
		if jack.isInput() {
			return ControlInfo{true, -17, 30}
		}
		return ControlInfo{true, -73, 6}
	case ControlALC:
		if jack.isInput() && channel == ChannelAll {
			return ControlInfo{true, 0, 1}
		}
	}
	return ControlInfo{}
}

// SetControl validates value against the same ranges GetControlInfo
// reports and writes the relevant registers. Multi-register operations
// are all-or-nothing per call but are not rolled back on a mid-call
// bus failure.
func (c *Controller) SetControl(control Control, jack Jack, channel Channel, value int) error {
	switch control {
	case ControlMute:
		if !jack.isInput() {
			return ErrUnsupported
		}
		return c.setInputMute(channel, value != 0)

	case ControlVolume:
		if jack.isInput() {
			return c.setInputVolume(channel, value)
		}
		return c.setOutputVolume(jack, channel, value)

	case ControlALC:
		if !jack.isInput() || channel != ChannelAll {
			return ErrUnsupported
		}
		return c.setALC(value != 0)
	}
	return ErrUnsupported
}

func (c *Controller) setInputMute(channel Channel, mute bool) error {
	for _, ch := range channels(channel) {
		c.inVolume[ch] &= 0x3F
		if mute {
			c.inVolume[ch] |= 0x80
		}
		if err := c.writeReg(regLInVol+uint8(ch), volUpdate|uint16(c.inVolume[ch])); err != nil {
			return err
		}
	}
	return nil
}

func (c *Controller) setInputVolume(channel Channel, dB int) error {
	if dB < -17 || dB > 30 {
		return ErrRange
	}
	code := uint8((dB + 17) * 100 / 75)
	for _, ch := range channels(channel) {
		c.inVolume[ch] &= 0x80
		c.inVolume[ch] |= code
		if err := c.writeReg(regLInVol+uint8(ch), volUpdate|uint16(c.inVolume[ch])); err != nil {
			return err
		}
	}
	return nil
}

func (c *Controller) setOutputVolume(jack Jack, channel Channel, dB int) error {
	if dB < -73 || dB > 6 {
		return ErrRange
	}
	code := uint16(dB+73) + 0x30
	regL := uint8(regLOut1Vol)
	if jack == JackSpeaker {
		regL = regLOut2Vol
	}
	for _, ch := range channels(channel) {
		if err := c.writeReg(regL+uint8(ch), volUpdate|code); err != nil {
			return err
		}
	}
	return nil
}

func (c *Controller) setALC(on bool) error {
	if !on {
		return c.writeReg(regALC1, alcOff)
	}
	// the hardware ALC needs both channels to start from the same
	// gain, so sync the right channel to the left first.
	c.inVolume[1] = c.inVolume[0]
	if err := c.writeReg(regRInVol, volUpdate|uint16(c.inVolume[1])); err != nil {
		return err
	}
	return c.writeReg(regALC1, alcOn)
}

func channels(c Channel) []int {
	switch c {
	case ChannelLeft:
		return []int{0}
	case ChannelRight:
		return []int{1}
	default:
		return []int{0, 1}
	}
}
