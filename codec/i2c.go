package codec

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// DefaultAddr is the WM8960's fixed two-wire address.
const DefaultAddr uint16 = 0x1A

// I2C is a Bus backed by a system I2C controller.
type I2C struct {
	bus i2c.BusCloser
	dev *i2c.Dev
}

var _ Bus = (*I2C)(nil)

// OpenI2C opens the named I2C bus ("" picks the first available) with
// the device address bound; pass 0 for the default address.
func OpenI2C(name string, addr uint16) (*I2C, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("codec: host init: %w", err)
	}
	bus, err := i2creg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("codec: open i2c %q: %w", name, err)
	}
	if addr == 0 {
		addr = DefaultAddr
	}
	return &I2C{bus: bus, dev: &i2c.Dev{Bus: bus, Addr: addr}}, nil
}

// Write sends one register command to the device.
func (b *I2C) Write(p []byte) (int, error) {
	return b.dev.Write(p)
}

// Close releases the underlying bus.
func (b *I2C) Close() error {
	return b.bus.Close()
}
