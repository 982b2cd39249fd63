package gps

import (
	"fmt"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// i2cBus reads raw receiver output from a u-blox module on I2C. The module
// streams its message buffer out of the data register; an empty buffer reads
// back as 0xFF filler, which the frame assembler discards as noise.
type i2cBus struct {
	bus i2c.BusCloser
	dev i2c.Dev
}

// OpenI2C opens the named I2C bus ("" or "1" for the Raspberry Pi default)
// and addresses the receiver, 0x42 unless reconfigured.
func OpenI2C(busName string, addr uint16) (ChunkReader, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("periph host init: %w", err)
	}
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", busName, err)
	}
	return &i2cBus{
		bus: bus,
		dev: i2c.Dev{Bus: bus, Addr: addr},
	}, nil
}

func (b *i2cBus) ReadChunk(max int) ([]byte, error) {
	buf := make([]byte, max)
	if err := b.dev.Tx(nil, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func (b *i2cBus) Close() error {
	return b.bus.Close()
}
