//go:build tinygo

package bus

import (
	"machine"
	"time"
)

// GPIO is a software I2C master on two general purpose pins. Lines are driven open-drain: a high level is produced by
// releasing the pin to its pull-up, a low level by driving it.
type GPIO struct {
	sda, scl machine.Pin
	half     time.Duration
	// how long a peripheral may stretch the clock
	stretch time.Duration
}

// NewGPIO creates a master on sda and scl clocked at frequency Hz. The datasheet of most clocks says 100 kHz.
func NewGPIO(sda, scl machine.Pin, frequency uint32) *GPIO {
	if frequency == 0 {
		frequency = 100 * machine.KHz
	}
	return &GPIO{
		sda:     sda,
		scl:     scl,
		half:    time.Second / time.Duration(2*frequency),
		stretch: time.Millisecond,
	}
}

// Configure releases both lines.
func (g *GPIO) Configure() {
	g.release(g.sda)
	g.release(g.scl)
}

func (g *GPIO) Start() error {
	g.release(g.sda)
	g.delay()
	err := g.clockHigh()
	if err != nil {
		return err
	}
	g.delay()
	g.drive(g.sda)
	g.delay()
	g.drive(g.scl)
	g.delay()
	return nil
}

func (g *GPIO) Stop() error {
	g.drive(g.sda)
	g.delay()
	err := g.clockHigh()
	if err != nil {
		return err
	}
	g.delay()
	g.release(g.sda)
	g.delay()
	return nil
}

func (g *GPIO) WriteByte(b byte) error {
	for i := 7; i >= 0; i-- {
		err := g.writeBit(b&(1<<i) != 0)
		if err != nil {
			return err
		}
	}
	nack, err := g.readBit()
	if err != nil {
		return err
	}
	if nack {
		return ErrNack
	}
	return nil
}

func (g *GPIO) ReadByte(ack bool) (byte, error) {
	var b byte
	for i := 0; i < 8; i++ {
		bit, err := g.readBit()
		if err != nil {
			return 0, err
		}
		b <<= 1
		if bit {
			b |= 1
		}
	}
	return b, g.writeBit(!ack)
}

func (g *GPIO) writeBit(high bool) error {
	if high {
		g.release(g.sda)
	} else {
		g.drive(g.sda)
	}
	g.delay()
	err := g.clockHigh()
	if err != nil {
		return err
	}
	g.delay()
	g.drive(g.scl)
	return nil
}

func (g *GPIO) readBit() (bool, error) {
	g.release(g.sda)
	g.delay()
	err := g.clockHigh()
	if err != nil {
		return false, err
	}
	g.delay()
	bit := g.sda.Get()
	g.drive(g.scl)
	return bit, nil
}

// clockHigh releases SCL and waits for peripherals stretching the clock.
func (g *GPIO) clockHigh() error {
	g.release(g.scl)
	for start := time.Now(); !g.scl.Get(); {
		if time.Since(start) > g.stretch {
			return ErrTimeout
		}
	}
	return nil
}

func (g *GPIO) release(p machine.Pin) {
	p.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
}

func (g *GPIO) drive(p machine.Pin) {
	// set the output latch first so the line never glitches high
	p.Low()
	p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	p.Low()
}

func (g *GPIO) delay() {
	time.Sleep(g.half)
}
