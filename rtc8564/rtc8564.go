// Package rtc8564 implements a driver for the Epson RTC-8564NB Real-Time Clock (RTC): setting the clock together with
// its alarm, and reading the time back along with the alarm and voltage-low flags. The countdown timer and the CLKOUT
// output are switched off.
//
// The chip auto-increments its register pointer over a transaction, so every access is a single bus transaction that
// selects the first register and then streams the following ones.
//
// Datasheet: https://www5.epsondevice.com/en/products/rtc/rtc8564nb.html
package rtc8564

import (
	"fmt"

	"github.com/ajanata/rtc8564/bcd"
	"github.com/ajanata/rtc8564/bus"
)

// InitOps is the number of operations in the configuration transaction.
const InitOps = 17

// PollOps is the number of operations in the polling transaction.
const PollOps = 9

type Device struct {
	bus     bus.Transactor
	Address uint8
}

// Reading is the result of one poll.
type Reading struct {
	Time Time
	// AlarmFlag is set once the alarm matched, until cleared.
	AlarmFlag bool
	// VoltageLow is set when the clock lost power and its time cannot be trusted.
	VoltageLow bool
}

func New(b bus.Transactor) *Device {
	return &Device{
		bus:     b,
		Address: Address,
	}
}

// ConfigureOps returns the transaction setting the clock to t and the alarm to a: the control registers (alarm
// interrupt output on), the seven time registers, the four alarm registers and the timer registers (off), each as its
// own single byte write.
func ConfigureOps(t Time, a Alarm) ([]bus.Operation, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}

	alarm := a.registers()
	regs := [InitOps]byte{
		Control1, // register address
		0,        // control register 1: clock running, test modes off
		AIE,      // control register 2
		bcd.Encode(t.Second),
		bcd.Encode(t.Minute),
		bcd.Encode(t.Hour),
		bcd.Encode(t.Day),
		bcd.Encode(t.Weekday),
		bcd.Encode(t.Month),
		bcd.Encode(t.Year),
		alarm[0],
		alarm[1],
		alarm[2],
		alarm[3],
		0, // CLKOUT
		0, // timer control
		0, // timer
	}
	ops := make([]bus.Operation, len(regs))
	for i := range regs {
		ops[i] = bus.Write(regs[i])
	}
	return ops, nil
}

// Configure sets the clock to t and the alarm to a in one transaction.
func (d *Device) Configure(t Time, a Alarm) error {
	ops, err := ConfigureOps(t, a)
	if err != nil {
		return err
	}
	err = d.bus.Exec(d.Address, ops)
	if err != nil {
		return fmt.Errorf("rtc8564: could not configure clock: %w", err)
	}
	return nil
}

// ReadOps returns the transaction reading control register 2 and the seven time registers into buf, one byte per
// operation.
func ReadOps(buf *[8]byte) []bus.Operation {
	ops := make([]bus.Operation, 0, PollOps)
	ops = append(ops, bus.Write(Control2))
	for i := range buf {
		ops = append(ops, bus.Read(buf[i:i+1]))
	}
	return ops
}

// Decode interprets the eight bytes read by ReadOps. The returned error matches ErrInvalidTime when a field is out of
// range; the reading is returned regardless.
func Decode(buf [8]byte) (Reading, error) {
	r := Reading{
		AlarmFlag:  buf[0]&AF != 0,
		VoltageLow: buf[1]&VL != 0,
		Time: Time{
			Second:  bcd.Decode(buf[1] & secondsMask),
			Minute:  bcd.Decode(buf[2] & minutesMask),
			Hour:    bcd.Decode(buf[3] & hoursMask),
			Day:     bcd.Decode(buf[4] & daysMask),
			Weekday: bcd.Decode(buf[5] & weekdayMask),
			Month:   bcd.Decode(buf[6] & monthsMask),
			Year:    bcd.Decode(buf[7]),
		},
	}
	return r, r.Time.Validate()
}

// Read reads the current time and flags.
func (d *Device) Read() (Reading, error) {
	var buf [8]byte
	err := d.bus.Exec(d.Address, ReadOps(&buf))
	if err != nil {
		return Reading{}, fmt.Errorf("rtc8564: could not read clock: %w", err)
	}
	return Decode(buf)
}

// Now reads the current time.
func (d *Device) Now() (Time, error) {
	r, err := d.Read()
	return r.Time, err
}

// ClearAlarm clears the alarm flag, leaving the alarm interrupt output enabled.
func (d *Device) ClearAlarm() error {
	err := d.bus.Exec(d.Address, []bus.Operation{bus.Write(Control2), bus.Write(AIE)})
	if err != nil {
		return fmt.Errorf("rtc8564: could not clear alarm: %w", err)
	}
	return nil
}
