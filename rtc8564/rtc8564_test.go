package rtc8564

import (
	"errors"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"tinygo.org/x/drivers/tester"

	"github.com/ajanata/rtc8564/bus"
)

var (
	demoTime  = Time{Year: 22, Month: 7, Day: 19, Weekday: 2, Hour: 18, Minute: 29, Second: 0}
	demoAlarm = AlarmAtMinute(30)
)

// fakeBus records transactions and fails them when err is set.
type fakeBus struct {
	txs [][]bus.Operation
	err error
}

func (f *fakeBus) Exec(addr uint8, ops []bus.Operation) error {
	f.txs = append(f.txs, ops)
	if f.err != nil {
		return &bus.Error{Addr: addr, Err: f.err}
	}
	return nil
}

func writes(ops []bus.Operation) []byte {
	var out []byte
	for _, op := range ops {
		if op.Read {
			return nil
		}
		if len(op.Buf) != 1 {
			return nil
		}
		out = append(out, op.Buf[0])
	}
	return out
}

func TestConfigureOps(t *testing.T) {
	c := qt.New(t)
	ops, err := ConfigureOps(demoTime, demoAlarm)
	c.Assert(err, qt.IsNil)
	c.Assert(ops, qt.HasLen, InitOps)
	c.Assert(writes(ops), qt.DeepEquals, []byte{
		0x00, 0x00, 0x02,
		0x00, 0x29, 0x18, 0x19, 0x02, 0x07, 0x22,
		0x30, 0x80, 0x80, 0x80,
		0x00, 0x00, 0x00,
	})
}

func TestConfigureOpsAllAlarmFields(t *testing.T) {
	c := qt.New(t)
	a := Alarm{Minute: 45, Hour: 7, Day: 31, Weekday: 6, Match: MatchMinute | MatchHour | MatchDay | MatchWeekday}
	ops, err := ConfigureOps(Time{Year: 99, Month: 12, Day: 31, Weekday: 5, Hour: 23, Minute: 59, Second: 59}, a)
	c.Assert(err, qt.IsNil)
	c.Assert(writes(ops)[3:14], qt.DeepEquals, []byte{
		0x59, 0x59, 0x23, 0x31, 0x05, 0x12, 0x99,
		0x45, 0x07, 0x31, 0x06,
	})
}

func TestConfigureOpsInvalid(t *testing.T) {
	c := qt.New(t)
	bad := demoTime
	bad.Month = 13
	_, err := ConfigureOps(bad, demoAlarm)
	c.Assert(err, qt.ErrorMatches, `rtc8564: invalid month 13`)
	c.Assert(errors.Is(err, ErrInvalidTime), qt.Equals, true)

	_, err = ConfigureOps(demoTime, AlarmAtMinute(60))
	c.Assert(err, qt.ErrorMatches, `rtc8564: invalid minute 60`)

	// unselected fields are not checked
	_, err = ConfigureOps(demoTime, Alarm{Minute: 1, Hour: 99, Match: MatchMinute})
	c.Assert(err, qt.IsNil)
}

func TestReadOps(t *testing.T) {
	c := qt.New(t)
	var buf [8]byte
	ops := ReadOps(&buf)
	c.Assert(ops, qt.HasLen, PollOps)
	c.Assert(ops[0], qt.DeepEquals, bus.Write(Control2))
	for i, op := range ops[1:] {
		c.Assert(op.Read, qt.Equals, true)
		c.Assert(op.Buf, qt.HasLen, 1)
		op.Buf[0] = byte(i + 1)
	}
	c.Assert(buf, qt.Equals, [8]byte{1, 2, 3, 4, 5, 6, 7, 8})
}

func TestDecode(t *testing.T) {
	c := qt.New(t)
	r, err := Decode([8]byte{AF | AIE, 0x00, 0x29, 0x18, 0x19, 0x02, 0x07, 0x22})
	c.Assert(err, qt.IsNil)
	c.Assert(r.Time, qt.Equals, demoTime)
	c.Assert(r.AlarmFlag, qt.Equals, true)
	c.Assert(r.VoltageLow, qt.Equals, false)
	c.Assert(Format(r.Time), qt.Equals, "Time: 22/07/19 18:29:00")
}

func TestDecodeMasksStatusBits(t *testing.T) {
	c := qt.New(t)
	// VL on seconds, unused bits on the rest, century flag on month
	r, err := Decode([8]byte{AIE, 0x80 | 0x45, 0x80 | 0x59, 0xC0 | 0x23, 0xC0 | 0x31, 0xF8 | 0x06, 0x80 | 0x12, 0x99})
	c.Assert(err, qt.IsNil)
	c.Assert(r.VoltageLow, qt.Equals, true)
	c.Assert(r.AlarmFlag, qt.Equals, false)
	c.Assert(r.Time, qt.Equals, Time{Year: 99, Month: 12, Day: 31, Weekday: 6, Hour: 23, Minute: 59, Second: 45})

	// bit 5 of the month register is outside the month mask
	r, err = Decode([8]byte{0, 0x00, 0x29, 0x18, 0x19, 0x02, 0x21, 0x22})
	c.Assert(err, qt.IsNil)
	c.Assert(r.Time.Month, qt.Equals, uint8(1))
}

func TestDecodeInvalid(t *testing.T) {
	c := qt.New(t)
	r, err := Decode([8]byte{0, 0x00, 0x29, 0x18, 0x00, 0x02, 0x07, 0x22})
	c.Assert(errors.Is(err, ErrInvalidTime), qt.Equals, true)
	var ferr *FieldError
	c.Assert(errors.As(err, &ferr), qt.Equals, true)
	c.Assert(ferr.Field, qt.Equals, "day")
	c.Assert(r.Time.Day, qt.Equals, uint8(0))

	_, err = Decode([8]byte{0, 0x00, 0x29, 0x18, 0x19, 0x02, 0x13, 0x22})
	c.Assert(err, qt.ErrorMatches, `rtc8564: invalid month 13`)

	_, err = Decode([8]byte{0, 0x7A, 0x29, 0x18, 0x19, 0x02, 0x07, 0x22})
	c.Assert(err, qt.ErrorMatches, `rtc8564: invalid second 80`)
}

func TestDevice(t *testing.T) {
	c := qt.New(t)
	i2c := tester.NewI2CBus(c)
	chip := tester.NewI2CDevice(c, Address)
	i2c.AddDevice(chip)

	d := New(bus.NewI2C(i2c))
	err := d.Configure(demoTime, demoAlarm)
	c.Assert(err, qt.IsNil)
	c.Assert(chip.Registers[:16], qt.DeepEquals, []uint8{
		0x00, 0x02, 0x00, 0x29, 0x18, 0x19, 0x02, 0x07,
		0x22, 0x30, 0x80, 0x80, 0x80, 0x00, 0x00, 0x00,
	})

	now, err := d.Now()
	c.Assert(err, qt.IsNil)
	c.Assert(now, qt.Equals, demoTime)

	// the clock ticks over to the alarm
	chip.Registers[Control2] |= AF
	chip.Registers[Minutes] = 0x30
	r, err := d.Read()
	c.Assert(err, qt.IsNil)
	c.Assert(r.AlarmFlag, qt.Equals, true)
	c.Assert(Format(r.Time), qt.Equals, "Time: 22/07/19 18:30:00")

	c.Assert(d.ClearAlarm(), qt.IsNil)
	c.Assert(chip.Registers[Control2], qt.Equals, uint8(AIE))
}

func TestDeviceTransportError(t *testing.T) {
	c := qt.New(t)
	fb := &fakeBus{err: errors.New("no acknowledge")}
	d := New(fb)

	err := d.Configure(demoTime, demoAlarm)
	c.Assert(err, qt.ErrorMatches, `rtc8564: could not configure clock: bus: transaction with 0x51 failed: no acknowledge`)
	var berr *bus.Error
	c.Assert(errors.As(err, &berr), qt.Equals, true)
	c.Assert(fb.txs, qt.HasLen, 1)

	_, err = d.Read()
	c.Assert(err, qt.ErrorMatches, `rtc8564: could not read clock: .*`)
	c.Assert(errors.Is(err, ErrInvalidTime), qt.Equals, false)
	c.Assert(fb.txs, qt.HasLen, 2)
}

func TestConfigureInvalidTouchesNothing(t *testing.T) {
	c := qt.New(t)
	fb := &fakeBus{}
	bad := demoTime
	bad.Hour = 24
	err := New(fb).Configure(bad, demoAlarm)
	c.Assert(err, qt.ErrorMatches, `rtc8564: invalid hour 24`)
	c.Assert(fb.txs, qt.HasLen, 0)
}

func TestTimeConversion(t *testing.T) {
	c := qt.New(t)
	tt := time.Date(2022, time.July, 19, 18, 29, 0, 0, time.UTC)
	c.Assert(FromTime(tt), qt.Equals, demoTime)
	c.Assert(demoTime.ToTime(), qt.DeepEquals, tt)

	c.Assert(FromTime(time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)).Validate(), qt.ErrorMatches, `rtc8564: invalid year 255`)
}
