package rtc8564

import (
	"github.com/ajanata/rtc8564/bcd"
)

// AlarmMatch selects the alarm fields compared against the clock. The alarm fires when all selected fields match.
type AlarmMatch uint8

const (
	MatchMinute AlarmMatch = 1 << iota
	MatchHour
	MatchDay
	MatchWeekday
)

// Alarm is the content of the alarm registers. Fields not selected by Match are written with AE set and their value
// is ignored.
type Alarm struct {
	Minute  uint8
	Hour    uint8
	Day     uint8
	Weekday uint8
	Match   AlarmMatch
}

// AlarmAtMinute fires once an hour, when the minutes reach minute.
func AlarmAtMinute(minute uint8) Alarm {
	return Alarm{Minute: minute, Match: MatchMinute}
}

// Validate checks the selected fields.
func (a Alarm) Validate() error {
	for _, c := range []struct {
		m AlarmMatch
		f field
		v uint8
	}{
		{MatchMinute, fMinute, a.Minute},
		{MatchHour, fHour, a.Hour},
		{MatchDay, fDay, a.Day},
		{MatchWeekday, fWeekday, a.Weekday},
	} {
		if a.Match&c.m == 0 {
			continue
		}
		if err := c.f.check(c.v); err != nil {
			return err
		}
	}
	return nil
}

// registers returns the four alarm register values, minute first.
func (a Alarm) registers() [4]byte {
	enc := func(m AlarmMatch, v uint8) byte {
		if a.Match&m == 0 {
			return AE
		}
		return bcd.Encode(v)
	}
	return [4]byte{
		enc(MatchMinute, a.Minute),
		enc(MatchHour, a.Hour),
		enc(MatchDay, a.Day),
		enc(MatchWeekday, a.Weekday),
	}
}
