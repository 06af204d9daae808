package rtc8564

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidTime is matched by every FieldError.
var ErrInvalidTime = errors.New("rtc8564: invalid time")

// Time is the content of the clock/calendar registers, decoded. Year counts from 2000.
type Time struct {
	Year    uint8
	Month   uint8
	Day     uint8
	Weekday uint8 // 0 is Sunday
	Hour    uint8
	Minute  uint8
	Second  uint8
}

// FieldError reports a time field outside of its valid range. For a value read from the clock it means the read was
// corrupted or the clock was never set.
type FieldError struct {
	Field string
	Value uint8
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("rtc8564: invalid %s %d", e.Field, e.Value)
}

func (e *FieldError) Is(target error) bool {
	return target == ErrInvalidTime
}

type field struct {
	name     string
	min, max uint8
}

var (
	fSecond  = field{"second", 0, 59}
	fMinute  = field{"minute", 0, 59}
	fHour    = field{"hour", 0, 23}
	fDay     = field{"day", 1, 31}
	fWeekday = field{"weekday", 0, 6}
	fMonth   = field{"month", 1, 12}
	fYear    = field{"year", 0, 99}
)

func (f field) check(v uint8) error {
	if v < f.min || v > f.max {
		return &FieldError{Field: f.name, Value: v}
	}
	return nil
}

// Validate returns a *FieldError for the first field out of range, in register order.
func (t Time) Validate() error {
	for _, c := range []struct {
		f field
		v uint8
	}{
		{fSecond, t.Second},
		{fMinute, t.Minute},
		{fHour, t.Hour},
		{fDay, t.Day},
		{fWeekday, t.Weekday},
		{fMonth, t.Month},
		{fYear, t.Year},
	} {
		if err := c.f.check(c.v); err != nil {
			return err
		}
	}
	return nil
}

// String formats t as YY/MM/DD HH:MM:SS.
func (t Time) String() string {
	return fmt.Sprintf("%02d/%02d/%02d %02d:%02d:%02d", t.Year, t.Month, t.Day, t.Hour, t.Minute, t.Second)
}

// Format returns the report line for t, without line break.
func Format(t Time) string {
	return "Time: " + t.String()
}

// FromTime converts t. Years outside 2000-2099 produce an invalid Time.
func FromTime(t time.Time) Time {
	year := t.Year() - 2000
	if year < 0 || year > 99 {
		// out of range on purpose so Validate catches it
		year = 0xFF
	}
	return Time{
		Year:    uint8(year),
		Month:   uint8(t.Month()),
		Day:     uint8(t.Day()),
		Weekday: uint8(t.Weekday()),
		Hour:    uint8(t.Hour()),
		Minute:  uint8(t.Minute()),
		Second:  uint8(t.Second()),
	}
}

// ToTime converts t to a UTC time.Time. The weekday is ignored.
func (t Time) ToTime() time.Time {
	return time.Date(2000+int(t.Year), time.Month(t.Month), int(t.Day), int(t.Hour), int(t.Minute), int(t.Second), 0, time.UTC)
}
