package monitor

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/google/shlex"

	"github.com/ajanata/rtc8564/rtc8564"
)

// TimeLayout is the layout of the -time argument.
const TimeLayout = "06/01/02 15:04:05"

// ParseArgs parses a shell-like argument string into a Config. Firmware has no command line, so the string is usually
// baked in at link time. The defaults are DefaultTime and DefaultAlarm. Recognized flags:
//
//	-time "YY/MM/DD HH:MM:SS"  initial time
//	-weekday N                 weekday, 0 is Sunday (computed from -time if negative)
//	-alarm-minute N            alarm minute (ignored if negative)
//	-alarm-hour N              alarm hour (ignored if negative)
//	-alarm-day N               alarm day (ignored if negative)
//	-alarm-weekday N           alarm weekday (ignored if negative)
//	-period D                  time between reports
//	-retries N                 extra attempts for a failed poll
//	-clear-alarm               clear the alarm flag once reported
func ParseArgs(s string) (Config, error) {
	args, err := shlex.Split(s)
	if err != nil {
		return Config{}, fmt.Errorf("monitor: could not split arguments %q: %w", s, err)
	}

	fs := flag.NewFlagSet("rtc8564", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var (
		now     = fs.String("time", DefaultTime.String(), "initial time")
		weekday = fs.Int("weekday", -1, "weekday, 0 is Sunday")
		aMinute = fs.Int("alarm-minute", int(DefaultAlarm.Minute), "alarm minute")
		aHour   = fs.Int("alarm-hour", -1, "alarm hour")
		aDay    = fs.Int("alarm-day", -1, "alarm day")
		aWDay   = fs.Int("alarm-weekday", -1, "alarm weekday")
		period  = fs.Duration("period", DefaultPeriod, "time between reports")
		retries = fs.Int("retries", 0, "extra attempts for a failed poll")
		clearAl = fs.Bool("clear-alarm", false, "clear the alarm flag")
	)
	err = fs.Parse(args)
	if err != nil {
		return Config{}, fmt.Errorf("monitor: could not parse arguments: %w", err)
	}
	if fs.NArg() > 0 {
		return Config{}, fmt.Errorf("monitor: unexpected arguments %q", fs.Args())
	}

	t, err := time.Parse(TimeLayout, *now)
	if err != nil {
		return Config{}, fmt.Errorf("monitor: invalid -time %q: %w", *now, err)
	}
	cfg := Config{
		Time:       rtc8564.FromTime(t),
		Period:     *period,
		Retries:    *retries,
		ClearAlarm: *clearAl,
	}
	if *weekday >= 0 {
		cfg.Time.Weekday = clamp8(*weekday)
	}
	if err := cfg.Time.Validate(); err != nil {
		return Config{}, fmt.Errorf("monitor: invalid initial time: %w", err)
	}

	for _, f := range []struct {
		v   int
		m   rtc8564.AlarmMatch
		dst *uint8
	}{
		{*aMinute, rtc8564.MatchMinute, &cfg.Alarm.Minute},
		{*aHour, rtc8564.MatchHour, &cfg.Alarm.Hour},
		{*aDay, rtc8564.MatchDay, &cfg.Alarm.Day},
		{*aWDay, rtc8564.MatchWeekday, &cfg.Alarm.Weekday},
	} {
		if f.v < 0 {
			continue
		}
		*f.dst = clamp8(f.v)
		cfg.Alarm.Match |= f.m
	}
	if err := cfg.Alarm.Validate(); err != nil {
		return Config{}, fmt.Errorf("monitor: invalid alarm: %w", err)
	}

	if cfg.Retries < 0 {
		return Config{}, fmt.Errorf("monitor: invalid -retries %d", cfg.Retries)
	}
	return cfg, nil
}

// clamp8 saturates v so out of range flags fail validation instead of wrapping around.
func clamp8(v int) uint8 {
	if v > 0xFF {
		return 0xFF
	}
	return uint8(v)
}
