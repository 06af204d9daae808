// Package monitor runs a real-time clock: it sets the clock and its alarm once, then reads the clock at a fixed
// period and reports the time on a console.
//
// The monitor is a small state machine. It starts Initializing, moves to Polling once the clock is configured and
// stays there. A failure to configure the clock or a failed poll transaction moves it to Halted, after which it never
// touches the bus again.
package monitor

import (
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/ajanata/rtc8564/rtc8564"
)

// DefaultPeriod is the time between two reports.
const DefaultPeriod = 5000 * time.Millisecond

// DefaultTime and DefaultAlarm are the demonstration settings: 2022/07/19 18:29:00, a Tuesday, with the alarm going
// off at minute 30.
var (
	DefaultTime  = rtc8564.Time{Year: 22, Month: 7, Day: 19, Weekday: 2, Hour: 18, Minute: 29, Second: 0}
	DefaultAlarm = rtc8564.AlarmAtMinute(30)
)

var errNotInitialized = errors.New("monitor: poll before init")

// Clock is the part of a clock driver the monitor uses. It is implemented by *rtc8564.Device.
type Clock interface {
	Configure(t rtc8564.Time, a rtc8564.Alarm) error
	Read() (rtc8564.Reading, error)
	ClearAlarm() error
}

type State uint8

const (
	Initializing State = iota
	Polling
	Halted
)

func (s State) String() string {
	switch s {
	case Initializing:
		return "initializing"
	case Polling:
		return "polling"
	case Halted:
		return "halted"
	default:
		return fmt.Sprintf("State(%d)", uint8(s))
	}
}

type Config struct {
	// Time and Alarm are written to the clock by Init. When both are zero, DefaultTime and DefaultAlarm are used.
	Time  rtc8564.Time
	Alarm rtc8564.Alarm
	// Period between two polls, DefaultPeriod if zero.
	Period time.Duration
	// Retries is the number of extra attempts for a failed poll before halting. Init is never retried.
	Retries int
	// ClearAlarm clears the alarm flag whenever a poll finds it set.
	ClearAlarm bool
	// Logger receives diagnostics. Reports only go to the console.
	Logger *log.Logger
}

// HaltError is returned once the monitor halted. State is the state it failed in.
type HaltError struct {
	State State
	Err   error
}

func (e *HaltError) Error() string {
	return fmt.Sprintf("monitor: halted while %v: %v", e.State, e.Err)
}

func (e *HaltError) Unwrap() error {
	return e.Err
}

type Monitor struct {
	clock Clock
	out   io.Writer
	msg   *log.Logger
	cfg   Config
	state State
	err   error
	sleep func(time.Duration)
}

// New creates a monitor reporting on out. Write errors on out are ignored.
func New(clock Clock, out io.Writer) *Monitor {
	m := &Monitor{
		clock: clock,
		out:   out,
		sleep: time.Sleep,
	}
	m.Configure(Config{})
	return m
}

func (m *Monitor) Configure(c Config) {
	if c.Time == (rtc8564.Time{}) && c.Alarm == (rtc8564.Alarm{}) {
		c.Time = DefaultTime
		c.Alarm = DefaultAlarm
	}
	if c.Period <= 0 {
		c.Period = DefaultPeriod
	}
	if c.Retries < 0 {
		c.Retries = 0
	}
	m.msg = c.Logger
	if m.msg == nil {
		m.msg = log.New(io.Discard, "", 0)
	}
	m.cfg = c
}

func (m *Monitor) State() State {
	return m.state
}

// Err returns the error the monitor halted with, if any.
func (m *Monitor) Err() error {
	return m.err
}

func (m *Monitor) halt(err error) error {
	m.err = &HaltError{State: m.state, Err: err}
	m.state = Halted
	m.msg.Printf("%v", m.err)
	return m.err
}

// Init configures the clock. It does nothing once the monitor left the Initializing state.
func (m *Monitor) Init() error {
	switch m.state {
	case Halted:
		return m.err
	case Polling:
		return nil
	}

	err := m.clock.Configure(m.cfg.Time, m.cfg.Alarm)
	if err != nil {
		return m.halt(err)
	}
	m.msg.Printf("clock set to %v, alarm %+v", m.cfg.Time, m.cfg.Alarm)
	m.state = Polling
	return nil
}

// Poll reads the clock once and reports the time. A reading with fields out of range is not reported; its error is
// returned but the monitor keeps polling.
func (m *Monitor) Poll() error {
	switch m.state {
	case Halted:
		return m.err
	case Initializing:
		return errNotInitialized
	}

	var (
		r   rtc8564.Reading
		err error
	)
	for attempt := 0; attempt <= m.cfg.Retries; attempt++ {
		r, err = m.clock.Read()
		if err == nil || errors.Is(err, rtc8564.ErrInvalidTime) {
			break
		}
		if attempt < m.cfg.Retries {
			m.msg.Printf("poll failed, retrying (%d/%d): %v", attempt+1, m.cfg.Retries, err)
		}
	}
	switch {
	case errors.Is(err, rtc8564.ErrInvalidTime):
		m.msg.Printf("skipping report: %v", err)
		return err
	case err != nil:
		return m.halt(err)
	}

	_, _ = fmt.Fprintf(m.out, "%s\r\n", rtc8564.Format(r.Time))

	if r.VoltageLow {
		m.msg.Printf("clock reports low voltage, time may be wrong")
	}
	if r.AlarmFlag {
		m.msg.Printf("alarm")
		if m.cfg.ClearAlarm {
			err = m.clock.ClearAlarm()
			if err != nil {
				return m.halt(err)
			}
		}
	}
	return nil
}

// Run initializes the clock, then polls it forever. It only returns once the monitor halted.
func (m *Monitor) Run() error {
	err := m.Init()
	if err != nil {
		return err
	}
	for {
		_ = m.Poll()
		if m.state == Halted {
			return m.err
		}
		m.sleep(m.cfg.Period)
	}
}
