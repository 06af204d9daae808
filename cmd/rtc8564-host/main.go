//go:build linux && !tinygo

// Command rtc8564-host runs the clock monitor on a Linux host with an RTC-8564 wired to one of its I2C adapters, for
// instance a Raspberry Pi. Reports go to stdout and, optionally, to an MQTT topic.
//
// Usage:
//
//	rtc8564-host -bus 1 -args "-time '22/07/19 18:29:00' -alarm-minute 30"
//	rtc8564-host -broker tcp://localhost:1883 -topic home/clock
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/go-daq/smbus"

	"github.com/ajanata/rtc8564/bus"
	"github.com/ajanata/rtc8564/monitor"
	"github.com/ajanata/rtc8564/report"
	"github.com/ajanata/rtc8564/rtc8564"
)

func main() {
	log.SetPrefix("rtc8564-host: ")
	log.SetFlags(0)

	var (
		adapter = flag.Int("bus", 1, "I2C adapter number (/dev/i2c-N)")
		broker  = flag.String("broker", "", "MQTT broker URL to publish reports to")
		topic   = flag.String("topic", "rtc8564/time", "MQTT topic")
		args    = flag.String("args", "", "clock arguments (-time, -alarm-minute, -period, ...)")
	)
	flag.Parse()

	err := run(*adapter, *broker, *topic, *args)
	if err != nil {
		log.Fatalf("%+v", err)
	}
}

func run(adapter int, broker, topic, args string) error {
	cfg, err := monitor.ParseArgs(args)
	if err != nil {
		return err
	}
	cfg.Logger = log.New(os.Stderr, "rtc8564-host: ", 0)

	conn, err := smbus.Open(adapter, rtc8564.Address)
	if err != nil {
		return fmt.Errorf("could not open i2c adapter %d: %w", adapter, err)
	}
	defer conn.Close()

	var out io.Writer = os.Stdout
	if broker != "" {
		p, err := report.DialPaho(broker, "rtc8564-host", topic)
		if err != nil {
			return err
		}
		defer p.Close()
		out = report.Tee(os.Stdout, p)
	}

	m := monitor.New(rtc8564.New(bus.NewSMBus(conn)), out)
	m.Configure(cfg)
	return m.Run()
}
