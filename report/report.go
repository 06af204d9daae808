// Package report holds the sinks the time reports can be sent to besides the serial console: a terminal on a
// display, and MQTT topics. Every sink is an io.Writer receiving one report line per Write.
package report

import (
	"bytes"
	"io"
)

type tee struct {
	ws []io.Writer
}

// Tee returns a writer duplicating each write to all of ws. Like the console itself it is best effort: an error from
// one writer is dropped and does not keep the line from the others.
func Tee(ws ...io.Writer) io.Writer {
	return &tee{ws: ws}
}

func (t *tee) Write(p []byte) (int, error) {
	for _, w := range t.ws {
		_, _ = w.Write(p)
	}
	return len(p), nil
}

// line strips the line break a report ends with.
func line(p []byte) []byte {
	return bytes.TrimRight(p, "\r\n")
}
