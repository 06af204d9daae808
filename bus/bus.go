// Package bus describes I2C transactions as ordered lists of write and read operations, and executes them against a
// single peripheral on the kinds of buses a clock driver may sit behind: a TinyGo I2C peripheral, a bit-banged pair of
// GPIO pins, or a Linux SMBus adapter.
//
// A transaction is atomic from the peripheral's point of view: one start condition, the operations in order (a
// repeated start whenever the direction changes) and one stop condition. Adapters that cannot provide that say so.
package bus

import (
	"errors"
	"fmt"
)

var (
	// ErrNack is returned when the addressed peripheral does not acknowledge a byte.
	ErrNack = errors.New("bus: no acknowledge")
	// ErrTimeout is returned when a peripheral holds the clock line low for too long.
	ErrTimeout = errors.New("bus: timeout")
)

// Operation is a single step of a transaction: either write Buf to the peripheral, or fill Buf from it.
type Operation struct {
	Buf  []byte
	Read bool
}

// Write returns an operation writing buf.
func Write(buf ...byte) Operation {
	return Operation{Buf: buf}
}

// Read returns an operation filling buf.
func Read(buf []byte) Operation {
	return Operation{Buf: buf, Read: true}
}

// Transactor executes a transaction against the peripheral at the 7-bit address addr. It blocks until the
// transaction completed or failed.
type Transactor interface {
	Exec(addr uint8, ops []Operation) error
}

// Error is a transport failure.
type Error struct {
	Addr uint8
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("bus: transaction with %#02x failed: %v", e.Addr, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Len returns the number of bytes written and read by ops.
func Len(ops []Operation) (w, r int) {
	for _, op := range ops {
		if op.Read {
			r += len(op.Buf)
		} else {
			w += len(op.Buf)
		}
	}
	return w, r
}
