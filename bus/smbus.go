//go:build linux && !tinygo

package bus

import (
	"errors"

	"github.com/go-daq/smbus"
)

var errNoRegister = errors.New("bus: smbus read before register select")

type regConn interface {
	ReadReg(addr, reg uint8) (uint8, error)
	WriteReg(addr, reg, v uint8) error
}

// SMBus executes transactions through a Linux SMBus adapter (/dev/i2c-N) one register at a time.
//
// SMBus has no notion of a free-form transaction, so the register pointer the peripheral would auto-increment is
// tracked here instead: the first byte written after a start or a direction change selects the register, every
// following byte read or written moves it forward by one. Transactions are therefore not atomic; a clock may carry
// between two reads.
type SMBus struct {
	conn regConn
}

// NewSMBus wraps an open SMBus connection.
func NewSMBus(conn *smbus.Conn) *SMBus {
	return &SMBus{conn: conn}
}

func (b *SMBus) Exec(addr uint8, ops []Operation) error {
	var (
		reg      uint8
		selected = false
		reading  = false
	)
	for _, op := range ops {
		if op.Read != reading && !op.Read {
			// repeated start back into write mode: a new register select follows
			selected = false
		}
		reading = op.Read

		for i := range op.Buf {
			switch {
			case op.Read:
				if !selected {
					return &Error{Addr: addr, Err: errNoRegister}
				}
				v, err := b.conn.ReadReg(addr, reg)
				if err != nil {
					return &Error{Addr: addr, Err: err}
				}
				op.Buf[i] = v
				reg++
			case !selected:
				reg = op.Buf[i]
				selected = true
			default:
				err := b.conn.WriteReg(addr, reg, op.Buf[i])
				if err != nil {
					return &Error{Addr: addr, Err: err}
				}
				reg++
			}
		}
	}
	return nil
}
