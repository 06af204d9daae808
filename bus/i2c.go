package bus

import (
	"tinygo.org/x/drivers"
)

// I2C executes transactions on a bus implementing drivers.I2C, such as machine.I2C0.
//
// drivers.I2C only knows "write then read", so the operations are grouped: a run of writes is concatenated, a run of
// reads is filled from one buffer, and a write run directly followed by a read run becomes a single Tx with a
// repeated start. Transactions that alternate more often than that are split over several Tx calls.
type I2C struct {
	bus  drivers.I2C
	wbuf []byte
	rbuf []byte
}

// NewI2C wraps an already configured I2C bus.
func NewI2C(bus drivers.I2C) *I2C {
	return &I2C{bus: bus}
}

func (b *I2C) Exec(addr uint8, ops []Operation) error {
	if len(ops) == 0 {
		// address probe
		return b.tx(addr, nil, nil)
	}

	for i := 0; i < len(ops); {
		b.wbuf = b.wbuf[:0]
		for ; i < len(ops) && !ops[i].Read; i++ {
			b.wbuf = append(b.wbuf, ops[i].Buf...)
		}

		start := i
		n := 0
		for ; i < len(ops) && ops[i].Read; i++ {
			n += len(ops[i].Buf)
		}
		reads := ops[start:i]

		var r []byte
		switch len(reads) {
		case 0:
		case 1:
			// read straight into the caller's buffer
			r = reads[0].Buf
		default:
			if cap(b.rbuf) < n {
				b.rbuf = make([]byte, n)
			}
			r = b.rbuf[:n]
		}

		err := b.tx(addr, b.wbuf, r)
		if err != nil {
			return err
		}

		if len(reads) > 1 {
			for _, op := range reads {
				r = r[copy(op.Buf, r):]
			}
		}
	}
	return nil
}

func (b *I2C) tx(addr uint8, w, r []byte) error {
	if len(w) == 0 {
		w = nil
	}
	err := b.bus.Tx(uint16(addr), w, r)
	if err != nil {
		return &Error{Addr: addr, Err: err}
	}
	return nil
}
