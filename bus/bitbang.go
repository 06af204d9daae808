package bus

// Master drives the two lines of an I2C bus at the byte level. Start is also used for repeated starts.
type Master interface {
	Start() error
	Stop() error
	// WriteByte shifts b out and returns ErrNack if the peripheral did not acknowledge it.
	WriteByte(b byte) error
	// ReadByte shifts a byte in and acknowledges it if ack is set.
	ReadByte(ack bool) (byte, error)
}

// BitBang executes transactions by driving a Master directly, so every transaction goes out as one start condition,
// the operations in order and one stop condition, whatever their layout.
type BitBang struct {
	m Master
}

// NewBitBang creates a transactor on top of m.
func NewBitBang(m Master) *BitBang {
	return &BitBang{m: m}
}

func (b *BitBang) Exec(addr uint8, ops []Operation) (err error) {
	err = b.m.Start()
	if err != nil {
		return &Error{Addr: addr, Err: err}
	}
	defer func() {
		// always release the bus, even after a failed byte
		serr := b.m.Stop()
		if err == nil && serr != nil {
			err = &Error{Addr: addr, Err: serr}
		}
	}()

	addressed := false
	reading := false
	for i, op := range ops {
		// empty operations put nothing on the wire and do not split runs
		if len(op.Buf) == 0 {
			continue
		}
		if !addressed || op.Read != reading {
			if addressed {
				err = b.m.Start()
				if err != nil {
					return &Error{Addr: addr, Err: err}
				}
			}
			err = b.address(addr, op.Read)
			if err != nil {
				return err
			}
			addressed = true
			reading = op.Read
		}

		if !op.Read {
			for _, c := range op.Buf {
				err = b.m.WriteByte(c)
				if err != nil {
					return &Error{Addr: addr, Err: err}
				}
			}
			continue
		}

		// the last byte of a read run is not acknowledged so the peripheral releases the data line
		last := lastRead(ops[i+1:])
		for j := range op.Buf {
			ack := !(last && j == len(op.Buf)-1)
			op.Buf[j], err = b.m.ReadByte(ack)
			if err != nil {
				return &Error{Addr: addr, Err: err}
			}
		}
	}
	if !addressed {
		// address probe
		return b.address(addr, false)
	}
	return nil
}

// lastRead reports whether no read byte follows in the current read run, given the operations after it.
func lastRead(rest []Operation) bool {
	for _, op := range rest {
		if len(op.Buf) > 0 {
			return !op.Read
		}
	}
	return true
}

func (b *BitBang) address(addr uint8, read bool) error {
	c := addr << 1
	if read {
		c |= 1
	}
	err := b.m.WriteByte(c)
	if err != nil {
		return &Error{Addr: addr, Err: err}
	}
	return nil
}
