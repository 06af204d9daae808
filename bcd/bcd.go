// Package bcd converts between decimal values and packed binary-coded decimal, the format real-time clocks use for
// their time registers: one decimal digit per nibble, tens in the high nibble.
package bcd

// Max is the largest value a single packed BCD byte can hold.
const Max = 99

// Decode converts a packed BCD byte to its decimal value. Flag bits sharing the byte must be masked off by the caller;
// a malformed byte decodes to whatever its nibbles add up to.
func Decode(b byte) uint8 {
	return (b>>4)*10 + b&0x0F
}

// Encode converts d to a packed BCD byte. It panics if d is larger than Max.
func Encode(d uint8) byte {
	if d > Max {
		panic("bcd: value out of range")
	}
	return (d/10)<<4 | d%10
}

// Valid reports whether both nibbles of b are decimal digits.
func Valid(b byte) bool {
	return b>>4 <= 9 && b&0x0F <= 9
}
