// Package gf256 implements arithmetic in GF(2^8) over a caller-chosen
// reduction polynomial.
//
// Elements are bytes interpreted as polynomials over GF(2). A reduction
// polynomial is a degree-8 polynomial stored as a 9-bit integer with the x^8
// coefficient set (0x11B is the Rijndael field x^8 + x^4 + x^3 + x + 1).
// The arithmetic itself never fails: a polynomial that does not define a field
// simply yields a structure without inverses, which callers reject through
// Validate or a downstream bijectivity check.
package gf256

import "fmt"

// Polynomial is a degree-8 reduction polynomial with the implicit x^8 bit set.
type Polynomial uint16

const (
	// AES is the Rijndael reduction polynomial x^8 + x^4 + x^3 + x + 1.
	AES Polynomial = 0x11B

	// FieldSize is the number of elements in GF(2^8).
	FieldSize = 256

	// degreeBit is the x^8 coefficient every reduction polynomial carries.
	degreeBit = 0x100
)

// Low returns the low 8 bits that are XORed in when a product overflows x^7.
func (p Polynomial) Low() byte {
	return byte(p & 0xFF)
}

// String renders the polynomial as 0x1xx.
func (p Polynomial) String() string {
	return fmt.Sprintf("0x%03x", uint16(p))
}

// Add adds two field elements. Addition in GF(2^n) is XOR.
func Add(a, b byte) byte {
	return a ^ b
}

// Multiply multiplies a and b modulo p using shift-and-add.
// a is doubled once per bit of b (low bit first); whenever the doubling
// carries out of bit 7 the low byte of p is folded back in.
func Multiply(a, b byte, p Polynomial) byte {
	low := p.Low()

	var product byte
	for i := 0; i < 8; i++ {
		if b&1 == 1 {
			product ^= a
		}
		carry := a & 0x80
		a <<= 1
		if carry != 0 {
			a ^= low
		}
		b >>= 1
	}
	return product
}

// Double multiplies a by x modulo p.
func Double(a byte, p Polynomial) byte {
	if a&0x80 == 0 {
		return a << 1
	}
	return (a << 1) ^ p.Low()
}
