package gf256

import "math/bits"

// Inverter computes multiplicative inverses in GF(2^8).
// Every implementation maps 0 to 0 and must agree with every other
// implementation on all 256 inputs for any polynomial.
type Inverter interface {
	Invert(a byte, p Polynomial) byte
}

// Compile-time interface checks
var (
	_ Inverter = Euclid{}
	_ Inverter = BruteForce{}
)

// Euclid inverts with the extended Euclidean algorithm on polynomials.
// It is the production strategy.
type Euclid struct{}

// Invert returns a^-1 mod p, or 0 when a is 0 or has no inverse modulo p.
func (Euclid) Invert(a byte, p Polynomial) byte {
	if a == 0 {
		return 0
	}

	r0, r1 := uint16(p), uint16(a)
	t0, t1 := uint16(0), uint16(1)
	for r1 != 0 {
		q, r := polyDivMod(r0, r1)
		r0, r1 = r1, r
		t0, t1 = t1, t0^clmul(q, t1)
	}

	// gcd(a, p) != 1 only happens for reducible p
	if r0 != 1 {
		return 0
	}
	_, t0 = polyDivMod(t0, uint16(p))
	return byte(t0)
}

// BruteForce inverts by scanning every candidate b until a*b == 1.
// It is kept as a test oracle for Euclid.
type BruteForce struct{}

// Invert returns a^-1 mod p, or 0 when a is 0 or has no inverse modulo p.
func (BruteForce) Invert(a byte, p Polynomial) byte {
	if a == 0 {
		return 0
	}
	for i := 1; i < FieldSize; i++ {
		if Multiply(a, byte(i), p) == 1 {
			return byte(i)
		}
	}
	return 0
}

// Invert returns the multiplicative inverse of a modulo p using Euclid.
// Invert(0, p) is 0 by the AES convention.
func Invert(a byte, p Polynomial) byte {
	return Euclid{}.Invert(a, p)
}

// InverseTable returns the inverse of every field element modulo p.
func InverseTable(p Polynomial, inv Inverter) [FieldSize]byte {
	if inv == nil {
		inv = Euclid{}
	}

	var table [FieldSize]byte
	for x := 1; x < FieldSize; x++ {
		table[x] = inv.Invert(byte(x), p)
	}
	return table
}

// degree returns the degree of a polynomial, or -1 for the zero polynomial.
func degree(a uint16) int {
	return bits.Len16(a) - 1
}

// clmul multiplies two polynomials over GF(2) without reduction.
// Callers keep the product within 16 bits.
func clmul(a, b uint16) uint16 {
	var product uint16
	for b != 0 {
		if b&1 == 1 {
			product ^= a
		}
		a <<= 1
		b >>= 1
	}
	return product
}

// polyDivMod divides a by b over GF(2), returning quotient and remainder.
func polyDivMod(a, b uint16) (uint16, uint16) {
	if b == 0 {
		return 0, a
	}

	db := degree(b)
	var q uint16
	for da := degree(a); da >= db; da = degree(a) {
		shift := da - db
		q ^= 1 << shift
		a ^= b << shift
	}
	return q, a
}
