package gf256

import (
	"strconv"
	"strings"

	forgeerr "github.com/mrz1836/sboxforge/pkg/errors"
)

// catalog lists all 30 irreducible degree-8 polynomials over GF(2).
//
//nolint:gochecknoglobals // fixed mathematical table
var catalog = [...]Polynomial{
	0x11b, 0x11d, 0x12b, 0x12d, 0x139, 0x13f, 0x14d, 0x15f, 0x163, 0x165,
	0x169, 0x171, 0x177, 0x17b, 0x187, 0x18b, 0x18d, 0x19f, 0x1a3, 0x1a9,
	0x1b1, 0x1bd, 0x1c3, 0x1cf, 0x1d7, 0x1dd, 0x1e7, 0x1f3, 0x1f5, 0x1f9,
}

// Catalog returns a fresh copy of the irreducible polynomial catalog in
// ascending order.
func Catalog() []Polynomial {
	out := make([]Polynomial, len(catalog))
	copy(out, catalog[:])
	return out
}

// InCatalog reports whether p is one of the catalog polynomials.
func InCatalog(p Polynomial) bool {
	for _, c := range catalog {
		if c == p {
			return true
		}
	}
	return false
}

// IsIrreducible reports whether p is an irreducible polynomial of degree 8.
// A reducible degree-8 polynomial always has a factor of degree 1 to 4, so
// trial division by every polynomial of degree 1 to 4 is sufficient.
func IsIrreducible(p Polynomial) bool {
	if degree(uint16(p)) != 8 {
		return false
	}
	for d := uint16(0x2); d < 0x20; d++ {
		if _, r := polyDivMod(uint16(p), d); r == 0 {
			return false
		}
	}
	return true
}

// Validate returns ErrInvalidPolynomial unless p defines GF(2^8).
func Validate(p Polynomial) error {
	if !IsIrreducible(p) {
		return forgeerr.WithDetails(forgeerr.ErrInvalidPolynomial, map[string]string{
			"polynomial": p.String(),
		})
	}
	return nil
}

// ParsePolynomial parses a polynomial written in hex, with or without the 0x
// prefix. Digits are always hex, so 100 is x^8 and not decimal 100. Values
// below 0x100 are read as the low byte with x^8 implied, so 0x1b means 0x11b.
// The result is not validated.
func ParsePolynomial(s string) (Polynomial, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	digits := strings.TrimPrefix(s, "0x")
	v, err := strconv.ParseUint(digits, 16, 16)
	if err != nil || digits == "" || v > 0x1FF {
		return 0, forgeerr.WithDetails(forgeerr.ErrInvalidPolynomial, map[string]string{
			"value": s,
		})
	}
	return Polynomial(v | degreeBit), nil
}
