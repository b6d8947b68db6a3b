// Package search enumerates S-box parameters and keeps the strongest boxes.
package search

import (
	"strconv"
	"strings"

	"github.com/mrz1836/sboxforge/internal/gf256"
	"github.com/mrz1836/sboxforge/internal/sbox"
	forgeerr "github.com/mrz1836/sboxforge/pkg/errors"
)

// Space is the Cartesian product of polynomials, multipliers and affine
// constants. Index i enumerates it polynomial-major, then multiplier, then
// constant.
type Space struct {
	Polynomials []gf256.Polynomial `json:"polynomials"`
	Multipliers []byte             `json:"multipliers"`
	Constants   []byte             `json:"constants"`
}

// FullSpace returns every catalog polynomial, every nonzero multiplier and
// every affine constant.
func FullSpace() Space {
	return Space{
		Polynomials: gf256.Catalog(),
		Multipliers: byteRange(1, 255),
		Constants:   byteRange(0, 255),
	}
}

// Size returns the number of candidates in the space.
func (s Space) Size() int {
	return len(s.Polynomials) * len(s.Multipliers) * len(s.Constants)
}

// At returns the parameters of candidate i, 0 <= i < Size().
func (s Space) At(i int) sbox.Params {
	nc := len(s.Constants)
	nm := len(s.Multipliers)
	return sbox.Params{
		Polynomial: s.Polynomials[i/(nm*nc)],
		Multiplier: s.Multipliers[(i/nc)%nm],
		Constant:   s.Constants[i%nc],
	}
}

// Validate checks that every dimension is non-empty and every polynomial has
// degree 8. Reducible polynomials and a zero multiplier are allowed; their
// candidates are rejected during the search.
func (s Space) Validate() error {
	dims := []struct {
		name string
		size int
	}{
		{"polynomials", len(s.Polynomials)},
		{"multipliers", len(s.Multipliers)},
		{"constants", len(s.Constants)},
	}
	for _, d := range dims {
		if d.size == 0 {
			return forgeerr.WithDetails(forgeerr.ErrInvalidRange, map[string]string{d.name: "empty"})
		}
	}
	for _, p := range s.Polynomials {
		if p < 0x100 || p > 0x1FF {
			return forgeerr.WithDetails(forgeerr.ErrInvalidPolynomial, map[string]string{
				"polynomial": p.String(),
			})
		}
	}
	return nil
}

// ParseByteRange parses a comma separated list of bytes and inclusive
// ranges, such as "1-255", "0x63" or "1,2,0x10-0x1f". Values keep their first
// occurrence order; duplicates are dropped.
func ParseByteRange(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, rangeError(s)
	}

	var seen [256]bool
	var out []byte
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		lo, hi, isRange := strings.Cut(part, "-")

		first, err := parseByte(lo)
		if err != nil {
			return nil, rangeError(part)
		}
		last := first
		if isRange {
			if last, err = parseByte(hi); err != nil || last < first {
				return nil, rangeError(part)
			}
		}

		for v := int(first); v <= int(last); v++ {
			if !seen[v] {
				seen[v] = true
				out = append(out, byte(v))
			}
		}
	}
	return out, nil
}

// ParsePolynomials parses "all" (or an empty string) as the catalog, or a
// comma separated list of polynomials. Listed polynomials are not required
// to be irreducible.
func ParsePolynomials(s string) ([]gf256.Polynomial, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "all") {
		return gf256.Catalog(), nil
	}

	seen := make(map[gf256.Polynomial]bool)
	var out []gf256.Polynomial
	for _, part := range strings.Split(s, ",") {
		p, err := gf256.ParsePolynomial(part)
		if err != nil {
			return nil, err
		}
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out, nil
}

func parseByte(s string) (byte, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 0, 8)
	return byte(v), err
}

func byteRange(lo, hi int) []byte {
	out := make([]byte, 0, hi-lo+1)
	for v := lo; v <= hi; v++ {
		out = append(out, byte(v))
	}
	return out
}

func rangeError(part string) error {
	return forgeerr.WithDetails(forgeerr.ErrInvalidRange, map[string]string{"value": part})
}
