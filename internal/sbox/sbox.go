// Package sbox generates and manipulates 8-bit substitution boxes built from
// a field inversion, a field multiplier and an affine bit transform.
package sbox

import (
	"fmt"
	"strconv"
	"sync"

	"golang.org/x/crypto/sha3"

	"github.com/mrz1836/sboxforge/internal/gf256"
	forgeerr "github.com/mrz1836/sboxforge/pkg/errors"
)

// Size is the number of entries in an S-box.
const Size = gf256.FieldSize

// SBox maps every input byte to an output byte.
type SBox [Size]byte

// Params selects one S-box out of the generator's parameter space.
type Params struct {
	Polynomial gf256.Polynomial `json:"polynomial" yaml:"polynomial"`
	Multiplier byte             `json:"multiplier" yaml:"multiplier"`
	Constant   byte             `json:"constant"   yaml:"constant"`
}

// StandardParams returns the parameters that reproduce the AES S-box.
func StandardParams() Params {
	return Params{Polynomial: gf256.AES, Multiplier: 0x01, Constant: 0x63}
}

// String renders the parameters as poly=0x11b mult=0x01 const=0x63.
func (p Params) String() string {
	return fmt.Sprintf("poly=%s mult=0x%02x const=0x%02x", p.Polynomial, p.Multiplier, p.Constant)
}

// Validate checks that the polynomial defines a field and the multiplier is
// nonzero. A valid parameter set can still yield a non-bijective box.
func (p Params) Validate() error {
	if err := gf256.Validate(p.Polynomial); err != nil {
		return err
	}
	if p.Multiplier == 0 {
		return forgeerr.WithDetails(forgeerr.ErrInvalidInput, map[string]string{
			"multiplier": "0x00",
		})
	}
	return nil
}

// Affine applies the fixed Rijndael affine map to b and adds c.
// Output bit i is b_i ^ b_(i+4) ^ b_(i+5) ^ b_(i+6) ^ b_(i+7) ^ c_i (indices
// mod 8), which is b xored with its left rotations by 1 through 4.
func Affine(b, c byte) byte {
	return b ^ rotl(b, 1) ^ rotl(b, 2) ^ rotl(b, 3) ^ rotl(b, 4) ^ c
}

func rotl(b byte, n uint) byte {
	return b<<n | b>>(8-n)
}

// Generate builds the S-box for p: x -> Affine(inv(x) * multiplier).
// It never fails; callers check bijectivity before using the result.
func Generate(p Params) SBox {
	inv := gf256.InverseTable(p.Polynomial, nil)
	return GenerateFrom(&inv, p)
}

// GenerateFrom builds the S-box for p from a precomputed inverse table of
// p.Polynomial.
func GenerateFrom(inv *[Size]byte, p Params) SBox {
	var s SBox
	for x := 0; x < Size; x++ {
		scaled := gf256.Multiply(inv[x], p.Multiplier, p.Polynomial)
		s[x] = Affine(scaled, p.Constant)
	}
	return s
}

//nolint:gochecknoglobals // memoized standard table
var (
	standardOnce sync.Once
	standard     SBox
)

// Standard returns the AES S-box.
func Standard() SBox {
	standardOnce.Do(func() {
		standard = Generate(StandardParams())
	})
	return standard
}

// IsBijective reports whether every output byte appears exactly once.
func (s SBox) IsBijective() bool {
	var seen [Size]bool
	for _, v := range s {
		if seen[v] {
			return false
		}
		seen[v] = true
	}
	return true
}

// Check returns ErrNotBijective when s is not a permutation.
func (s SBox) Check() error {
	if !s.IsBijective() {
		return forgeerr.WithDetails(forgeerr.ErrNotBijective, map[string]string{
			"distinct": strconv.Itoa(s.distinct()),
		})
	}
	return nil
}

func (s SBox) distinct() int {
	var seen [Size]bool
	n := 0
	for _, v := range s {
		if !seen[v] {
			seen[v] = true
			n++
		}
	}
	return n
}

// Inverse returns the table with inv[s[x]] == x. Asking for the inverse of a
// non-bijective table is an integrity error.
func (s SBox) Inverse() (SBox, error) {
	if !s.IsBijective() {
		return SBox{}, forgeerr.WithDetails(forgeerr.ErrIntegrity, map[string]string{
			"distinct": strconv.Itoa(s.distinct()),
		})
	}

	var inv SBox
	for x, v := range s {
		inv[v] = byte(x)
	}
	return inv, nil
}

// Normalize returns s with every entry xored by s[0], so s[0] becomes 0.
// Two boxes that differ only by an output constant normalize to the same
// table and share all differential and linear properties.
func (s SBox) Normalize() SBox {
	var n SBox
	for x, v := range s {
		n[x] = v ^ s[0]
	}
	return n
}

// Fingerprint returns the hex SHA3-256 digest of the table.
func (s SBox) Fingerprint() string {
	sum := sha3.Sum256(s[:])
	return fmt.Sprintf("%x", sum)
}

// Rows returns the table as a 16x16 grid; row r holds inputs 16r..16r+15.
func (s SBox) Rows() [16][16]byte {
	var rows [16][16]byte
	for x, v := range s {
		rows[x>>4][x&0x0F] = v
	}
	return rows
}

// Apply substitutes every byte of buf in place.
func (s SBox) Apply(buf []byte) {
	for i, b := range buf {
		buf[i] = s[b]
	}
}
