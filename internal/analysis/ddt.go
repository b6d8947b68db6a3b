// Package analysis measures how well an S-box resists differential, linear
// and boomerang cryptanalysis.
//
// Each table is reduced to a uniformity: its largest entry outside the
// trivial row or column. Lower is stronger. The AES S-box scores
// differential 4, linear 32 and boomerang 6.
package analysis

import "github.com/mrz1836/sboxforge/internal/sbox"

const n = sbox.Size

// DDT is a difference distribution table: DDT[dx][dy] counts the inputs x
// with s[x] ^ s[x^dx] == dy. Row 0 is the trivial difference.
type DDT [n][n]uint16

// ComputeDDT builds the difference distribution table of s.
func ComputeDDT(s sbox.SBox) *DDT {
	var t DDT
	t[0][0] = n
	for dx := 1; dx < n; dx++ {
		row := &t[dx]
		for x := 0; x < n; x++ {
			row[s[x]^s[x^dx]]++
		}
	}
	return &t
}

// Uniformity returns the largest entry over rows 1..255.
func (t *DDT) Uniformity() int {
	var best uint16
	for dx := 1; dx < n; dx++ {
		for _, v := range t[dx] {
			if v > best {
				best = v
			}
		}
	}
	return int(best)
}

// Spectrum counts how often each entry value occurs over rows 1..255.
func (t *DDT) Spectrum() Spectrum {
	sp := Spectrum{}
	for dx := 1; dx < n; dx++ {
		for _, v := range t[dx] {
			sp[int(v)]++
		}
	}
	return sp
}
