package analysis

import (
	"github.com/mrz1836/sboxforge/internal/sbox"
)

// BCT is a boomerang connectivity table: BCT[alpha][beta] counts the x with
// inv[s[x]^beta] ^ inv[s[x^alpha]^beta] == alpha.
type BCT [n][n]uint16

// ComputeBCT builds the boomerang connectivity table of s. inv must be the
// inverse of s.
func ComputeBCT(s, inv sbox.SBox) *BCT {
	var t BCT
	for alpha := 0; alpha < n; alpha++ {
		a := byte(alpha)
		for beta := 0; beta < n; beta++ {
			b := byte(beta)
			var count uint16
			for x := 0; x < n; x++ {
				if inv[s[x]^b]^inv[s[byte(x)^a]^b] == a {
					count++
				}
			}
			t[alpha][beta] = count
		}
	}
	return &t
}

// Uniformity returns the largest entry with alpha and beta both nonzero.
func (t *BCT) Uniformity() int {
	var best uint16
	for alpha := 1; alpha < n; alpha++ {
		for _, v := range t[alpha][1:] {
			if v > best {
				best = v
			}
		}
	}
	return int(best)
}

// Spectrum counts how often each entry value occurs outside row and column 0.
func (t *BCT) Spectrum() Spectrum {
	sp := Spectrum{}
	for alpha := 1; alpha < n; alpha++ {
		for _, v := range t[alpha][1:] {
			sp[int(v)]++
		}
	}
	return sp
}
