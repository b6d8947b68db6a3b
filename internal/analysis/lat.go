package analysis

import (
	"math/bits"

	"github.com/mrz1836/sboxforge/internal/sbox"
)

// LAT is a linear approximation table of biases: LAT[a][b] is the number of
// x with parity(a&x) == parity(b&s[x]), minus 128.
type LAT [n][n]int16

// ComputeLAT builds the linear approximation table of s with one fast
// Walsh-Hadamard transform per output mask.
func ComputeLAT(s sbox.SBox) *LAT {
	var t LAT
	var w [n]int32
	for b := 0; b < n; b++ {
		for x := 0; x < n; x++ {
			w[x] = 1 - 2*int32(parity(byte(b)&s[x]))
		}
		fwht(&w)
		// w[a] = sum of (-1)^(a.x ^ b.s(x)) = 2*count - 256
		for a := 0; a < n; a++ {
			t[a][b] = int16(w[a] / 2)
		}
	}
	return &t
}

// ComputeLATNaive builds the table by direct counting in O(2^24).
func ComputeLATNaive(s sbox.SBox) *LAT {
	var t LAT
	for a := 0; a < n; a++ {
		for b := 0; b < n; b++ {
			count := 0
			for x := 0; x < n; x++ {
				if parity(byte(a)&byte(x)) == parity(byte(b)&s[x]) {
					count++
				}
			}
			t[a][b] = int16(count - n/2)
		}
	}
	return &t
}

// fwht applies the in-place Walsh-Hadamard butterfly.
func fwht(w *[n]int32) {
	for h := 1; h < n; h <<= 1 {
		for i := 0; i < n; i += h << 1 {
			for j := i; j < i+h; j++ {
				x, y := w[j], w[j+h]
				w[j], w[j+h] = x+y, x-y
			}
		}
	}
}

func parity(b byte) int {
	return bits.OnesCount8(b) & 1
}

// MaxBias returns the largest absolute bias excluding (0, 0). It is 16 for
// the AES S-box.
func (t *LAT) MaxBias() int {
	best := 0
	for a := 0; a < n; a++ {
		for b := 0; b < n; b++ {
			if a == 0 && b == 0 {
				continue
			}
			v := int(t[a][b])
			if v < 0 {
				v = -v
			}
			if v > best {
				best = v
			}
		}
	}
	return best
}

// Uniformity returns the linear uniformity in correlation units, 2*MaxBias,
// which is 32 for the AES S-box.
func (t *LAT) Uniformity() int {
	return 2 * t.MaxBias()
}

// Spectrum counts how often each absolute bias occurs, excluding (0, 0).
func (t *LAT) Spectrum() Spectrum {
	sp := Spectrum{}
	for a := 0; a < n; a++ {
		for b := 0; b < n; b++ {
			if a == 0 && b == 0 {
				continue
			}
			v := int(t[a][b])
			if v < 0 {
				v = -v
			}
			sp[v]++
		}
	}
	return sp
}
