package rijndael

import (
	"sync"

	"github.com/mrz1836/sboxforge/internal/gf256"
	"github.com/mrz1836/sboxforge/internal/sbox"
)

// state is one block in column-major order: state[r+4c] is row r, column c.
type state [BlockSize]byte

// mixTables holds x -> k*x mod 0x11B for every MixColumns coefficient k.
// MixColumns always works in the Rijndael field whatever field built the S-box.
type mixTables struct {
	mul2, mul3, mul9, mul11, mul13, mul14 [gf256.FieldSize]byte
}

//nolint:gochecknoglobals // precomputed tables
var (
	mix     mixTables
	mixInit sync.Once
)

func initMixTables() {
	mixInit.Do(func() {
		for x := 0; x < gf256.FieldSize; x++ {
			b := byte(x)
			mix.mul2[x] = gf256.Double(b, gf256.AES)
			mix.mul3[x] = mix.mul2[x] ^ b
			mix.mul9[x] = gf256.Multiply(b, 0x09, gf256.AES)
			mix.mul11[x] = gf256.Multiply(b, 0x0b, gf256.AES)
			mix.mul13[x] = gf256.Multiply(b, 0x0d, gf256.AES)
			mix.mul14[x] = gf256.Multiply(b, 0x0e, gf256.AES)
		}
	})
}

func (s *state) addRoundKey(k *[BlockSize]byte) {
	for i := range s {
		s[i] ^= k[i]
	}
}

func (s *state) subBytes(box *sbox.SBox) {
	box.Apply(s[:])
}

// shiftRows rotates row r left by r columns.
func (s *state) shiftRows() {
	old := *s
	for r := 1; r < 4; r++ {
		for c := 0; c < 4; c++ {
			s[r+4*c] = old[r+4*((c+r)%4)]
		}
	}
}

// invShiftRows rotates row r right by r columns.
func (s *state) invShiftRows() {
	old := *s
	for r := 1; r < 4; r++ {
		for c := 0; c < 4; c++ {
			s[r+4*((c+r)%4)] = old[r+4*c]
		}
	}
}

// mixColumns multiplies every column by [[2,3,1,1],[1,2,3,1],[1,1,2,3],[3,1,1,2]].
func (s *state) mixColumns() {
	for c := 0; c < 4; c++ {
		a0, a1, a2, a3 := s[4*c], s[4*c+1], s[4*c+2], s[4*c+3]
		s[4*c] = mix.mul2[a0] ^ mix.mul3[a1] ^ a2 ^ a3
		s[4*c+1] = a0 ^ mix.mul2[a1] ^ mix.mul3[a2] ^ a3
		s[4*c+2] = a0 ^ a1 ^ mix.mul2[a2] ^ mix.mul3[a3]
		s[4*c+3] = mix.mul3[a0] ^ a1 ^ a2 ^ mix.mul2[a3]
	}
}

// invMixColumns multiplies every column by [[14,11,13,9],[9,14,11,13],[13,9,14,11],[11,13,9,14]].
func (s *state) invMixColumns() {
	for c := 0; c < 4; c++ {
		a0, a1, a2, a3 := s[4*c], s[4*c+1], s[4*c+2], s[4*c+3]
		s[4*c] = mix.mul14[a0] ^ mix.mul11[a1] ^ mix.mul13[a2] ^ mix.mul9[a3]
		s[4*c+1] = mix.mul9[a0] ^ mix.mul14[a1] ^ mix.mul11[a2] ^ mix.mul13[a3]
		s[4*c+2] = mix.mul13[a0] ^ mix.mul9[a1] ^ mix.mul14[a2] ^ mix.mul11[a3]
		s[4*c+3] = mix.mul11[a0] ^ mix.mul13[a1] ^ mix.mul9[a2] ^ mix.mul14[a3]
	}
}

// encrypt runs the full AES-128 encryption pipeline on s.
func (s *state) encrypt(box *sbox.SBox, ks *Schedule) {
	s.addRoundKey(&ks[0])
	for r := 1; r < Rounds; r++ {
		s.subBytes(box)
		s.shiftRows()
		s.mixColumns()
		s.addRoundKey(&ks[r])
	}
	s.subBytes(box)
	s.shiftRows()
	s.addRoundKey(&ks[Rounds])
}

// decrypt undoes encrypt step by step in reverse order.
func (s *state) decrypt(inv *sbox.SBox, ks *Schedule) {
	s.addRoundKey(&ks[Rounds])
	s.invShiftRows()
	s.subBytes(inv)
	for r := Rounds - 1; r >= 1; r-- {
		s.addRoundKey(&ks[r])
		s.invMixColumns()
		s.invShiftRows()
		s.subBytes(inv)
	}
	s.addRoundKey(&ks[0])
}
