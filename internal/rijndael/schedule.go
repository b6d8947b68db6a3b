package rijndael

import (
	"strconv"

	forgeerr "github.com/mrz1836/sboxforge/pkg/errors"
)

// Schedule holds the 11 round keys of AES-128. Round key r occupies words
// 4r..4r+3 of the expanded key, each word being one state column.
type Schedule [Rounds + 1][BlockSize]byte

// rcon holds the round constants x^(i-1) in GF(2^8) mod 0x11B.
//
//nolint:gochecknoglobals // fixed table
var rcon = [Rounds]byte{0x01, 0x02, 0x04, 0x08, 0x10, 0x20, 0x40, 0x80, 0x1b, 0x36}

// ExpandKey derives the round keys for key. The key schedule substitutes
// through the context's S-box, not the standard one.
func (c *Context) ExpandKey(key []byte) (*Schedule, error) {
	if len(key) != KeySize {
		return nil, forgeerr.WithDetails(forgeerr.ErrInvalidKeyLength, map[string]string{
			"got":  strconv.Itoa(len(key)),
			"want": strconv.Itoa(KeySize),
		})
	}

	const words = 4 * (Rounds + 1)
	var w [words][4]byte
	for i := 0; i < 4; i++ {
		copy(w[i][:], key[4*i:4*i+4])
	}

	for i := 4; i < words; i++ {
		temp := w[i-1]
		if i%4 == 0 {
			// RotWord, SubWord, Rcon
			temp = [4]byte{
				c.box[temp[1]] ^ rcon[i/4-1],
				c.box[temp[2]],
				c.box[temp[3]],
				c.box[temp[0]],
			}
		}
		for j := 0; j < 4; j++ {
			w[i][j] = w[i-4][j] ^ temp[j]
		}
	}

	var s Schedule
	for r := range s {
		for col := 0; col < 4; col++ {
			copy(s[r][4*col:4*col+4], w[4*r+col][:])
		}
	}
	return &s, nil
}
