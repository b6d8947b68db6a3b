package rijndael

import (
	"crypto/cipher"
	"strconv"

	"github.com/mrz1836/sboxforge/internal/metrics"
	forgeerr "github.com/mrz1836/sboxforge/pkg/errors"
)

// Compile-time interface check
var _ cipher.Block = (*Block)(nil)

// Block is an AES-128 cipher bound to one key and one Context. It is safe for
// concurrent use; every call works on its own state.
type Block struct {
	ctx      *Context
	schedule *Schedule
}

// NewCipher expands key and returns a Block.
func (c *Context) NewCipher(key []byte) (*Block, error) {
	ks, err := c.ExpandKey(key)
	if err != nil {
		return nil, err
	}
	initMixTables()
	return &Block{ctx: c, schedule: ks}, nil
}

// BlockSize returns the cipher's block size.
func (b *Block) BlockSize() int {
	return BlockSize
}

// Encrypt encrypts the first block of src into dst. Like crypto/aes it
// panics when either buffer is shorter than a block.
func (b *Block) Encrypt(dst, src []byte) {
	if len(src) < BlockSize {
		panic("rijndael: input not full block")
	}
	if len(dst) < BlockSize {
		panic("rijndael: output not full block")
	}

	var s state
	copy(s[:], src[:BlockSize])
	s.encrypt(&b.ctx.box, b.schedule)
	copy(dst, s[:])
}

// Decrypt decrypts the first block of src into dst.
func (b *Block) Decrypt(dst, src []byte) {
	if len(src) < BlockSize {
		panic("rijndael: input not full block")
	}
	if len(dst) < BlockSize {
		panic("rijndael: output not full block")
	}

	var s state
	copy(s[:], src[:BlockSize])
	s.decrypt(&b.ctx.inv, b.schedule)
	copy(dst, s[:])
}

// EncryptBlock encrypts exactly one block and returns a new slice.
func (b *Block) EncryptBlock(src []byte) ([]byte, error) {
	if err := checkBlock(src); err != nil {
		return nil, err
	}
	out := make([]byte, BlockSize)
	b.Encrypt(out, src)
	metrics.Global.RecordBlocksEncrypted(1)
	return out, nil
}

// DecryptBlock decrypts exactly one block and returns a new slice.
func (b *Block) DecryptBlock(src []byte) ([]byte, error) {
	if err := checkBlock(src); err != nil {
		return nil, err
	}
	out := make([]byte, BlockSize)
	b.Decrypt(out, src)
	metrics.Global.RecordBlocksDecrypted(1)
	return out, nil
}

func checkBlock(src []byte) error {
	if len(src) != BlockSize {
		return forgeerr.WithDetails(forgeerr.ErrInvalidBlockLength, map[string]string{
			"got":  strconv.Itoa(len(src)),
			"want": strconv.Itoa(BlockSize),
		})
	}
	return nil
}
