package rijndael

import (
	"bytes"
	"strconv"

	"github.com/mrz1836/sboxforge/internal/metrics"
	forgeerr "github.com/mrz1836/sboxforge/pkg/errors"
)

// Pad appends PKCS#7 padding: n bytes of value n, 1 <= n <= 16. Input that
// is already block aligned gains a whole block of padding.
func Pad(data []byte) []byte {
	n := BlockSize - len(data)%BlockSize
	out := make([]byte, len(data), len(data)+n)
	copy(out, data)
	return append(out, bytes.Repeat([]byte{byte(n)}, n)...)
}

// Unpad strips PKCS#7 padding. The input must be a non-empty multiple of the
// block size, and every padding byte must equal the pad length.
func Unpad(data []byte) ([]byte, error) {
	if len(data) == 0 || len(data)%BlockSize != 0 {
		return nil, forgeerr.WithDetails(forgeerr.ErrInvalidPadding, map[string]string{
			"length": strconv.Itoa(len(data)),
		})
	}

	n := int(data[len(data)-1])
	if n < 1 || n > BlockSize {
		return nil, forgeerr.WithDetails(forgeerr.ErrInvalidPadding, map[string]string{
			"pad": strconv.Itoa(n),
		})
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, forgeerr.WithDetails(forgeerr.ErrInvalidPadding, map[string]string{
				"pad": strconv.Itoa(n),
			})
		}
	}

	out := make([]byte, len(data)-n)
	copy(out, data)
	return out, nil
}

// EncryptECB pads plaintext and encrypts each block independently.
func (b *Block) EncryptECB(plaintext []byte) []byte {
	out := Pad(plaintext)
	for i := 0; i < len(out); i += BlockSize {
		b.Encrypt(out[i:i+BlockSize], out[i:i+BlockSize])
	}
	metrics.Global.RecordBlocksEncrypted(int64(len(out) / BlockSize))
	return out
}

// DecryptECB decrypts each block and strips the padding.
func (b *Block) DecryptECB(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) == 0 || len(ciphertext)%BlockSize != 0 {
		return nil, forgeerr.WithDetails(forgeerr.ErrInvalidCiphertextLength, map[string]string{
			"length": strconv.Itoa(len(ciphertext)),
		})
	}

	plain := make([]byte, len(ciphertext))
	for i := 0; i < len(ciphertext); i += BlockSize {
		b.Decrypt(plain[i:i+BlockSize], ciphertext[i:i+BlockSize])
	}
	metrics.Global.RecordBlocksDecrypted(int64(len(plain) / BlockSize))
	return Unpad(plain)
}
