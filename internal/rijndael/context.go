// Package rijndael implements AES-128 with a replaceable substitution box.
//
// A Context owns one S-box and its inverse and is passed explicitly to every
// operation, so ciphers built on different boxes can run side by side.
// With the standard box the output is bit-identical to FIPS-197 AES-128.
package rijndael

import (
	"sync"

	"github.com/mrz1836/sboxforge/internal/sbox"
)

const (
	// BlockSize is the AES block size in bytes.
	BlockSize = 16

	// KeySize is the AES-128 key size in bytes.
	KeySize = 16

	// Rounds is the number of AES-128 rounds after the initial key addition.
	Rounds = 10
)

// Context is an immutable S-box and inverse pair.
type Context struct {
	box sbox.SBox
	inv sbox.SBox
}

// NewContext validates box and derives its inverse. A box that is not a
// permutation cannot be decrypted and is rejected with ErrNotBijective.
func NewContext(box sbox.SBox) (*Context, error) {
	if err := box.Check(); err != nil {
		return nil, err
	}

	inv, err := box.Inverse()
	if err != nil {
		return nil, err
	}
	return &Context{box: box, inv: inv}, nil
}

// NewContextFromParams generates the S-box for p and wraps it in a Context.
func NewContextFromParams(p sbox.Params) (*Context, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return NewContext(sbox.Generate(p))
}

//nolint:gochecknoglobals // memoized standard context
var (
	standardOnce sync.Once
	standardCtx  *Context
)

// StandardContext returns the context for the AES S-box.
func StandardContext() *Context {
	standardOnce.Do(func() {
		box := sbox.Standard()
		inv, _ := box.Inverse() // the AES box is a permutation
		standardCtx = &Context{box: box, inv: inv}
	})
	return standardCtx
}

// SBox returns the forward substitution table.
func (c *Context) SBox() sbox.SBox {
	return c.box
}

// InverseSBox returns the inverse substitution table.
func (c *Context) InverseSBox() sbox.SBox {
	return c.inv
}

// Encrypt encrypts one 16-byte block under a 16-byte key.
// It is deterministic and keeps no state between calls.
func (c *Context) Encrypt(plaintext, key []byte) ([]byte, error) {
	b, err := c.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return b.EncryptBlock(plaintext)
}

// Decrypt decrypts one 16-byte block under a 16-byte key.
func (c *Context) Decrypt(ciphertext, key []byte) ([]byte, error) {
	b, err := c.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return b.DecryptBlock(ciphertext)
}
