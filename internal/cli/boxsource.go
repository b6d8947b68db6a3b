package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mrz1836/sboxforge/internal/config"
	"github.com/mrz1836/sboxforge/internal/gf256"
	"github.com/mrz1836/sboxforge/internal/sbox"
	forgeerr "github.com/mrz1836/sboxforge/pkg/errors"
)

// boxFlags selects an S-box either from a 256-byte artifact or from
// generator parameters. Unset parameters fall back to the cipher section of
// the configuration.
type boxFlags struct {
	file       string
	polynomial string
	multiplier string
	constant   string
}

// register adds --poly, --mult and --const to cmd, plus fileFlag when it is
// not empty.
func (f *boxFlags) register(cmd *cobra.Command, fileFlag string) {
	cmd.Flags().StringVar(&f.polynomial, "poly", "", "field polynomial, e.g. 0x11b (default from config)")
	cmd.Flags().StringVar(&f.multiplier, "mult", "", "affine multiplier, 1-255 (default from config)")
	cmd.Flags().StringVar(&f.constant, "const", "", "affine constant, 0-255 (default from config)")
	if fileFlag != "" {
		cmd.Flags().StringVar(&f.file, fileFlag, "", "load a 256-byte S-box artifact instead of generating one")
	}
}

// hasParams reports whether any generator parameter was given.
func (f *boxFlags) hasParams() bool {
	return f.polynomial != "" || f.multiplier != "" || f.constant != ""
}

// params merges the flags over the configured cipher parameters and
// validates the result.
func (f *boxFlags) params(c *config.Config) (sbox.Params, error) {
	p, err := c.CipherParams()
	if err != nil {
		return sbox.Params{}, err
	}

	if f.polynomial != "" {
		if p.Polynomial, err = gf256.ParsePolynomial(f.polynomial); err != nil {
			return sbox.Params{}, err
		}
	}
	if f.multiplier != "" {
		if p.Multiplier, err = parseByteFlag("mult", f.multiplier); err != nil {
			return sbox.Params{}, err
		}
	}
	if f.constant != "" {
		if p.Constant, err = parseByteFlag("const", f.constant); err != nil {
			return sbox.Params{}, err
		}
	}

	if err = p.Validate(); err != nil {
		return sbox.Params{}, err
	}
	return p, nil
}

// boxSource is a resolved S-box and where it came from.
type boxSource struct {
	Box    sbox.SBox
	Params *sbox.Params // nil for artifacts
	Label  string
}

// resolve picks the box: an explicit file, then explicit parameters, then
// the configured artifact, then the configured parameters.
func (f *boxFlags) resolve(c *config.Config) (boxSource, error) {
	path := f.file
	if path == "" && !f.hasParams() {
		path = c.Cipher.SBoxFile
	}

	if path != "" {
		box, err := sbox.Load(path)
		if err != nil {
			return boxSource{}, err
		}
		return boxSource{Box: box, Label: path}, nil
	}

	p, err := f.params(c)
	if err != nil {
		return boxSource{}, err
	}
	return boxSource{Box: sbox.Generate(p), Params: &p, Label: p.String()}, nil
}

// parseByteFlag parses a byte in decimal, 0x hex or 0b binary notation.
func parseByteFlag(flag, s string) (byte, error) {
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, forgeerr.WithDetails(forgeerr.ErrInvalidInput, map[string]string{
			"flag":  flag,
			"value": s,
		})
	}
	return byte(v), nil
}
