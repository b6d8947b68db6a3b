package cli

import (
	"fmt"
	"io"
	"strings"

	hex "github.com/tmthrgd/go-hex"

	"github.com/mrz1836/sboxforge/internal/output"
	"github.com/mrz1836/sboxforge/internal/sbox"
	forgeerr "github.com/mrz1836/sboxforge/pkg/errors"
)

// out is a helper for CLI output.
//
//nolint:errcheck // CLI output writes to stdout are intentionally unchecked
func out(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format, args...)
}

// outln is a helper for CLI output with newline.
//
//nolint:errcheck // CLI output writes to stdout are intentionally unchecked
func outln(w io.Writer, args ...any) {
	fmt.Fprintln(w, args...)
}

// printGrid writes the 16x16 hex grid of a box.
func printGrid(w io.Writer, s sbox.SBox) error {
	return output.ByteGrid(s.Rows()).Render(w)
}

// decodeHex parses a hex flag value. Whitespace and a 0x prefix are ignored.
func decodeHex(flag, value string) ([]byte, error) {
	v := strings.Join(strings.Fields(value), "")
	v = strings.TrimPrefix(strings.TrimPrefix(v, "0x"), "0X")
	b, err := hex.DecodeString(v)
	if err != nil {
		return nil, forgeerr.WithDetails(forgeerr.ErrInvalidHex, map[string]string{
			"flag": flag,
		})
	}
	return b, nil
}

// encodeHex renders bytes as lowercase hex.
func encodeHex(b []byte) string {
	return hex.EncodeToString(b)
}
