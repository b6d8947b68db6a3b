package fileutil

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrTooLarge indicates a file exceeded the caller's read limit.
var ErrTooLarge = errors.New("file exceeds size limit")

// ReadLimited reads at most limit bytes from path. Files longer than limit
// return ErrTooLarge without being read in full.
func ReadLimited(path string, limit int64) ([]byte, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}

	f, err := os.Open(path) //nolint:gosec // G304: path supplied by the operator
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("%s: %w (limit %d bytes)", path, ErrTooLarge, limit)
	}
	return data, nil
}
