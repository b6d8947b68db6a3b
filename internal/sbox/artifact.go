package sbox

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strconv"

	"github.com/mrz1836/sboxforge/internal/fileutil"
	forgeerr "github.com/mrz1836/sboxforge/pkg/errors"
)

// artifactPerm is the mode used when saving an S-box file.
const artifactPerm = 0o644

// Read reads a raw artifact: exactly 256 bytes, byte i is s[i], no header.
func Read(r io.Reader) (SBox, error) {
	var s SBox

	// one extra byte detects oversized input without reading it all
	buf := make([]byte, Size+1)
	n, err := io.ReadFull(r, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return s, forgeerr.Wrap(err, "reading S-box artifact")
	}
	if n != Size {
		return s, artifactSizeError(n)
	}

	copy(s[:], buf[:Size])
	return s, nil
}

// Load reads the artifact at path.
func Load(path string) (SBox, error) {
	data, err := fileutil.ReadLimited(path, Size+1)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return SBox{}, forgeerr.WithDetails(forgeerr.ErrNotFound, map[string]string{"path": path})
		}
		if errors.Is(err, fileutil.ErrTooLarge) {
			return SBox{}, forgeerr.WithDetails(forgeerr.ErrInvalidArtifact, map[string]string{
				"path": path,
				"size": ">" + strconv.Itoa(Size),
			})
		}
		return SBox{}, forgeerr.Wrap(err, "loading %s", path)
	}
	return Read(bytes.NewReader(data))
}

// WriteTo writes the raw 256-byte artifact to w.
func (s SBox) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(s[:])
	return int64(n), err
}

// Save writes the artifact to path atomically.
func (s SBox) Save(path string) error {
	if err := fileutil.WriteAtomic(path, s[:], artifactPerm); err != nil {
		return forgeerr.Wrap(err, "saving S-box to %s", path)
	}
	return nil
}

func artifactSizeError(n int) error {
	size := strconv.Itoa(n)
	if n > Size {
		size = ">" + strconv.Itoa(Size)
	}
	return forgeerr.WithDetails(forgeerr.ErrInvalidArtifact, map[string]string{"size": size})
}
