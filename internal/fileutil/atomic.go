// Package fileutil reads and writes the small files sboxforge keeps on disk:
// S-box artifacts and configuration.
package fileutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrEmptyPath is returned for an empty file path.
var ErrEmptyPath = errors.New("path is empty")

// dirPerm applies to parent directories created by WriteAtomic.
const dirPerm = 0o750

// WriteAtomic replaces path with data, creating missing parent directories.
// Readers observe either the previous contents or all of data, never a
// partial write. perm applies to the new file.
func WriteAtomic(path string, data []byte, perm os.FileMode) error {
	if path == "" {
		return ErrEmptyPath
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	staged, err := stage(dir, filepath.Base(path), data, perm)
	if err != nil {
		return err
	}
	if err = os.Rename(staged, path); err != nil { //nolint:gosec // G703: destination chosen by the operator
		_ = os.Remove(staged)
		return fmt.Errorf("replacing %s: %w", path, err)
	}

	syncDir(dir)
	return nil
}

// stage writes data to a synced sibling temp file and returns its name. The
// temp file is removed on any failure.
func stage(dir, base string, data []byte, perm os.FileMode) (name string, err error) {
	f, err := os.CreateTemp(dir, base+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("staging %s: %w", base, err)
	}
	name = f.Name()
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("staging %s: %w", base, cerr)
		}
		if err != nil {
			_ = os.Remove(name)
			name = ""
		}
	}()

	if _, err = f.Write(data); err != nil {
		return name, fmt.Errorf("staging %s: %w", base, err)
	}
	if err = f.Chmod(perm); err != nil {
		return name, fmt.Errorf("staging %s: %w", base, err)
	}
	if err = f.Sync(); err != nil {
		return name, fmt.Errorf("staging %s: %w", base, err)
	}
	return name, nil
}

// syncDir flushes the rename to disk. Failures are ignored; the data itself
// is already synced.
func syncDir(dir string) {
	d, err := os.Open(dir) //nolint:gosec // G304: parent of the target path
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}
