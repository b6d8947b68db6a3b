package fileutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAtomic_ReplacesFile(t *testing.T) {
	t.Parallel()

	target := filepath.Join(t.TempDir(), "sbox.bin")
	require.NoError(t, os.WriteFile(target, []byte("old"), 0o644)) //nolint:gosec // G306: test file
	require.NoError(t, WriteAtomic(target, []byte{0x63, 0x7c}, 0o600))

	data, err := os.ReadFile(target) //nolint:gosec // G304: test path
	require.NoError(t, err)
	assert.Equal(t, []byte{0x63, 0x7c}, data)

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// no temp files left behind
	entries, err := os.ReadDir(filepath.Dir(target))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteAtomic_CreatesParents(t *testing.T) {
	t.Parallel()

	target := filepath.Join(t.TempDir(), "nested", "dir", "config.yaml")
	require.NoError(t, WriteAtomic(target, []byte("search: {}\n"), 0o600))

	data, err := os.ReadFile(target) //nolint:gosec // G304: test path
	require.NoError(t, err)
	assert.Equal(t, "search: {}\n", string(data))
}

func TestWriteAtomic_FailureLeavesOriginalFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("directory permissions are not enforced for root")
	}

	tmpDir := t.TempDir()
	target := filepath.Join(tmpDir, "sbox.bin")
	require.NoError(t, os.WriteFile(target, []byte("original"), 0o644)) //nolint:gosec // G306: test file

	require.NoError(t, os.Chmod(tmpDir, 0o500)) //nolint:gosec // G302: intentionally read-only
	defer func() {
		_ = os.Chmod(tmpDir, 0o700) //nolint:gosec // G302: restore for cleanup
	}()

	require.Error(t, WriteAtomic(target, []byte("replacement"), 0o600))

	data, err := os.ReadFile(target) //nolint:gosec // G304: test path
	require.NoError(t, err)
	assert.Equal(t, "original", string(data))
}

func TestWriteAtomic_EmptyPath(t *testing.T) {
	t.Parallel()
	require.ErrorIs(t, WriteAtomic("", []byte("data"), 0o600), ErrEmptyPath)
}

func TestReadLimited(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	exact := filepath.Join(dir, "exact")
	over := filepath.Join(dir, "over")
	require.NoError(t, os.WriteFile(exact, make([]byte, 256), 0o600))
	require.NoError(t, os.WriteFile(over, make([]byte, 300), 0o600))

	data, err := ReadLimited(exact, 256)
	require.NoError(t, err)
	assert.Len(t, data, 256)

	_, err = ReadLimited(over, 256)
	require.ErrorIs(t, err, ErrTooLarge)

	_, err = ReadLimited(filepath.Join(dir, "missing"), 256)
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = ReadLimited("", 1)
	require.ErrorIs(t, err, ErrEmptyPath)
}
