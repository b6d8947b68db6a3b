package sbox

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/sboxforge/internal/gf256"
	forgeerr "github.com/mrz1836/sboxforge/pkg/errors"
)

// affineBits is the bit-by-bit form of Affine used as an oracle.
func affineBits(b, c byte) byte {
	var out byte
	for i := 0; i < 8; i++ {
		bit := (b >> i) ^ (b >> ((i + 4) % 8)) ^ (b >> ((i + 5) % 8)) ^
			(b >> ((i + 6) % 8)) ^ (b >> ((i + 7) % 8)) ^ (c >> i)
		out |= (bit & 1) << i
	}
	return out
}

func TestAffine_MatchesBitDefinition(t *testing.T) {
	t.Parallel()
	for b := 0; b < Size; b++ {
		for _, c := range []byte{0x00, 0x63, 0xff, 0x15} {
			require.Equalf(t, affineBits(byte(b), c), Affine(byte(b), c), "b=%#x c=%#x", b, c)
		}
	}
}

func TestStandard_MatchesAES(t *testing.T) {
	t.Parallel()
	s := Standard()

	row0 := []byte{
		0x63, 0x7c, 0x77, 0x7b, 0xf2, 0x6b, 0x6f, 0xc5,
		0x30, 0x01, 0x67, 0x2b, 0xfe, 0xd7, 0xab, 0x76,
	}
	assert.Equal(t, row0, s[:16])
	assert.Equal(t, byte(0xed), s[0x53])
	assert.Equal(t, byte(0x16), s[0xff])

	rows := s.Rows()
	assert.Equal(t, byte(0xed), rows[5][3])
	assert.Equal(t, row0, rows[0][:])

	inv, err := s.Inverse()
	require.NoError(t, err)
	assert.Equal(t, byte(0x52), inv[0x00])
	assert.Equal(t, byte(0x7d), inv[0xff])
}

func TestGenerate_BijectiveAcrossCatalog(t *testing.T) {
	t.Parallel()
	for _, p := range gf256.Catalog() {
		for _, m := range []byte{0x01, 0x02, 0x53, 0xff} {
			params := Params{Polynomial: p, Multiplier: m, Constant: 0x63}
			s := Generate(params)
			// inversion and nonzero scaling are permutations; the affine map is invertible
			require.Truef(t, s.IsBijective(), "%s", params)
			require.NoError(t, s.Check())

			inv, err := s.Inverse()
			require.NoError(t, err)
			for x := 0; x < Size; x++ {
				require.Equal(t, byte(x), inv[s[x]])
			}
		}
	}
}

func TestGenerate_RejectsDegenerateParams(t *testing.T) {
	t.Parallel()

	// multiplier 0 maps every input to the constant
	zero := Generate(Params{Polynomial: gf256.AES, Multiplier: 0, Constant: 0x63})
	assert.False(t, zero.IsBijective())
	require.ErrorIs(t, zero.Check(), forgeerr.ErrNotBijective)

	_, err := zero.Inverse()
	require.ErrorIs(t, err, forgeerr.ErrIntegrity)
	assert.Contains(t, err.Error(), "distinct: 1")

	// x^8 is not irreducible so most elements have no inverse
	reducible := Generate(Params{Polynomial: 0x100, Multiplier: 1, Constant: 0x63})
	assert.False(t, reducible.IsBijective())
}

func TestGenerateFrom_UsesCachedTable(t *testing.T) {
	t.Parallel()
	cache := gf256.NewInverseCache(gf256.Catalog(), nil)
	params := Params{Polynomial: 0x11d, Multiplier: 0x05, Constant: 0x1f}

	table, ok := cache.Lookup(params.Polynomial)
	require.True(t, ok)
	assert.Equal(t, Generate(params), GenerateFrom(table, params))
}

func TestParams(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "poly=0x11b mult=0x01 const=0x63", StandardParams().String())
	require.NoError(t, StandardParams().Validate())

	err := Params{Polynomial: 0x100, Multiplier: 1}.Validate()
	require.ErrorIs(t, err, forgeerr.ErrInvalidPolynomial)

	err = Params{Polynomial: gf256.AES}.Validate()
	require.ErrorIs(t, err, forgeerr.ErrInvalidInput)
}

func TestNormalize(t *testing.T) {
	t.Parallel()
	a := Generate(Params{Polynomial: gf256.AES, Multiplier: 3, Constant: 0x00})
	b := Generate(Params{Polynomial: gf256.AES, Multiplier: 3, Constant: 0xa5})

	assert.NotEqual(t, a, b)
	assert.Equal(t, a.Normalize(), b.Normalize())
	assert.Equal(t, byte(0), a.Normalize()[0])
}

func TestFingerprint(t *testing.T) {
	t.Parallel()
	s := Standard()
	fp := s.Fingerprint()
	assert.Len(t, fp, 64)
	assert.Equal(t, fp, Standard().Fingerprint())

	other := s
	other[0], other[1] = other[1], other[0]
	assert.NotEqual(t, fp, other.Fingerprint())
}

func TestApply(t *testing.T) {
	t.Parallel()
	buf := []byte{0x00, 0x01, 0x53}
	Standard().Apply(buf)
	assert.Equal(t, []byte{0x63, 0x7c, 0xed}, buf)
}

func TestArtifact_RoundTrip(t *testing.T) {
	t.Parallel()
	s := Generate(Params{Polynomial: 0x12b, Multiplier: 7, Constant: 0x63})

	var buf bytes.Buffer
	n, err := s.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(Size), n)
	assert.Equal(t, s[:], buf.Bytes())

	got, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, s, got)

	path := filepath.Join(t.TempDir(), "out", "sbox.bin")
	require.NoError(t, s.Save(path))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, s, loaded)
}

func TestArtifact_WrongSize(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		size int
		want string
	}{
		{"empty", 0, "size: 0"},
		{"short", 255, "size: 255"},
		{"long", 257, "size: >256"},
		{"much longer", 4096, "size: >256"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Read(bytes.NewReader(make([]byte, tt.size)))
			require.ErrorIs(t, err, forgeerr.ErrInvalidArtifact)
			assert.Contains(t, err.Error(), tt.want)

			path := filepath.Join(t.TempDir(), "sbox.bin")
			require.NoError(t, os.WriteFile(path, make([]byte, tt.size), 0o600))
			_, err = Load(path)
			require.ErrorIs(t, err, forgeerr.ErrInvalidArtifact)
		})
	}
}

func TestLoad_Missing(t *testing.T) {
	t.Parallel()
	_, err := Load(filepath.Join(t.TempDir(), "nope.bin"))
	require.ErrorIs(t, err, forgeerr.ErrNotFound)
	assert.True(t, strings.Contains(err.Error(), "nope.bin"))
}
