package analysis

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/sboxforge/internal/metrics"
	"github.com/mrz1836/sboxforge/internal/sbox"
	forgeerr "github.com/mrz1836/sboxforge/pkg/errors"
)

func identity() sbox.SBox {
	var s sbox.SBox
	for x := range s {
		s[x] = byte(x)
	}
	return s
}

func TestAES_ReferenceUniformities(t *testing.T) {
	t.Parallel()
	s := sbox.Standard()

	assert.Equal(t, 4, ComputeDDT(s).Uniformity())

	lat := ComputeLAT(s)
	assert.Equal(t, 16, lat.MaxBias())
	assert.Equal(t, 32, lat.Uniformity())

	inv, err := s.Inverse()
	require.NoError(t, err)
	assert.Equal(t, 6, ComputeBCT(s, inv).Uniformity())

	score, err := EvaluateAll(s)
	require.NoError(t, err)
	assert.Equal(t, Score{Differential: 4, Linear: 32, Boomerang: 6}, score)
}

func TestDDT_RowsSumTo256(t *testing.T) {
	t.Parallel()
	ddt := ComputeDDT(sbox.Standard())
	for dx := 0; dx < n; dx++ {
		sum := 0
		for _, v := range ddt[dx] {
			sum += int(v)
			// differences pair up as x and x^dx
			require.Zero(t, v%2)
		}
		require.Equal(t, n, sum)
	}
	assert.Equal(t, uint16(n), ddt[0][0])
}

func TestDDT_LinearBoxIsWorstCase(t *testing.T) {
	t.Parallel()
	// a linear map sends every difference to exactly one output difference
	assert.Equal(t, n, ComputeDDT(identity()).Uniformity())
	assert.Equal(t, 2*128, ComputeLAT(identity()).Uniformity())
}

func TestLAT_FastMatchesNaive(t *testing.T) {
	t.Parallel()
	boxes := []sbox.SBox{
		sbox.Standard(),
		sbox.Generate(sbox.Params{Polynomial: 0x11d, Multiplier: 0x35, Constant: 0x07}),
		identity(),
	}
	for _, s := range boxes {
		assert.Equal(t, ComputeLATNaive(s), ComputeLAT(s))
	}
}

func TestLAT_TrivialMask(t *testing.T) {
	t.Parallel()
	lat := ComputeLAT(sbox.Standard())
	assert.Equal(t, int16(128), lat[0][0])
	// a permutation is balanced for every nonzero output mask
	for b := 1; b < n; b++ {
		require.Zero(t, lat[0][b])
	}
}

func TestBCT_TrivialRowAndColumn(t *testing.T) {
	t.Parallel()
	s := sbox.Standard()
	inv, err := s.Inverse()
	require.NoError(t, err)
	bct := ComputeBCT(s, inv)

	for i := 0; i < n; i++ {
		require.Equal(t, uint16(n), bct[0][i])
		require.Equal(t, uint16(n), bct[i][0])
	}
}

func TestBCT_DominatesDDT(t *testing.T) {
	t.Parallel()
	s := sbox.Generate(sbox.Params{Polynomial: 0x12b, Multiplier: 0x02, Constant: 0x63})
	inv, err := s.Inverse()
	require.NoError(t, err)

	ddt := ComputeDDT(s)
	bct := ComputeBCT(s, inv)
	// every BCT entry is at least the matching DDT entry
	for a := 1; a < n; a += 17 {
		for b := 1; b < n; b += 13 {
			require.GreaterOrEqual(t, bct[a][b], ddt[a][b])
		}
	}
}

func TestScore_Ordering(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		a, b Score
		less bool
	}{
		{"differential first", Score{4, 64, 0}, Score{6, 32, 0}, true},
		{"linear second", Score{4, 32, 0}, Score{4, 36, 0}, true},
		{"boomerang does not rank", Score{4, 32, 6}, Score{4, 32, 8}, false},
		{"boomerang does not rank reversed", Score{4, 32, 8}, Score{4, 32, 6}, false},
		{"equal", Score{4, 32, 6}, Score{4, 32, 6}, false},
		{"greater", Score{6, 32, 0}, Score{4, 32, 0}, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.less, tt.a.Less(tt.b))
		})
	}

	assert.True(t, Score{4, 32, 6}.Equal(Score{4, 32, 6}))
	assert.Equal(t, "DU=4 LU=32", Score{Differential: 4, Linear: 32}.String())
	assert.Equal(t, "DU=4 LU=32 BU=6", Score{4, 32, 6}.String())
}

func TestEvaluate_NonBijective(t *testing.T) {
	t.Parallel()
	var flat sbox.SBox

	score, err := Evaluate(flat, Options{})
	require.NoError(t, err)
	assert.Equal(t, n, score.Differential)

	_, err = Evaluate(flat, Options{Boomerang: true})
	require.ErrorIs(t, err, forgeerr.ErrNotBijective)
}

func TestEvaluate_InvariantUnderOutputConstant(t *testing.T) {
	t.Parallel()
	for _, c := range []byte{0x00, 0x01, 0x63, 0xff} {
		s := sbox.Generate(sbox.Params{Polynomial: 0x11d, Multiplier: 0x09, Constant: c})
		score, err := Evaluate(s, Options{})
		require.NoError(t, err)

		base := sbox.Generate(sbox.Params{Polynomial: 0x11d, Multiplier: 0x09, Constant: 0x00})
		want, err := Evaluate(base, Options{})
		require.NoError(t, err)
		assert.Equal(t, want, score)
	}
}

func TestSpectrum(t *testing.T) {
	t.Parallel()
	s := sbox.Standard()

	ddt := ComputeDDT(s).Spectrum()
	assert.Equal(t, 255*256, ddt.Total())
	assert.Equal(t, []int{0, 2, 4}, ddt.Values())
	// each nonzero row of the AES DDT holds a single 4
	assert.Equal(t, 255, ddt[4])

	lat := ComputeLAT(s).Spectrum()
	assert.Equal(t, 256*256-1, lat.Total())
	assert.Equal(t, 16, lat.Values()[len(lat.Values())-1])
}

func TestCache(t *testing.T) {
	// uses the global metrics counters
	metrics.Global.Reset()
	t.Cleanup(metrics.Global.Reset)

	c := NewCache(8)
	a := sbox.Generate(sbox.Params{Polynomial: 0x11b, Multiplier: 0x02, Constant: 0x00})
	b := sbox.Generate(sbox.Params{Polynomial: 0x11b, Multiplier: 0x02, Constant: 0x63})

	s1, err := c.Evaluate(a, Options{})
	require.NoError(t, err)
	s2, err := c.Evaluate(b, Options{})
	require.NoError(t, err)
	assert.Equal(t, s1, s2)
	assert.Equal(t, 1, c.Len())

	_, err = c.Evaluate(a, Options{Boomerang: true})
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())

	snap := metrics.Global.Snapshot()
	assert.Equal(t, int64(1), snap.CacheHits)
	assert.Equal(t, int64(2), snap.CacheMisses)
}

func TestCache_Evicts(t *testing.T) {
	t.Parallel()
	c := NewCache(2)
	for m := 1; m <= 4; m++ {
		s := sbox.Generate(sbox.Params{Polynomial: 0x11b, Multiplier: byte(m), Constant: 0x63})
		_, err := c.Evaluate(s, Options{})
		require.NoError(t, err)
	}
	assert.Equal(t, 2, c.Len())
	assert.NotNil(t, NewCache(0))
}

func TestWriteReport(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, "AES", sbox.Standard()))

	html := buf.String()
	assert.Contains(t, html, "<html")
	assert.Contains(t, html, "DDT spectrum")
	assert.Contains(t, html, "LAT spectrum")
	assert.Contains(t, html, "BCT spectrum")
	assert.Contains(t, html, "differential uniformity 4")
}
