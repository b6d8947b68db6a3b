package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/sboxforge/internal/gf256"
	"github.com/mrz1836/sboxforge/internal/sbox"
	forgeerr "github.com/mrz1836/sboxforge/pkg/errors"
)

func TestSBoxGenerate_Text(t *testing.T) {
	env := newCLIEnv(t)

	res := env.run("sbox", "generate", "-o", "text")
	require.NoError(t, res.Err, res.Stderr)

	assert.Contains(t, res.Stdout, "S-box: poly=0x11b mult=0x01 const=0x63")
	assert.Contains(t, res.Stdout, "00 63 7C 77 7B F2 6B 6F C5 30 01 67 2B FE D7 AB 76")
	assert.Contains(t, res.Stdout, "50 53 D1 00 ED 20 FC B1 5B 6A CB BE 39 4A 4C 58 CF")
	assert.Contains(t, res.Stdout, "Fingerprint: "+sbox.Standard().Fingerprint())
	assert.Contains(t, res.Stdout, "Bijective:   yes")
}

func TestSBoxGenerate_JSONAndOut(t *testing.T) {
	env := newCLIEnv(t)
	outPath := env.path("sbox.bin")

	var resp SBoxResponse
	env.runJSON(&resp, "sbox", "generate", "--poly", "11d", "--mult", "5", "--const", "0x63", "--out", outPath)

	want := sbox.Generate(sbox.Params{Polynomial: 0x11D, Multiplier: 5, Constant: 0x63})
	require.NotNil(t, resp.Params)
	assert.Equal(t, gf256.Polynomial(0x11D), resp.Params.Polynomial)
	assert.Equal(t, byte(5), resp.Params.Multiplier)
	assert.Equal(t, encodeHex(want[:]), resp.Table)
	assert.Equal(t, want.Fingerprint(), resp.Fingerprint)
	assert.True(t, resp.Bijective)
	assert.Equal(t, outPath, resp.Saved)
	assert.Equal(t, want[:], env.readFile(outPath))
}

func TestSBoxGenerate_DefaultFormatIsJSONWhenPiped(t *testing.T) {
	env := newCLIEnv(t)

	res := env.run("sbox", "generate")
	require.NoError(t, res.Err)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(res.Stdout), "{"))
}

func TestSBoxGenerate_InvalidParams(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{"reducible polynomial", []string{"--poly", "0x100"}, forgeerr.ErrInvalidPolynomial},
		{"unparseable polynomial", []string{"--poly", "xyz"}, forgeerr.ErrInvalidPolynomial},
		{"zero multiplier", []string{"--mult", "0"}, forgeerr.ErrInvalidInput},
		{"multiplier out of range", []string{"--mult", "256"}, forgeerr.ErrInvalidInput},
		{"bad constant", []string{"--const", "0xg1"}, forgeerr.ErrInvalidInput},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			env := newCLIEnv(t)
			res := env.run(append([]string{"sbox", "generate"}, tc.args...)...)
			require.Error(t, res.Err)
			require.ErrorIs(t, res.Err, tc.want)
			assert.Equal(t, forgeerr.ExitInput, ExitCode(res.Err))
			assert.Contains(t, res.Stderr, forgeerr.Code(res.Err))
		})
	}
}

func TestSBoxShow(t *testing.T) {
	env := newCLIEnv(t)
	box := sbox.Standard()
	p := env.writeFile("aes.bin", box[:])

	res := env.run("sbox", "show", p, "-o", "text")
	require.NoError(t, res.Err)
	assert.Contains(t, res.Stdout, "S-box: "+p)
	assert.Contains(t, res.Stdout, box.Fingerprint())
}

func TestSBoxShow_NonBijectiveWarns(t *testing.T) {
	env := newCLIEnv(t)
	p := env.writeFile("zeros.bin", make([]byte, sbox.Size))

	res := env.run("sbox", "show", p, "-o", "text")
	require.NoError(t, res.Err)
	assert.Contains(t, res.Stdout, "Bijective:   no")
	assert.Contains(t, res.Stderr, "not a permutation")
}

func TestSBoxShow_BadArtifact(t *testing.T) {
	env := newCLIEnv(t)

	short := env.writeFile("short.bin", make([]byte, 255))
	res := env.run("sbox", "show", short)
	require.ErrorIs(t, res.Err, forgeerr.ErrInvalidArtifact)
	assert.Equal(t, forgeerr.ExitInput, ExitCode(res.Err))

	res = env.run("sbox", "show", env.path("missing.bin"))
	require.ErrorIs(t, res.Err, forgeerr.ErrNotFound)
	assert.Equal(t, forgeerr.ExitNotFound, ExitCode(res.Err))
}

func TestSBoxInverse(t *testing.T) {
	env := newCLIEnv(t)
	box := sbox.Standard()
	p := env.writeFile("aes.bin", box[:])
	invPath := env.path("inv.bin")

	var resp SBoxResponse
	env.runJSON(&resp, "sbox", "inverse", p, "--out", invPath)

	inv := env.readFile(invPath)
	require.Len(t, inv, sbox.Size)
	assert.Equal(t, byte(0x52), inv[0x00])
	assert.Equal(t, byte(0x7d), inv[0xff])
	for x := 0; x < sbox.Size; x++ {
		require.Equal(t, byte(x), inv[box[x]])
	}
	assert.Equal(t, encodeHex(inv), resp.Table)
}

func TestSBoxInverse_NonBijective(t *testing.T) {
	env := newCLIEnv(t)
	p := env.writeFile("zeros.bin", make([]byte, sbox.Size))

	res := env.run("sbox", "inverse", p)
	require.ErrorIs(t, res.Err, forgeerr.ErrIntegrity)
	assert.Equal(t, forgeerr.ExitIntegrity, ExitCode(res.Err))
}

func TestSBoxEvaluate_Standard(t *testing.T) {
	env := newCLIEnv(t)

	var resp EvaluateResponse
	env.runJSON(&resp, "sbox", "evaluate", "--boomerang")

	assert.Equal(t, 4, resp.Score.Differential)
	assert.Equal(t, 32, resp.Score.Linear)
	assert.Equal(t, 6, resp.Score.Boomerang)
	assert.Equal(t, 16, resp.MaxBias)
	assert.True(t, resp.Bijective)
}

func TestSBoxEvaluate_FileAndReport(t *testing.T) {
	env := newCLIEnv(t)
	box := sbox.Standard()
	p := env.writeFile("aes.bin", box[:])
	report := env.path("report.html")

	res := env.run("sbox", "evaluate", p, "--report", report, "-o", "text")
	require.NoError(t, res.Err, res.Stderr)
	assert.Contains(t, res.Stdout, "Differential uniformity: 4")
	assert.Contains(t, res.Stdout, "Linear uniformity:       32 (max |bias| 16)")
	assert.NotContains(t, res.Stdout, "Boomerang")
	assert.Contains(t, res.Stdout, "report written to "+report)

	html := string(env.readFile(report))
	assert.Contains(t, html, "<html")
	assert.Contains(t, html, "BCT spectrum")
}

func TestSBoxEvaluate_BoomerangNeedsPermutation(t *testing.T) {
	env := newCLIEnv(t)
	p := env.writeFile("zeros.bin", make([]byte, sbox.Size))

	var resp EvaluateResponse
	env.runJSON(&resp, "sbox", "evaluate", p)
	assert.Equal(t, 256, resp.Score.Differential)
	assert.False(t, resp.Bijective)

	res := env.run("sbox", "evaluate", p, "--boomerang")
	require.ErrorIs(t, res.Err, forgeerr.ErrNotBijective)
}

func TestSBoxPolys(t *testing.T) {
	env := newCLIEnv(t)

	var entries []PolynomialEntry
	env.runJSON(&entries, "sbox", "polys")
	require.Len(t, entries, 30)

	aes := 0
	for i, e := range entries {
		assert.Equal(t, i, e.Index)
		if e.AES {
			aes++
			assert.Equal(t, "0x11b", e.Polynomial)
			assert.Equal(t, "x^8+x^4+x^3+x+1", e.Terms)
		}
	}
	assert.Equal(t, 1, aes)

	res := env.run("sbox", "polys", "-o", "text")
	require.NoError(t, res.Err)
	assert.Contains(t, res.Stdout, "AES")
	assert.Contains(t, res.Stdout, "x^8+x^4+x^3+x^2+1")
}

func TestPolynomialTerms(t *testing.T) {
	t.Parallel()
	tests := []struct {
		poly gf256.Polynomial
		want string
	}{
		{0x11B, "x^8+x^4+x^3+x+1"},
		{0x11D, "x^8+x^4+x^3+x^2+1"},
		{0x1F5, "x^8+x^7+x^6+x^5+x^4+x^2+1"},
		{0x100, "x^8"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, polynomialTerms(tc.poly), tc.poly.String())
	}
}
