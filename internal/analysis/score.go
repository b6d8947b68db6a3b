package analysis

import (
	"fmt"
	"sort"
	"time"

	"github.com/mrz1836/sboxforge/internal/metrics"
	"github.com/mrz1836/sboxforge/internal/sbox"
)

// Score is the reduced strength of one S-box. Boomerang is 0 when it was
// not computed.
type Score struct {
	Differential int `json:"differential"`
	Linear       int `json:"linear"`
	Boomerang    int `json:"boomerang,omitempty"`
}

// Less orders scores by differential, then linear uniformity. Lower is
// stronger. Boomerang uniformity is reported but does not rank.
func (s Score) Less(o Score) bool {
	if s.Differential != o.Differential {
		return s.Differential < o.Differential
	}
	return s.Linear < o.Linear
}

// Equal reports whether both scores are identical.
func (s Score) Equal(o Score) bool {
	return s == o
}

func (s Score) String() string {
	if s.Boomerang == 0 {
		return fmt.Sprintf("DU=%d LU=%d", s.Differential, s.Linear)
	}
	return fmt.Sprintf("DU=%d LU=%d BU=%d", s.Differential, s.Linear, s.Boomerang)
}

// Options selects which tables Evaluate computes.
type Options struct {
	// Boomerang adds the BCT, which costs roughly as much as the other two
	// tables together.
	Boomerang bool
}

// Evaluate scores s. DDT and LAT are defined for any table; the BCT needs
// the inverse, so a non-bijective box fails with ErrNotBijective when
// opts.Boomerang is set.
func Evaluate(s sbox.SBox, opts Options) (Score, error) {
	start := time.Now()

	score := Score{
		Differential: ComputeDDT(s).Uniformity(),
		Linear:       ComputeLAT(s).Uniformity(),
	}
	if opts.Boomerang {
		if err := s.Check(); err != nil {
			return Score{}, err
		}
		inv, _ := s.Inverse()
		score.Boomerang = ComputeBCT(s, inv).Uniformity()
	}

	metrics.Global.RecordEvaluation(time.Since(start))
	return score, nil
}

// EvaluateAll returns the full differential, linear and boomerang triple.
func EvaluateAll(s sbox.SBox) (Score, error) {
	return Evaluate(s, Options{Boomerang: true})
}

// Spectrum maps a table entry value to the number of entries holding it.
type Spectrum map[int]int

// Values returns the distinct entry values in ascending order.
func (sp Spectrum) Values() []int {
	out := make([]int, 0, len(sp))
	for v := range sp {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

// Total returns the number of entries counted.
func (sp Spectrum) Total() int {
	total := 0
	for _, c := range sp {
		total += c
	}
	return total
}
