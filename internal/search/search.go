package search

import (
	"context"
	"runtime"
	"sort"
	"strconv"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/mrz1836/sboxforge/internal/analysis"
	"github.com/mrz1836/sboxforge/internal/gf256"
	"github.com/mrz1836/sboxforge/internal/metrics"
	"github.com/mrz1836/sboxforge/internal/sbox"
	forgeerr "github.com/mrz1836/sboxforge/pkg/errors"
)

const (
	// DefaultTop is the number of candidates kept when Options.Top is unset.
	DefaultTop = 1

	// DefaultProgressInterval is the minimum time between progress lines.
	DefaultProgressInterval = 5 * time.Second
)

// Logger receives progress output. config.Logger satisfies it.
type Logger interface {
	Debug(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}

// Options controls a search run.
type Options struct {
	// Workers is the number of goroutines; 0 uses runtime.NumCPU.
	Workers int

	// Top is how many of the best candidates to keep.
	Top int

	// Boomerang includes the BCT in every score.
	Boomerang bool

	// Cache memoizes scores across candidates and runs. Optional.
	Cache *analysis.Cache

	// Logger receives rate-limited progress lines. Optional.
	Logger Logger

	// ProgressInterval throttles progress lines.
	ProgressInterval time.Duration
}

// Candidate is one scored, bijective S-box.
type Candidate struct {
	Index  int            `json:"index"`
	Params sbox.Params    `json:"params"`
	SBox   sbox.SBox      `json:"-"`
	Score  analysis.Score `json:"score"`
}

// better orders candidates by (differential, linear) score, then by
// enumeration index, so the result does not depend on which worker found a
// candidate.
func (c Candidate) better(o Candidate) bool {
	if c.Score.Less(o.Score) {
		return true
	}
	if o.Score.Less(c.Score) {
		return false
	}
	return c.Index < o.Index
}

// Result is the outcome of a completed search.
type Result struct {
	Best      Candidate     `json:"best"`
	Top       []Candidate   `json:"top"`
	Evaluated int           `json:"evaluated"`
	Rejected  int           `json:"rejected"`
	Duration  time.Duration `json:"duration"`
}

// Searcher runs a search over one Space.
type Searcher struct {
	space Space
	opts  Options
}

// NewSearcher validates space and fills in option defaults.
func NewSearcher(space Space, opts Options) (*Searcher, error) {
	if err := space.Validate(); err != nil {
		return nil, err
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	if opts.Workers > space.Size() {
		opts.Workers = space.Size()
	}
	if opts.Top <= 0 {
		opts.Top = DefaultTop
	}
	if opts.Logger == nil {
		opts.Logger = nopLogger{}
	}
	if opts.ProgressInterval <= 0 {
		opts.ProgressInterval = DefaultProgressInterval
	}
	return &Searcher{space: space, opts: opts}, nil
}

// Workers returns the effective worker count.
func (s *Searcher) Workers() int {
	return s.opts.Workers
}

// workerState is owned by a single worker until the group finishes.
type workerState struct {
	top       []Candidate
	evaluated int
	rejected  int
}

// keep inserts c when it is among the best limit candidates seen so far.
func (w *workerState) keep(c Candidate, limit int) {
	i := sort.Search(len(w.top), func(i int) bool { return c.better(w.top[i]) })
	if i >= limit {
		return
	}
	w.top = append(w.top, Candidate{})
	copy(w.top[i+1:], w.top[i:])
	w.top[i] = c
	if len(w.top) > limit {
		w.top = w.top[:limit]
	}
}

// Run scores every candidate in the space. Non-bijective candidates are
// counted and skipped. The winner is the lowest (differential, linear)
// score, with ties going to the lowest enumeration index, for any worker
// count. A canceled ctx returns ErrSearchCanceled and no partial result.
func (s *Searcher) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	total := s.space.Size()
	evalOpts := analysis.Options{Boomerang: s.opts.Boomerang}

	// built before any worker starts; read-only afterwards
	inverses := gf256.NewInverseCache(s.space.Polynomials, nil)

	s.opts.Logger.Debug("search started: %d candidates, %d polynomials, %d workers",
		total, len(s.space.Polynomials), s.opts.Workers)

	states := make([]workerState, s.opts.Workers)
	progress := &rate.Sometimes{Interval: s.opts.ProgressInterval}
	var counter, done atomic.Int64

	eg, egCtx := errgroup.WithContext(ctx)
	for w := range states {
		state := &states[w]
		eg.Go(func() error {
			for {
				i := int(counter.Add(1) - 1)
				if i >= total {
					return nil
				}
				if err := egCtx.Err(); err != nil {
					return err
				}

				c, ok, err := s.trial(inverses, i, evalOpts)
				if err != nil {
					return err
				}
				if ok {
					state.evaluated++
					state.keep(c, s.opts.Top)
				} else {
					state.rejected++
				}

				n := done.Add(1)
				progress.Do(func() {
					s.opts.Logger.Debug("search progress: %d/%d (%.1f%%)",
						n, total, 100*float64(n)/float64(total))
				})
			}
		})
	}

	if err := eg.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			s.opts.Logger.Debug("search canceled after %d candidates", done.Load())
			return nil, forgeerr.WithCause(forgeerr.ErrSearchCanceled, ctxErr)
		}
		return nil, err
	}

	result := &Result{Duration: time.Since(start)}
	var all []Candidate
	for _, st := range states {
		result.Evaluated += st.evaluated
		result.Rejected += st.rejected
		all = append(all, st.top...)
	}
	if result.Evaluated == 0 {
		return nil, forgeerr.WithDetails(forgeerr.ErrNoCandidates, map[string]string{
			"rejected": strconv.Itoa(result.Rejected),
		})
	}

	sort.Slice(all, func(i, j int) bool { return all[i].better(all[j]) })
	if len(all) > s.opts.Top {
		all = all[:s.opts.Top]
	}
	result.Top = all
	result.Best = all[0]

	s.opts.Logger.Debug("search finished: best %s %s, %d evaluated, %d rejected in %s",
		result.Best.Params, result.Best.Score, result.Evaluated, result.Rejected, result.Duration)
	return result, nil
}

// trial generates and scores candidate i. ok is false when the box is not
// a permutation.
func (s *Searcher) trial(inverses *gf256.InverseCache, i int, opts analysis.Options) (Candidate, bool, error) {
	params := s.space.At(i)

	var box sbox.SBox
	if table, found := inverses.Lookup(params.Polynomial); found {
		box = sbox.GenerateFrom(table, params)
	} else {
		box = sbox.Generate(params)
	}
	if !box.IsBijective() {
		metrics.Global.RecordRejection()
		return Candidate{}, false, nil
	}

	var (
		score analysis.Score
		err   error
	)
	if s.opts.Cache != nil {
		score, err = s.opts.Cache.Evaluate(box, opts)
	} else {
		score, err = analysis.Evaluate(box, opts)
	}
	if err != nil {
		return Candidate{}, false, err
	}

	return Candidate{Index: i, Params: params, SBox: box, Score: score}, true, nil
}
