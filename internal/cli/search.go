package cli

import (
	"context"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrz1836/sboxforge/internal/analysis"
	"github.com/mrz1836/sboxforge/internal/metrics"
	"github.com/mrz1836/sboxforge/internal/output"
	"github.com/mrz1836/sboxforge/internal/search"
)

// SearchResponse is the JSON form of the search command.
type SearchResponse struct {
	Size       int                `json:"space_size"`
	Workers    int                `json:"workers"`
	Evaluated  int                `json:"evaluated"`
	Rejected   int                `json:"rejected"`
	DurationMs int64              `json:"duration_ms"`
	Best       search.Candidate   `json:"best"`
	Top        []search.Candidate `json:"top"`
	Saved      string             `json:"saved,omitempty"`
	Metrics    metrics.Snapshot   `json:"metrics"`
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	searchPolys     string
	searchMults     string
	searchConsts    string
	searchWorkers   int
	searchTop       int
	searchBoomerang bool
	searchOut       string
	searchTimeout   time.Duration
)

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var searchCmd = &cobra.Command{
	Use:     "search",
	Short:   "Search the parameter space for the strongest S-box",
	GroupID: groupSBox,
	Long: `Enumerate every (polynomial, multiplier, constant) combination in the
search space, score each bijective S-box and report the best ones.

Candidates are ranked by differential uniformity, then linear uniformity;
lower is stronger. Ties go to the candidate enumerated first, so the result
does not depend on the number of workers. With --boomerang the boomerang
uniformity of each candidate is computed and reported but does not rank.

Unset flags fall back to the search section of the configuration. Ranges are
comma-separated values or lo-hi spans in decimal or hex. Polynomials are
always read as hex, with or without 0x. Interrupting the command cancels the
search.`,
	Example: `  sboxforge search
  sboxforge search --polys 0x11b,0x11d --mults 1-255 --consts 0x63 --top 5
  sboxforge search --mults 1-16 --consts 0-255 --boomerang --workers 8 --out best.bin
  sboxforge search --timeout 10m -o json`,
	Args: cobra.NoArgs,
	RunE: runSearch,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringVar(&searchPolys, "polys", "", `polynomials: "all" or a list such as 0x11b,0x11d`)
	searchCmd.Flags().StringVar(&searchMults, "mults", "", "multiplier range, e.g. 1-255")
	searchCmd.Flags().StringVar(&searchConsts, "consts", "", "constant range, e.g. 0x63 or 0-255")
	searchCmd.Flags().IntVar(&searchWorkers, "workers", 0, "number of workers (default from config, 0 means all CPUs)")
	searchCmd.Flags().IntVar(&searchTop, "top", 0, "number of candidates to report (default from config)")
	searchCmd.Flags().BoolVar(&searchBoomerang, "boomerang", false, "also compute boomerang uniformity for each candidate")
	searchCmd.Flags().StringVar(&searchOut, "out", "", "write the best S-box to this file")
	searchCmd.Flags().DurationVar(&searchTimeout, "timeout", 0, "abort the search after this long (0 disables)")
}

func runSearch(cmd *cobra.Command, _ []string) error {
	cc := currentContext()

	sc := cc.Config.Search
	if searchPolys != "" {
		sc.Polynomials = searchPolys
	}
	if searchMults != "" {
		sc.Multipliers = searchMults
	}
	if searchConsts != "" {
		sc.Constants = searchConsts
	}
	if cmd.Flags().Changed("workers") {
		sc.Workers = searchWorkers
	}
	if searchTop > 0 {
		sc.Top = searchTop
	}
	sc.Boomerang = sc.Boomerang || searchBoomerang

	merged := *cc.Config
	merged.Search = sc
	space, err := merged.SearchSpace()
	if err != nil {
		return err
	}

	if sc.ScoreCache > 0 {
		cc.WithScoreCache(analysis.NewCache(sc.ScoreCache))
	}

	searcher, err := search.NewSearcher(space, search.Options{
		Workers:   sc.Workers,
		Top:       sc.Top,
		Boomerang: sc.Boomerang,
		Cache:     cc.Scores,
		Logger:    cc.Logger,
	})
	if err != nil {
		return err
	}

	ctx, cancel := searchContext(cmd, searchTimeout)
	defer cancel()

	metrics.Global.Reset()
	result, err := searcher.Run(ctx)
	if err != nil {
		return err
	}

	resp := SearchResponse{
		Size:       space.Size(),
		Workers:    searcher.Workers(),
		Evaluated:  result.Evaluated,
		Rejected:   result.Rejected,
		DurationMs: result.Duration.Milliseconds(),
		Best:       result.Best,
		Top:        result.Top,
		Metrics:    metrics.Global.Snapshot(),
	}

	if searchOut != "" {
		if err = result.Best.SBox.Save(searchOut); err != nil {
			return err
		}
		resp.Saved = searchOut
	}

	if cc.Fmt.IsJSON() {
		return cc.Fmt.Print(resp)
	}
	return displaySearchText(cmd, cc, resp)
}

// searchContext applies --timeout when set.
func searchContext(cmd *cobra.Command, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout > 0 {
		return contextWithTimeout(cmd, timeout)
	}
	base := cmd.Context()
	if base == nil {
		base = context.Background()
	}
	return context.WithCancel(base)
}

func displaySearchText(cmd *cobra.Command, cc *CommandContext, resp SearchResponse) error {
	w := cmd.OutOrStdout()

	out(w, "Searched %d candidates with %d workers in %s\n",
		resp.Size, resp.Workers, (time.Duration(resp.DurationMs) * time.Millisecond).String())
	out(w, "Bijective: %d, rejected: %d\n", resp.Evaluated, resp.Rejected)
	if cc.Scores != nil {
		out(w, "Score cache: %d entries, %.1f%% hit rate\n", cc.Scores.Len(), metrics.Global.CacheHitRate())
	}
	outln(w)

	table := output.NewTable("RANK", "POLY", "MULT", "CONST", "SCORE")
	for i, c := range resp.Top {
		table.AddRow(
			strconv.Itoa(i+1),
			c.Params.Polynomial.String(),
			"0x"+encodeHex([]byte{c.Params.Multiplier}),
			"0x"+encodeHex([]byte{c.Params.Constant}),
			c.Score.String(),
		)
	}
	if err := table.Render(w); err != nil {
		return err
	}

	outln(w)
	cc.Msg.Successf("best: %s %s", cc.Msg.Highlight(resp.Best.Params.String()), resp.Best.Score)
	if resp.Saved != "" {
		cc.Msg.Successf("saved to %s", resp.Saved)
	}
	return nil
}
