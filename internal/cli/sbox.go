package cli

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrz1836/sboxforge/internal/analysis"
	"github.com/mrz1836/sboxforge/internal/fileutil"
	"github.com/mrz1836/sboxforge/internal/gf256"
	"github.com/mrz1836/sboxforge/internal/output"
	"github.com/mrz1836/sboxforge/internal/sbox"
)

// reportPerm is the mode of HTML reports.
const reportPerm = 0o644

// SBoxResponse is the JSON form of a printed S-box.
type SBoxResponse struct {
	Source      string       `json:"source"`
	Params      *sbox.Params `json:"params,omitempty"`
	Fingerprint string       `json:"fingerprint"`
	Bijective   bool         `json:"bijective"`
	Table       string       `json:"table"`
	Saved       string       `json:"saved,omitempty"`
}

// EvaluateResponse is the JSON form of sbox evaluate.
type EvaluateResponse struct {
	Source      string         `json:"source"`
	Params      *sbox.Params   `json:"params,omitempty"`
	Fingerprint string         `json:"fingerprint"`
	Bijective   bool           `json:"bijective"`
	Score       analysis.Score `json:"score"`
	MaxBias     int            `json:"max_bias"`
	Report      string         `json:"report,omitempty"`
}

// PolynomialEntry is one row of sbox polys.
type PolynomialEntry struct {
	Index      int    `json:"index"`
	Polynomial string `json:"polynomial"`
	Terms      string `json:"terms"`
	AES        bool   `json:"aes"`
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level flag variables
var (
	generateBox boxFlags
	generateOut string
	inverseOut  string
	evaluateBox boxFlags
	evalBoomer  bool
	evalReport  string
)

// sboxCmd is the parent command for S-box operations.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var sboxCmd = &cobra.Command{
	Use:     "sbox",
	Short:   "Generate, inspect and evaluate S-boxes",
	GroupID: groupSBox,
	Long: `Generate S-boxes from field and affine parameters, load and invert
256-byte S-box artifacts, and measure their differential, linear and
boomerang uniformity.`,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var sboxGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate an S-box from parameters",
	Long: `Generate the S-box x -> A(inv(x) * mult) + const over the field defined by
the polynomial, where A is the fixed AES affine map. The table is printed as a
16x16 hex grid with its SHA3-256 fingerprint.

With --out the raw 256-byte table is also written to a file.`,
	Example: `  sboxforge sbox generate
  sboxforge sbox generate --poly 0x11d --mult 0x05 --const 0x63 --out sbox.bin
  sboxforge sbox generate --poly 11b -o json`,
	Args: cobra.NoArgs,
	RunE: runSBoxGenerate,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var sboxShowCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Print a 256-byte S-box artifact",
	Long: `Load a raw 256-byte S-box artifact and print it as a 16x16 hex grid with
its fingerprint and bijectivity.`,
	Example: `  sboxforge sbox show sbox.bin`,
	Args:    cobra.ExactArgs(1),
	RunE:    runSBoxShow,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var sboxInverseCmd = &cobra.Command{
	Use:   "inverse <file>",
	Short: "Compute the inverse of an S-box artifact",
	Long: `Load a raw 256-byte S-box artifact and compute its inverse table. The
artifact must be a permutation.`,
	Example: `  sboxforge sbox inverse sbox.bin
  sboxforge sbox inverse sbox.bin --out inv_sbox.bin`,
	Args: cobra.ExactArgs(1),
	RunE: runSBoxInverse,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var sboxEvaluateCmd = &cobra.Command{
	Use:   "evaluate [file]",
	Short: "Measure the uniformities of an S-box",
	Long: `Compute the difference distribution table and the linear approximation
table of an S-box and report differential and linear uniformity. With
--boomerang the boomerang connectivity table is computed as well.

The box is read from the file argument when given, otherwise generated from
--poly, --mult and --const. --report writes an HTML page charting the value
spectrum of each table.`,
	Example: `  sboxforge sbox evaluate
  sboxforge sbox evaluate sbox.bin --boomerang
  sboxforge sbox evaluate --poly 0x11d --mult 0x05 --report report.html`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSBoxEvaluate,
}

//nolint:gochecknoglobals // Cobra CLI pattern requires package-level command variables
var sboxPolysCmd = &cobra.Command{
	Use:   "polys",
	Short: "List the irreducible field polynomials",
	Long:  `List the 30 irreducible degree-8 polynomials over GF(2) that define the search space.`,
	Example: `  sboxforge sbox polys
  sboxforge sbox polys -o json`,
	Args: cobra.NoArgs,
	RunE: runSBoxPolys,
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(sboxCmd)
	sboxCmd.AddCommand(sboxGenerateCmd, sboxShowCmd, sboxInverseCmd, sboxEvaluateCmd, sboxPolysCmd)

	generateBox.register(sboxGenerateCmd, "")
	sboxGenerateCmd.Flags().StringVar(&generateOut, "out", "", "write the raw 256-byte table to this file")

	sboxInverseCmd.Flags().StringVar(&inverseOut, "out", "", "write the raw 256-byte inverse table to this file")

	evaluateBox.register(sboxEvaluateCmd, "")
	sboxEvaluateCmd.Flags().BoolVar(&evalBoomer, "boomerang", false, "also compute boomerang uniformity")
	sboxEvaluateCmd.Flags().StringVar(&evalReport, "report", "", "write an HTML spectrum report to this file")
}

func runSBoxGenerate(cmd *cobra.Command, _ []string) error {
	cc := currentContext()

	p, err := generateBox.params(cc.Config)
	if err != nil {
		return err
	}
	box := sbox.Generate(p)
	cc.Logger.Debug("generated S-box %s fingerprint %s", p, box.Fingerprint())

	if generateOut != "" {
		if err = box.Save(generateOut); err != nil {
			return err
		}
	}

	return displayBox(cmd.OutOrStdout(), cc, boxSource{Box: box, Params: &p, Label: p.String()}, generateOut)
}

func runSBoxShow(cmd *cobra.Command, args []string) error {
	cc := currentContext()

	box, err := sbox.Load(args[0])
	if err != nil {
		return err
	}
	return displayBox(cmd.OutOrStdout(), cc, boxSource{Box: box, Label: args[0]}, "")
}

func runSBoxInverse(cmd *cobra.Command, args []string) error {
	cc := currentContext()

	box, err := sbox.Load(args[0])
	if err != nil {
		return err
	}
	inv, err := box.Inverse()
	if err != nil {
		return err
	}

	if inverseOut != "" {
		if err = inv.Save(inverseOut); err != nil {
			return err
		}
	}

	return displayBox(cmd.OutOrStdout(), cc, boxSource{Box: inv, Label: "inverse of " + args[0]}, inverseOut)
}

func runSBoxEvaluate(cmd *cobra.Command, args []string) error {
	cc := currentContext()

	var src boxSource
	if len(args) == 1 {
		box, err := sbox.Load(args[0])
		if err != nil {
			return err
		}
		src = boxSource{Box: box, Label: args[0]}
	} else {
		p, err := evaluateBox.params(cc.Config)
		if err != nil {
			return err
		}
		src = boxSource{Box: sbox.Generate(p), Params: &p, Label: p.String()}
	}

	score, err := analysis.Evaluate(src.Box, analysis.Options{Boomerang: evalBoomer})
	if err != nil {
		return err
	}
	cc.Logger.Debug("evaluated %s: %s", src.Label, score)

	resp := EvaluateResponse{
		Source:      src.Label,
		Params:      src.Params,
		Fingerprint: src.Box.Fingerprint(),
		Bijective:   src.Box.IsBijective(),
		Score:       score,
		MaxBias:     score.Linear / 2,
	}

	if evalReport != "" {
		if err = writeReport(evalReport, src); err != nil {
			return err
		}
		resp.Report = evalReport
	}

	if cc.Fmt.IsJSON() {
		return cc.Fmt.Print(resp)
	}

	w := cmd.OutOrStdout()
	out(w, "S-box:                   %s\n", resp.Source)
	out(w, "Fingerprint:             %s\n", resp.Fingerprint)
	out(w, "Bijective:               %s\n", yesNo(resp.Bijective))
	out(w, "Differential uniformity: %d\n", score.Differential)
	out(w, "Linear uniformity:       %d (max |bias| %d)\n", score.Linear, resp.MaxBias)
	if evalBoomer {
		out(w, "Boomerang uniformity:    %d\n", score.Boomerang)
	}
	if resp.Report != "" {
		cc.Msg.Successf("report written to %s", resp.Report)
	}
	return nil
}

func runSBoxPolys(cmd *cobra.Command, _ []string) error {
	cc := currentContext()

	polys := gf256.Catalog()
	entries := make([]PolynomialEntry, len(polys))
	for i, p := range polys {
		entries[i] = PolynomialEntry{
			Index:      i,
			Polynomial: p.String(),
			Terms:      polynomialTerms(p),
			AES:        p == gf256.AES,
		}
	}

	if cc.Fmt.IsJSON() {
		return cc.Fmt.Print(entries)
	}

	table := output.NewTable("#", "POLY", "TERMS", "")
	for _, e := range entries {
		marker := ""
		if e.AES {
			marker = "AES"
		}
		table.AddRow(strconv.Itoa(e.Index), e.Polynomial, e.Terms, marker)
	}
	return table.Render(cmd.OutOrStdout())
}

// displayBox prints a box as JSON or as a grid with its metadata.
func displayBox(w io.Writer, cc *CommandContext, src boxSource, saved string) error {
	resp := SBoxResponse{
		Source:      src.Label,
		Params:      src.Params,
		Fingerprint: src.Box.Fingerprint(),
		Bijective:   src.Box.IsBijective(),
		Table:       encodeHex(src.Box[:]),
		Saved:       saved,
	}

	if cc.Fmt.IsJSON() {
		return cc.Fmt.Print(resp)
	}

	out(w, "S-box: %s\n\n", resp.Source)
	if err := printGrid(w, src.Box); err != nil {
		return err
	}
	outln(w)
	out(w, "Fingerprint: %s\n", resp.Fingerprint)
	out(w, "Bijective:   %s\n", yesNo(resp.Bijective))
	if !resp.Bijective {
		cc.Msg.Warnf("table is not a permutation; it cannot be used for decryption")
	}
	if saved != "" {
		cc.Msg.Successf("saved to %s", saved)
	}
	return nil
}

// writeReport renders the HTML spectrum report for src to path.
func writeReport(path string, src boxSource) error {
	var buf bytes.Buffer
	if err := analysis.WriteReport(&buf, src.Label, src.Box); err != nil {
		return err
	}
	return fileutil.WriteAtomic(path, buf.Bytes(), reportPerm)
}

// polynomialTerms renders p as x^8+x^4+x^3+x+1.
func polynomialTerms(p gf256.Polynomial) string {
	var terms []string
	for bit := 8; bit >= 0; bit-- {
		if p&(1<<bit) == 0 {
			continue
		}
		switch bit {
		case 0:
			terms = append(terms, "1")
		case 1:
			terms = append(terms, "x")
		default:
			terms = append(terms, fmt.Sprintf("x^%d", bit))
		}
	}
	return strings.Join(terms, "+")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
