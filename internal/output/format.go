// Package output renders command results as text or JSON.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"golang.org/x/term"
)

// Format selects how results are rendered.
type Format string

// Supported formats. FormatAuto is resolved by DetectFormat before use.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatAuto Format = "auto"
)

// Formatter writes command results to one writer in one format.
type Formatter struct {
	format Format
	writer io.Writer
}

// NewFormatter returns a Formatter for w. format should already be resolved.
func NewFormatter(format Format, w io.Writer) *Formatter {
	return &Formatter{format: format, writer: w}
}

// Format reports the resolved format.
func (f *Formatter) Format() Format { return f.format }

// Writer is the destination of every Print call.
func (f *Formatter) Writer() io.Writer { return f.writer }

// IsJSON is true when results are encoded as JSON.
func (f *Formatter) IsJSON() bool { return f.format == FormatJSON }

// Print renders a result. JSON mode indents v by two spaces; text mode
// prints strings and Stringers verbatim and anything else with %v, one
// value per line.
func (f *Formatter) Print(v any) error {
	if f.IsJSON() {
		return writeJSON(f.writer, v)
	}
	line := fmt.Sprint(v)
	if s, ok := v.(fmt.Stringer); ok {
		line = s.String()
	}
	_, err := io.WriteString(f.writer, line+"\n")
	return err
}

// Printf writes free-form text whatever the format.
func (f *Formatter) Printf(format string, args ...any) error {
	_, err := fmt.Fprintf(f.writer, format, args...)
	return err
}

// Println is Printf with fmt.Println spacing.
func (f *Formatter) Println(args ...any) error {
	_, err := fmt.Fprintln(f.writer, args...)
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// DetectFormat resolves FormatAuto against w: a terminal gets text, a pipe
// or file gets JSON. Explicit formats pass through.
func DetectFormat(w io.Writer, explicit Format) Format {
	if explicit != FormatAuto {
		return explicit
	}
	if isTerminal(w) {
		return FormatText
	}
	return FormatJSON
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	//nolint:gosec // G115: Fd() returns uintptr, safe conversion for term.IsTerminal
	return ok && term.IsTerminal(int(f.Fd()))
}

// ParseFormat maps a flag or config value to a Format. Anything other than
// json or text, in any case, is FormatAuto.
func ParseFormat(s string) Format {
	if f := Format(strings.ToLower(strings.TrimSpace(s))); f == FormatJSON || f == FormatText {
		return f
	}
	return FormatAuto
}
