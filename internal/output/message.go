package output

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Messenger prints short status lines. Info and success go to out, warnings
// to errOut.
type Messenger struct {
	out, errOut io.Writer
	info        *color.Color
	warn        *color.Color
	success     *color.Color
}

// NewMessenger creates a Messenger. mode is "always", "never" or "auto";
// auto colors only when the writer is a terminal.
func NewMessenger(out, errOut io.Writer, mode string) *Messenger {
	m := &Messenger{
		out:     out,
		errOut:  errOut,
		info:    color.New(color.FgCyan),
		warn:    color.New(color.FgYellow, color.Bold),
		success: color.New(color.FgGreen),
	}

	enabled := DetectFormat(out, FormatAuto) == FormatText
	switch mode {
	case "always":
		enabled = true
	case "never":
		enabled = false
	}
	for _, c := range []*color.Color{m.info, m.warn, m.success} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return m
}

// Infof prints an informational line.
func (m *Messenger) Infof(format string, args ...any) {
	_, _ = fmt.Fprintln(m.out, m.info.Sprint("info:")+" "+fmt.Sprintf(format, args...))
}

// Warnf prints a warning line.
func (m *Messenger) Warnf(format string, args ...any) {
	_, _ = fmt.Fprintln(m.errOut, m.warn.Sprint("warning:")+" "+fmt.Sprintf(format, args...))
}

// Successf prints a success line.
func (m *Messenger) Successf(format string, args ...any) {
	_, _ = fmt.Fprintln(m.out, m.success.Sprint("ok:")+" "+fmt.Sprintf(format, args...))
}

// Highlight returns s in green when color is enabled.
func (m *Messenger) Highlight(s string) string {
	return m.success.Sprint(s)
}
