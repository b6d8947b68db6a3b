package output

import (
	"fmt"
	"io"
	"strings"

	hex "github.com/tmthrgd/go-hex"
)

// Table lays out text rows in left-aligned columns. Short rows are padded
// with empty cells; every cell is padded to its column width.
type Table struct {
	headers  []string
	rows     [][]string
	noHeader bool
	gap      string
}

// NewTable returns a Table with the given column headers and a two-space gap.
func NewTable(headers ...string) *Table {
	return &Table{headers: headers, gap: "  "}
}

// AddRow appends one row of cells.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// SetNoHeader drops the header and its underline from the output.
func (t *Table) SetNoHeader(noHeader bool) {
	t.noHeader = noHeader
}

// SetSeparator replaces the gap printed between columns.
func (t *Table) SetSeparator(sep string) {
	t.gap = sep
}

// Render writes the table to w. An empty table writes nothing.
func (t *Table) Render(w io.Writer) error {
	widths := t.columnWidths()
	if len(widths) == 0 {
		return nil
	}

	lines := make([][]string, 0, len(t.rows)+2)
	if !t.noHeader && len(t.headers) > 0 {
		rule := make([]string, len(widths))
		for i, n := range widths {
			rule[i] = strings.Repeat("-", n)
		}
		lines = append(lines, t.headers, rule)
	}
	lines = append(lines, t.rows...)

	var sb strings.Builder
	for _, cells := range lines {
		for i, n := range widths {
			if i > 0 {
				sb.WriteString(t.gap)
			}
			var cell string
			if i < len(cells) {
				cell = cells[i]
			}
			sb.WriteString(cell)
			sb.WriteString(strings.Repeat(" ", n-len(cell)))
		}
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// String renders the table into a string.
func (t *Table) String() string {
	var sb strings.Builder
	_ = t.Render(&sb)
	return sb.String()
}

func (t *Table) columnWidths() []int {
	var widths []int
	grow := func(cells []string) {
		for i, c := range cells {
			if i == len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], len(c))
		}
	}
	grow(t.headers)
	for _, r := range t.rows {
		grow(r)
	}
	return widths
}

// ByteGrid lays out a 16x16 byte table in uppercase hex. Rows are labelled
// 00..F0 and columns 0..F, the way S-boxes are usually printed.
func ByteGrid(rows [16][16]byte) *Table {
	headers := []string{""}
	for c := 0; c < 16; c++ {
		headers = append(headers, fmt.Sprintf("%X", c))
	}

	t := NewTable(headers...)
	t.SetSeparator(" ")
	for r := range rows {
		digits := strings.ToUpper(hex.EncodeToString(rows[r][:]))
		cells := []string{fmt.Sprintf("%X0", r)}
		for c := 0; c < len(digits); c += 2 {
			cells = append(cells, digits[c:c+2])
		}
		t.AddRow(cells...)
	}
	return t
}
