package output

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// ANSI colors for terminal output
const (
	reset  = "\033[0m"
	bold   = "\033[1m"
	dim    = "\033[2m"
	yellow = "\033[33m"
	cyan   = "\033[36m"
)

type painter struct {
	noColor bool
}

func (p painter) color(c, text string) string {
	if p.noColor {
		return text
	}
	return c + text + reset
}

// table renders aligned columns separated by box-drawing rules
type table struct {
	headers []string
	rows    [][]string
	widths  []int
	right   []bool
}

func newTable(headers ...string) *table {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	return &table{headers: headers, widths: widths, right: make([]bool, len(headers))}
}

// alignRight right-aligns the given columns (amounts, quantities)
func (t *table) alignRight(cols ...int) {
	for _, c := range cols {
		t.right[c] = true
	}
}

func (t *table) addRow(cells ...string) {
	row := make([]string, len(t.headers))
	for i := range row {
		if i < len(cells) {
			row[i] = cells[i]
		}
		if n := utf8.RuneCountInString(row[i]); n > t.widths[i] {
			t.widths[i] = n
		}
	}
	t.rows = append(t.rows, row)
}

func (t *table) pad(i int, cell string) string {
	gap := strings.Repeat(" ", t.widths[i]-utf8.RuneCountInString(cell))
	if t.right[i] {
		return gap + cell
	}
	return cell + gap
}

func (t *table) line(cells []string) string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = t.pad(i, c)
	}
	return strings.TrimRight(strings.Join(out, " │ "), " ")
}

func (t *table) render(w io.Writer, p painter) error {
	if _, err := fmt.Fprintln(w, p.color(bold, t.line(t.headers))); err != nil {
		return err
	}

	sep := make([]string, len(t.widths))
	for i, width := range t.widths {
		sep[i] = strings.Repeat("─", width)
	}
	if _, err := fmt.Fprintln(w, strings.Join(sep, "─┼─")); err != nil {
		return err
	}

	for _, row := range t.rows {
		if _, err := fmt.Fprintln(w, t.line(row)); err != nil {
			return err
		}
	}
	return nil
}
