package print

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathanfiss/insomnia-plugin-oracle/internal/db"
)

type Options struct {
	MaxWidth int // max width for each column, 0 = no limit
}

func RenderTable(w io.Writer, columns []string, rows []db.Record, opts Options) {
	if opts.MaxWidth <= 0 {
		opts.MaxWidth = 40
	}

	cols := len(columns)
	if cols == 0 {
		fmt.Fprintln(w, "(no columns)")
		return
	}

	// compute widths
	widths := make([]int, cols)
	for i, col := range columns {
		widths[i] = len(col)
	}

	for _, r := range rows {
		for i, cell := range cells(r, cols) {
			if l := len(cell); l > widths[i] {
				if l > opts.MaxWidth {
					l = opts.MaxWidth
				}
				widths[i] = l
			}
		}
	}

	// helpers
	sep := func(ch string) string {
		var b strings.Builder
		b.WriteString("+")
		for i := range widths {
			b.WriteString(strings.Repeat(ch, widths[i]+2))
			b.WriteString("+")
		}
		return b.String()
	}

	writeRow := func(cells []string) {
		var b strings.Builder
		b.WriteString("|")
		for i, c := range cells {
			cut := truncate(c, widths[i])
			b.WriteString(" ")
			b.WriteString(padRight(cut, widths[i]))
			b.WriteString(" |")
		}
		fmt.Fprintln(w, b.String())
	}

	// header
	fmt.Fprintln(w, sep("-"))
	writeRow(columns)
	fmt.Fprintln(w, sep("="))

	// data
	for _, r := range rows {
		writeRow(cells(r, cols))
	}
	fmt.Fprintln(w, sep("-"))
}

// cells renders one record as display strings, padded to n columns.
func cells(r db.Record, n int) []string {
	out := make([]string, n)
	for i := 0; i < n; i++ {
		if i < len(r.Values) {
			out[i] = formatCell(r.Values[i])
		}
	}
	return out
}

func formatCell(v db.Value) string {
	s := v.String()
	if v.Kind() == db.KindText && !isPrintable(s) {
		return fmt.Sprintf("<text %d bytes>", len(s))
	}
	return s
}

func isPrintable(s string) bool {
	for _, r := range s {
		if r < 32 && r != '\n' && r != '\t' {
			return false
		}
	}
	return true
}

func padRight(s string, w int) string {
	if len(s) >= w {
		return s
	}
	return s + strings.Repeat(" ", w-len(s))
}

func truncate(s string, w int) string {
	if len(s) <= w {
		return s
	}
	if w <= 1 {
		return s[:w]
	}
	if w == 2 {
		return s[:2]
	}
	return s[:w-3] + "..."
}
