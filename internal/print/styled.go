package print

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/jonathanfiss/insomnia-plugin-oracle/internal/db"
)

var (
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	nullStyle   = cellStyle.Foreground(lipgloss.Color("243")).Italic(true)
)

// RenderStyled draws the rows as a bordered terminal table. NULL cells are
// dimmed.
func RenderStyled(w io.Writer, columns []string, rows []db.Record) {
	if len(columns) == 0 {
		fmt.Fprintln(w, "(no columns)")
		return
	}

	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		data = append(data, cells(r, len(columns)))
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(columns...).
		Rows(data...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row >= 0 && row < len(rows) && col < len(rows[row].Values) && rows[row].Values[col].IsNull() {
				return nullStyle
			}
			return cellStyle
		})

	fmt.Fprintln(w, t.Render())
}
