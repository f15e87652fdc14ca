package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jonathanfiss/insomnia-plugin-oracle/internal/db"
	"github.com/jonathanfiss/insomnia-plugin-oracle/internal/print"
	"github.com/jonathanfiss/insomnia-plugin-oracle/internal/query"
)

type Format string

const (
	FormatAuto  Format = "auto"
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// RunOptions describes a one-shot statement from the command line.
type RunOptions struct {
	Descriptor db.Descriptor
	SQL        string
	Params     string
	Format     Format
	// Styled selects the lipgloss renderer for tables.
	Styled bool
}

// RunStatement executes one statement and writes the result to w. Tables
// are only used for SELECT results; everything else is printed as JSON.
func RunStatement(ctx context.Context, gw *query.Gateway, w io.Writer, opts RunOptions) error {
	params, err := query.ParseParams(opts.Params)
	if err != nil {
		return err
	}

	result, err := gw.Execute(ctx, opts.Descriptor, query.Statement{SQL: opts.SQL, Params: params})
	if err != nil {
		return err
	}

	format := opts.Format
	if format == "" || format == FormatAuto {
		format = FormatJSON
		if opts.Styled {
			format = FormatTable
		}
	}

	sel, isSelect := result.(query.SelectResult)
	switch {
	case format == FormatTable && isSelect:
		if opts.Styled {
			print.RenderStyled(w, sel.Columns, sel.Rows)
		} else {
			print.RenderTable(w, sel.Columns, sel.Rows, print.Options{MaxWidth: 60})
		}
		fmt.Fprintf(w, "(%d row(s))\n", sel.RowCount)
		return nil
	case format == FormatTable || format == FormatJSON:
		return writeJSON(w, result)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
