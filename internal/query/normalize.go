package query

import (
	"fmt"
	"strings"

	"github.com/jonathanfiss/insomnia-plugin-oracle/internal/db"
)

// Operation is the upper-cased leading keyword of a statement.
type Operation string

const (
	OpSelect Operation = "SELECT"
	OpInsert Operation = "INSERT"
	OpUpdate Operation = "UPDATE"
	OpDelete Operation = "DELETE"
)

const genericMessage = "Operação executada com sucesso"

// Classify returns the first whitespace-delimited token of sql, upper-cased.
// It is deliberately not a parser: a leading comment or a WITH clause makes
// the statement a generic operation.
func Classify(sql string) Operation {
	fields := strings.Fields(sql)
	if len(fields) == 0 {
		return ""
	}
	return Operation(strings.ToUpper(fields[0]))
}

// IsMutation reports whether op returns an affected-row summary.
func (op Operation) IsMutation() bool {
	switch op {
	case OpInsert, OpUpdate, OpDelete:
		return true
	}
	return false
}

// Result is one of SelectResult, MutationResult or GenericResult.
type Result interface {
	Operation() Operation
}

type SelectResult struct {
	Op       Operation   `json:"operation"`
	Columns  []string    `json:"-"`
	Rows     []db.Record `json:"rows"`
	RowCount int         `json:"rowCount"`
}

func (r SelectResult) Operation() Operation { return r.Op }

type MutationResult struct {
	Op       Operation `json:"operation"`
	RowCount int64     `json:"rowCount"`
	Message  string    `json:"message"`
}

func (r MutationResult) Operation() Operation { return r.Op }

type GenericResult struct {
	Op      Operation `json:"operation"`
	Message string    `json:"message"`
}

func (r GenericResult) Operation() Operation { return r.Op }

// Raw is what the engine handed back: rows for a query, a count for exec.
type Raw struct {
	Rows     *db.Rows
	Affected int64
}

// Normalize shapes raw engine output according to op.
func Normalize(op Operation, raw Raw) Result {
	switch {
	case op == OpSelect:
		res := SelectResult{Op: op, Columns: []string{}, Rows: []db.Record{}}
		if raw.Rows != nil {
			res.Rows = raw.Rows.Records()
			res.Columns = raw.Rows.Names()
		}
		res.RowCount = len(res.Rows)
		return res
	case op.IsMutation():
		return MutationResult{
			Op:       op,
			RowCount: raw.Affected,
			Message:  fmt.Sprintf("%d linha(s) afetada(s)", raw.Affected),
		}
	default:
		return GenericResult{Op: op, Message: genericMessage}
	}
}
