package oracle

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"

	go_ora "github.com/sijms/go-ora/v2"

	"github.com/jonathanfiss/insomnia-plugin-oracle/internal/db"
)

const (
	DriverName  = "oracle"
	DefaultPort = 1521
)

type Dialect struct{}

var (
	_ db.Dialect = Dialect{}
	_ db.Binder  = Dialect{}
)

// Source builds a go-ora URL from a host[:port]/service connect target.
// Extra ?key=value options are passed through as go-ora URL options.
func (Dialect) Source(d db.Descriptor) (string, string, error) {
	t, err := db.ParseTarget(d.ConnectTarget, DefaultPort)
	if err != nil {
		return "", "", err
	}
	if t.Path == "" {
		return "", "", fmt.Errorf("oracle connect target %q has no service name", d.ConnectTarget)
	}

	var opts map[string]string
	if len(t.Options) > 0 {
		opts = make(map[string]string, len(t.Options))
		for k, v := range t.Options {
			if len(v) > 0 {
				opts[k] = v[0]
			}
		}
	}

	return DriverName, go_ora.BuildUrl(t.Host, t.Port, t.Path, d.User, d.Password, opts), nil
}

// Convert treats every []byte as binary: RAW, LONG RAW and BLOB all arrive
// that way, character data comes back as string.
func (Dialect) Convert(col db.Column, v any) db.Value {
	switch x := v.(type) {
	case []byte:
		return db.Binary(x)
	case string:
		if isNumeric(col.Type) {
			if n, ok := db.Number(x); ok {
				return n
			}
		}
		return db.Text(x)
	default:
		return db.ValueOf(x)
	}
}

// Bind hands the statement to go-ora untouched with sql.Named arguments.
// The server resolves :name binds, so colons inside literals such as
// 'HH24:MI:SS' are left alone.
func (Dialect) Bind(query string, params map[string]any) (string, []any, error) {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	args := make([]any, 0, len(names))
	for _, name := range names {
		args = append(args, sql.Named(name, db.BindValue(params[name])))
	}
	return query, args, nil
}

func (Dialect) ListTablesQuery() string {
	return `
SELECT table_name
FROM user_tables
ORDER BY table_name
`
}

// DescribeTableQuery accepts "table" or "owner.table". Unquoted Oracle
// identifiers are stored upper-cased.
func (Dialect) DescribeTableQuery(table string) (string, map[string]any) {
	owner, name := "", strings.ToUpper(table)
	if dot := strings.Index(table, "."); dot != -1 {
		owner = strings.ToUpper(table[:dot])
		name = strings.ToUpper(table[dot+1:])
	}

	if owner == "" {
		return `
SELECT column_name, data_type
FROM user_tab_columns
WHERE table_name = :name
ORDER BY column_id
`, map[string]any{"name": name}
	}

	return `
SELECT column_name, data_type
FROM all_tab_columns
WHERE owner = :owner
  AND table_name = :name
ORDER BY column_id
`, map[string]any{"owner": owner, "name": name}
}

func isNumeric(typ string) bool {
	switch typ {
	case "NUMBER", "FLOAT", "BINARY_FLOAT", "BINARY_DOUBLE", "DECIMAL", "INTEGER":
		return true
	}
	return false
}
