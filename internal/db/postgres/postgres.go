package postgres

import (
	"net/url"
	"strings"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // register pgx stdlib driver

	"github.com/jonathanfiss/insomnia-plugin-oracle/internal/db"
)

const (
	DriverName  = "pgx"
	DefaultPort = 5432
)

type Dialect struct{}

var _ db.Dialect = Dialect{}

// Source builds a postgres:// URL from a host[:port]/database connect target.
func (Dialect) Source(d db.Descriptor) (string, string, error) {
	t, err := db.ParseTarget(d.ConnectTarget, DefaultPort)
	if err != nil {
		return "", "", err
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     t.HostPort(),
		RawQuery: t.Options.Encode(),
	}
	if t.Path != "" {
		u.Path = "/" + t.Path
	}
	return DriverName, u.String(), nil
}

func (Dialect) Convert(col db.Column, v any) db.Value {
	switch x := v.(type) {
	case []byte:
		if col.Type == "BYTEA" {
			return db.Binary(x)
		}
		return db.Text(string(x))
	case [16]byte:
		return db.Text(uuid.UUID(x).String())
	case string:
		if col.Type == "NUMERIC" {
			if n, ok := db.Number(x); ok {
				return n
			}
		}
		return db.Text(x)
	default:
		return db.ValueOf(x)
	}
}

func (Dialect) ListTablesQuery() string {
	return `
SELECT table_schema || '.' || table_name AS name
FROM information_schema.tables
WHERE table_type = 'BASE TABLE'
  AND table_schema NOT IN ('pg_catalog', 'information_schema')
ORDER BY table_schema, table_name;
`
}

// DescribeTableQuery accepts either "table" or "schema.table".
func (Dialect) DescribeTableQuery(table string) (string, map[string]any) {
	schema := "public"
	name := table
	if dot := strings.Index(table, "."); dot != -1 {
		schema = table[:dot]
		name = table[dot+1:]
	}

	return `
SELECT column_name, data_type
FROM information_schema.columns
WHERE table_schema = :schema
  AND table_name = :name
ORDER BY ordinal_position;
`, map[string]any{"schema": schema, "name": name}
}
