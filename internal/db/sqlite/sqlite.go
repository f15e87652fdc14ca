package sqlite

import (
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // register driver

	"github.com/jonathanfiss/insomnia-plugin-oracle/internal/db"
)

const DriverName = "sqlite"

func init() {
	sqlx.BindDriver(DriverName, sqlx.QUESTION)
}

type Dialect struct{}

var _ db.Dialect = Dialect{}

// Source uses the connect target as the database path. Credentials are not
// used by SQLite. Foreign keys are enabled unless the target sets pragmas.
func (Dialect) Source(d db.Descriptor) (string, string, error) {
	path := strings.TrimSpace(d.ConnectTarget)
	if path == "" {
		return "", "", fmt.Errorf("empty sqlite path")
	}

	if !strings.Contains(path, "_pragma=") {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		path += sep + "_pragma=foreign_keys(1)"
	}
	return DriverName, path, nil
}

// Convert relies on the driver: TEXT arrives as string, BLOB as []byte.
func (Dialect) Convert(_ db.Column, v any) db.Value {
	return db.ValueOf(v)
}

// Use sqlite_master (works everywhere), include tables + views,
// hide internal sqlite_% objects.
func (Dialect) ListTablesQuery() string {
	return `
		SELECT name
		FROM sqlite_master
		WHERE type IN ('table', 'view')
		  AND name NOT LIKE 'sqlite_%'
		ORDER BY lower(name);
	`
}

func (Dialect) DescribeTableQuery(table string) (string, map[string]any) {
	return `
		SELECT name, type
		FROM pragma_table_info(:table)
		ORDER BY cid;
	`, map[string]any{"table": table}
}
