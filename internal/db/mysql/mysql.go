package mysql

import (
	"github.com/go-sql-driver/mysql"

	"github.com/jonathanfiss/insomnia-plugin-oracle/internal/db"
)

const (
	DriverName  = "mysql"
	DefaultPort = 3306
)

type Dialect struct{}

var _ db.Dialect = Dialect{}

// Source builds a go-sql-driver DSN from a host[:port]/database connect
// target. Options become driver params.
func (Dialect) Source(d db.Descriptor) (string, string, error) {
	t, err := db.ParseTarget(d.ConnectTarget, DefaultPort)
	if err != nil {
		return "", "", err
	}

	cfg := mysql.NewConfig()
	cfg.User = d.User
	cfg.Passwd = d.Password
	cfg.Net = "tcp"
	cfg.Addr = t.HostPort()
	cfg.DBName = t.Path
	cfg.ParseTime = true
	for k, v := range t.Options {
		if len(v) == 0 {
			continue
		}
		if cfg.Params == nil {
			cfg.Params = map[string]string{}
		}
		cfg.Params[k] = v[0]
	}

	return DriverName, cfg.FormatDSN(), nil
}

// Convert keeps BLOB/BINARY columns binary. MySQL returns TEXT, VARCHAR and
// text-protocol numbers as []byte too.
func (Dialect) Convert(col db.Column, v any) db.Value {
	x, ok := v.([]byte)
	if !ok {
		return db.ValueOf(v)
	}

	switch col.Type {
	case "BLOB", "TINYBLOB", "MEDIUMBLOB", "LONGBLOB", "BINARY", "VARBINARY", "BIT", "GEOMETRY":
		return db.Binary(x)
	case "TINYINT", "SMALLINT", "MEDIUMINT", "INT", "BIGINT", "DECIMAL", "FLOAT", "DOUBLE", "YEAR",
		"UNSIGNED TINYINT", "UNSIGNED SMALLINT", "UNSIGNED MEDIUMINT", "UNSIGNED INT", "UNSIGNED BIGINT":
		if n, ok := db.Number(string(x)); ok {
			return n
		}
	}
	return db.Text(string(x))
}

func (Dialect) ListTablesQuery() string {
	return `
SELECT table_name
FROM information_schema.tables
WHERE table_type = 'BASE TABLE'
  AND table_schema = DATABASE()
ORDER BY table_name;
`
}

func (Dialect) DescribeTableQuery(table string) (string, map[string]any) {
	return `
SELECT column_name, data_type
FROM information_schema.columns
WHERE table_schema = DATABASE()
  AND table_name = :name
ORDER BY ordinal_position;
`, map[string]any{"name": table}
}
