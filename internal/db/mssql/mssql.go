package mssql

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/azuread"

	"github.com/jonathanfiss/insomnia-plugin-oracle/internal/db"
)

const (
	DriverName  = "sqlserver"
	DefaultPort = 1433
)

func init() {
	sqlx.BindDriver(azuread.DriverName, sqlx.AT)
}

type Dialect struct{}

var _ db.Dialect = Dialect{}

// Source builds a sqlserver:// URL from a host[:port]/database[?opts]
// connect target. If the options contain "fedauth=", we use the Azure AD
// driver (azuresql) so things like ActiveDirectoryInteractive / AzCli work.
func (Dialect) Source(d db.Descriptor) (string, string, error) {
	t, err := db.ParseTarget(d.ConnectTarget, DefaultPort)
	if err != nil {
		return "", "", err
	}

	query := url.Values{}
	for k, v := range t.Options {
		query[k] = v
	}
	if t.Path != "" {
		query.Set("database", t.Path)
	}

	u := url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(d.User, d.Password),
		Host:     t.HostPort(),
		RawQuery: query.Encode(),
	}

	driverName := DriverName
	for k := range query {
		if strings.EqualFold(k, "fedauth") {
			driverName = azuread.DriverName // "azuresql"
		}
	}
	return driverName, u.String(), nil
}

func (Dialect) Convert(col db.Column, v any) db.Value {
	x, ok := v.([]byte)
	if !ok {
		return db.ValueOf(v)
	}

	switch col.Type {
	case "UNIQUEIDENTIFIER":
		return db.Text(formatUniqueIdentifier(x))
	case "DECIMAL", "NUMERIC", "MONEY", "SMALLMONEY":
		if n, ok := db.Number(string(x)); ok {
			return n
		}
		return db.Text(string(x))
	default:
		// BINARY, VARBINARY, IMAGE, ROWVERSION
		return db.Binary(x)
	}
}

func (Dialect) ListTablesQuery() string {
	return `
SELECT TABLE_SCHEMA + '.' + TABLE_NAME AS name
FROM INFORMATION_SCHEMA.TABLES
WHERE TABLE_TYPE = 'BASE TABLE'
ORDER BY TABLE_SCHEMA, TABLE_NAME;
`
}

// DescribeTableQuery accepts either "table" or "schema.table".
func (Dialect) DescribeTableQuery(table string) (string, map[string]any) {
	schema := "dbo"
	name := table
	if dot := strings.Index(table, "."); dot != -1 {
		schema = table[:dot]
		name = table[dot+1:]
	}

	return `
SELECT COLUMN_NAME, DATA_TYPE
FROM INFORMATION_SCHEMA.COLUMNS
WHERE TABLE_SCHEMA = :schema AND TABLE_NAME = :name
ORDER BY ORDINAL_POSITION;
`, map[string]any{"schema": schema, "name": name}
}

// SQL Server stores the first three GUID groups little-endian.
func formatUniqueIdentifier(b []byte) string {
	if len(b) != 16 {
		return fmt.Sprintf("%X", b)
	}

	return fmt.Sprintf("%02X%02X%02X%02X-%02X%02X-%02X%02X-%02X%02X-%02X%02X%02X%02X%02X%02X",
		b[3], b[2], b[1], b[0],
		b[5], b[4],
		b[7], b[6],
		b[8], b[9],
		b[10], b[11], b[12], b[13], b[14], b[15],
	)
}
