package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

// Dialect adapts one database/sql driver to the DB interface.
type Dialect interface {
	// Source returns the database/sql driver name and DSN for a descriptor.
	Source(d Descriptor) (driver, dsn string, err error)
	// Convert maps a scanned driver value into a Value for the given column.
	Convert(col Column, v any) Value
	ListTablesQuery() string
	// DescribeTableQuery returns a query yielding (column name, data type)
	// rows, using :name parameters.
	DescribeTableQuery(table string) (string, map[string]any)
}

type Options struct {
	// ConnectTimeout bounds the dial; zero leaves it to the driver.
	ConnectTimeout time.Duration
}

var _ DB = (*Session)(nil)

// Session is one dedicated connection. It is not safe for concurrent use.
type Session struct {
	dialect Dialect
	pool    *sqlx.DB
	conn    *sqlx.Conn
}

// Open dials exactly one connection for the descriptor.
func Open(ctx context.Context, dialect Dialect, d Descriptor, opts Options) (*Session, error) {
	driver, dsn, err := dialect.Source(d)
	if err != nil {
		return nil, err
	}

	pool, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	pool.SetMaxOpenConns(1)
	pool.SetMaxIdleConns(1)

	dialCtx := ctx
	if opts.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, opts.ConnectTimeout)
		defer cancel()
	}

	conn, err := pool.Connx(dialCtx)
	if err != nil {
		_ = pool.Close()
		return nil, err
	}

	return &Session{dialect: dialect, pool: pool, conn: conn}, nil
}

// --- db.DB implementation ---

func (s *Session) Close() error {
	if s.pool == nil {
		return nil
	}
	err := errors.Join(s.conn.Close(), s.pool.Close())
	s.conn, s.pool = nil, nil
	return err
}

func (s *Session) ListTables(ctx context.Context) ([]string, error) {
	rows, err := s.Query(ctx, s.dialect.ListTablesQuery(), nil)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(rows.Data))
	for _, r := range rows.Data {
		if len(r) == 0 {
			continue
		}
		out = append(out, r[0].String())
	}
	return out, nil
}

func (s *Session) DescribeTable(ctx context.Context, table string) ([]Column, error) {
	q, params := s.dialect.DescribeTableQuery(table)
	rows, err := s.Query(ctx, q, params)
	if err != nil {
		return nil, err
	}

	cols := make([]Column, 0, len(rows.Data))
	for _, r := range rows.Data {
		if len(r) < 2 {
			return nil, fmt.Errorf("describe %s: expected 2 columns, got %d", table, len(r))
		}
		cols = append(cols, Column{
			Name: r[0].String(),
			Type: r[1].String(),
		})
	}
	return cols, nil
}

func (s *Session) Query(ctx context.Context, sqlQuery string, params map[string]any) (*Rows, error) {
	q, args, err := s.bind(sqlQuery, params)
	if err != nil {
		return nil, err
	}

	rows, err := s.conn.QueryxContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	colNames, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}

	header := make([]Column, len(colNames))
	for i, name := range colNames {
		typ := ""
		if i < len(colTypes) && colTypes[i] != nil {
			typ = strings.ToUpper(colTypes[i].DatabaseTypeName())
		}
		header[i] = Column{
			Name: name,
			Type: typ,
		}
	}

	data := []Row{}
	for rows.Next() {
		raw, err := rows.SliceScan()
		if err != nil {
			return nil, err
		}

		row := make(Row, len(raw))
		for i, v := range raw {
			row[i] = s.dialect.Convert(header[i], v)
		}
		data = append(data, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &Rows{
		Columns: header,
		Data:    data,
	}, nil
}

func (s *Session) Exec(ctx context.Context, sqlQuery string, params map[string]any) (int64, error) {
	q, args, err := s.bind(sqlQuery, params)
	if err != nil {
		return 0, err
	}

	result, err := s.conn.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		// DDL and some drivers do not report a count
		return 0, nil
	}
	return affected, nil
}

// bind compiles :name placeholders into the driver's bind style. Statements
// without parameters are sent verbatim. Dialects implementing Binder bind
// on their own.
func (s *Session) bind(sqlQuery string, params map[string]any) (string, []any, error) {
	if len(params) == 0 {
		return sqlQuery, nil, nil
	}

	if b, ok := s.dialect.(Binder); ok {
		q, bound, err := b.Bind(sqlQuery, params)
		if err != nil {
			return "", nil, fmt.Errorf("binding parameters: %w", err)
		}
		return q, bound, nil
	}

	args := make(map[string]any, len(params))
	for k, v := range params {
		args[k] = BindValue(v)
	}

	q, bound, err := s.pool.BindNamed(EscapeColons(sqlQuery), args)
	if err != nil {
		return "", nil, fmt.Errorf("binding parameters: %w", err)
	}
	return q, bound, nil
}

// BindValue converts decoded JSON scalars into driver-friendly arguments.
func BindValue(v any) any {
	n, ok := v.(json.Number)
	if !ok {
		return v
	}
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}
