package query

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jonathanfiss/insomnia-plugin-oracle/internal/db"
)

type MockConnector struct {
	mock.Mock
}

func (m *MockConnector) Open(ctx context.Context, d db.Descriptor) (db.DB, error) {
	args := m.Called(ctx, d)
	conn, _ := args.Get(0).(db.DB)
	return conn, args.Error(1)
}

type MockDB struct {
	mock.Mock
}

func (m *MockDB) Close() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockDB) ListTables(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	tables, _ := args.Get(0).([]string)
	return tables, args.Error(1)
}

func (m *MockDB) DescribeTable(ctx context.Context, table string) ([]db.Column, error) {
	args := m.Called(ctx, table)
	cols, _ := args.Get(0).([]db.Column)
	return cols, args.Error(1)
}

func (m *MockDB) Query(ctx context.Context, sql string, params map[string]any) (*db.Rows, error) {
	args := m.Called(ctx, sql, params)
	rows, _ := args.Get(0).(*db.Rows)
	return rows, args.Error(1)
}

func (m *MockDB) Exec(ctx context.Context, sql string, params map[string]any) (int64, error) {
	args := m.Called(ctx, sql, params)
	return args.Get(0).(int64), args.Error(1)
}
