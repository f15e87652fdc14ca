package db

import (
	"context"
	"fmt"
)

type Column struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type Row []Value

type Rows struct {
	Columns []Column
	Data    []Row
}

// Names returns the column names, suffixing duplicates with _1, _2...
func (r *Rows) Names() []string {
	names := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		names[i] = c.Name
	}
	return uniqueNames(names)
}

// Records returns the rows as ordered column-name mappings.
func (r *Rows) Records() []Record {
	names := r.Names()

	out := make([]Record, 0, len(r.Data))
	for _, row := range r.Data {
		out = append(out, Record{Columns: names, Values: row})
	}
	return out
}

// DB is a single open session against one database.
type DB interface {
	Close() error
	ListTables(ctx context.Context) ([]string, error)
	DescribeTable(ctx context.Context, table string) ([]Column, error)
	Query(ctx context.Context, sql string, params map[string]any) (*Rows, error)
	Exec(ctx context.Context, sql string, params map[string]any) (int64, error)
}

// Connector opens sessions for descriptors.
type Connector interface {
	Open(ctx context.Context, d Descriptor) (DB, error)
}

// Descriptor identifies where and as whom to connect.
type Descriptor struct {
	Driver        string
	User          string
	Password      string
	ConnectTarget string
}

// String never includes the password.
func (d Descriptor) String() string {
	driver := d.Driver
	if driver == "" {
		driver = "default"
	}
	return fmt.Sprintf("%s://%s@%s", driver, d.User, d.ConnectTarget)
}

func uniqueNames(names []string) []string {
	seen := make(map[string]int, len(names))
	out := make([]string, len(names))
	for i, n := range names {
		count, dup := seen[n]
		seen[n] = count + 1
		if !dup {
			out[i] = n
			continue
		}
		candidate := fmt.Sprintf("%s_%d", n, count)
		for {
			if _, taken := seen[candidate]; !taken {
				break
			}
			count++
			candidate = fmt.Sprintf("%s_%d", n, count)
		}
		seen[n] = count + 1
		seen[candidate] = 1
		out[i] = candidate
	}
	return out
}
