package query

import (
	"context"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jonathanfiss/insomnia-plugin-oracle/internal/db"
	"github.com/jonathanfiss/insomnia-plugin-oracle/internal/logger"
)

// Statement is a SQL text plus its named parameters.
type Statement struct {
	SQL    string
	Params map[string]any
}

// Gateway runs one statement per call over one freshly opened connection.
type Gateway struct {
	connector db.Connector
	log       logger.Logger
	metrics   *metrics
}

type Option func(*Gateway)

func WithLogger(l logger.Logger) Option {
	return func(g *Gateway) { g.log = l }
}

// WithRegisterer enables execution metrics on reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(g *Gateway) { g.metrics = newMetrics(reg) }
}

func NewGateway(connector db.Connector, opts ...Option) *Gateway {
	g := &Gateway{connector: connector, log: logger.Default()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Execute validates the request, opens a connection, runs the statement,
// closes the connection and returns the normalized result.
func (g *Gateway) Execute(ctx context.Context, d db.Descriptor, stmt Statement) (Result, error) {
	missing := missingFields(d)
	if strings.TrimSpace(stmt.SQL) == "" {
		missing = append(missing, "sql")
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Missing: missing}
	}
	if stmt.Params == nil {
		stmt.Params = map[string]any{}
	}

	op := Classify(stmt.SQL)
	start := time.Now()

	var result Result
	err := g.withSession(ctx, d, stmt, func(conn db.DB) error {
		if op == OpSelect {
			rows, err := conn.Query(ctx, stmt.SQL, stmt.Params)
			if err != nil {
				return err
			}
			result = Normalize(op, Raw{Rows: rows})
			return nil
		}

		affected, err := conn.Exec(ctx, stmt.SQL, stmt.Params)
		if err != nil {
			return err
		}
		result = Normalize(op, Raw{Affected: affected})
		return nil
	})
	g.metrics.observe(op, err, time.Since(start))
	if err != nil {
		return nil, err
	}

	g.log.Debugw("statement executed", "target", d.String(), "operation", op, "elapsed", time.Since(start))
	return result, nil
}

// Tables lists the tables visible to the connecting user.
func (g *Gateway) Tables(ctx context.Context, d db.Descriptor) ([]string, error) {
	if missing := missingFields(d); len(missing) > 0 {
		return nil, &ValidationError{Missing: missing}
	}

	var tables []string
	err := g.withSession(ctx, d, Statement{}, func(conn db.DB) error {
		var err error
		tables, err = conn.ListTables(ctx)
		return err
	})
	return tables, err
}

// Describe returns the columns of table ("table" or "schema.table").
func (g *Gateway) Describe(ctx context.Context, d db.Descriptor, table string) ([]db.Column, error) {
	missing := missingFields(d)
	if strings.TrimSpace(table) == "" {
		missing = append(missing, "table")
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Missing: missing}
	}

	var cols []db.Column
	err := g.withSession(ctx, d, Statement{}, func(conn db.DB) error {
		var err error
		cols, err = conn.DescribeTable(ctx, table)
		return err
	})
	return cols, err
}

// withSession owns the open/close cycle. Close runs exactly once after a
// successful open and its failure is only logged.
func (g *Gateway) withSession(ctx context.Context, d db.Descriptor, stmt Statement, fn func(db.DB) error) error {
	conn, err := g.connector.Open(ctx, d)
	if err != nil {
		g.log.Warnw("opening connection failed", "target", d.String(), "error", err)
		return newExecutionError(ErrConnection, err, stmt)
	}
	defer func() {
		if closeErr := conn.Close(); closeErr != nil {
			g.log.Warnw("closing connection failed", "target", d.String(), "error", closeErr)
		}
	}()

	if err := fn(conn); err != nil {
		g.log.Infow("statement failed", "target", d.String(), "error", err)
		return newExecutionError(ErrExecution, err, stmt)
	}
	return nil
}

func missingFields(d db.Descriptor) []string {
	var missing []string
	if strings.TrimSpace(d.User) == "" {
		missing = append(missing, "user")
	}
	if d.Password == "" {
		missing = append(missing, "password")
	}
	if strings.TrimSpace(d.ConnectTarget) == "" {
		missing = append(missing, "connectString")
	}
	return missing
}
