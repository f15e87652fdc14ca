package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jonathanfiss/insomnia-plugin-oracle/internal/db"
	"github.com/jonathanfiss/insomnia-plugin-oracle/internal/db/mssql"
	"github.com/jonathanfiss/insomnia-plugin-oracle/internal/db/mysql"
	"github.com/jonathanfiss/insomnia-plugin-oracle/internal/db/oracle"
	"github.com/jonathanfiss/insomnia-plugin-oracle/internal/db/postgres"
	"github.com/jonathanfiss/insomnia-plugin-oracle/internal/db/sqlite"
)

type Driver string

const (
	DriverOracle   Driver = "oracle"
	DriverSqlite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
	DriverMssql    Driver = "mssql"
	DriverMysql    Driver = "mysql"
)

// Drivers lists the supported driver names.
func Drivers() []Driver {
	return []Driver{DriverOracle, DriverPostgres, DriverMysql, DriverMssql, DriverSqlite}
}

// central factory
func dialectFor(driver Driver) (db.Dialect, error) {
	switch Driver(strings.ToLower(string(driver))) {
	case DriverOracle:
		return oracle.Dialect{}, nil
	case DriverPostgres, "postgresql", "pgx":
		return postgres.Dialect{}, nil
	case DriverMssql, "sqlserver":
		return mssql.Dialect{}, nil
	case DriverMysql, "mariadb":
		return mysql.Dialect{}, nil
	case DriverSqlite:
		return sqlite.Dialect{}, nil
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
}

// Connector opens one db.Session per call, picking the dialect from the
// descriptor or falling back to DefaultDriver.
type Connector struct {
	DefaultDriver  Driver
	ConnectTimeout time.Duration
}

var _ db.Connector = Connector{}

func (c Connector) Open(ctx context.Context, d db.Descriptor) (db.DB, error) {
	driver := Driver(d.Driver)
	if driver == "" {
		driver = c.DefaultDriver
	}
	if driver == "" {
		driver = DriverOracle
	}

	dialect, err := dialectFor(driver)
	if err != nil {
		return nil, err
	}

	session, err := db.Open(ctx, dialect, d, db.Options{ConnectTimeout: c.ConnectTimeout})
	if err != nil {
		return nil, err
	}
	return session, nil
}
