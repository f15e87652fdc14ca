package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jonathanfiss/insomnia-plugin-oracle/internal/app"
	"github.com/jonathanfiss/insomnia-plugin-oracle/internal/db"
	"github.com/jonathanfiss/insomnia-plugin-oracle/internal/logger"
	"github.com/jonathanfiss/insomnia-plugin-oracle/internal/prompt"
	"github.com/jonathanfiss/insomnia-plugin-oracle/internal/query"
)

type cmdRun struct {
	global *cmdGlobal

	flagDriver   string
	flagUser     string
	flagPassword string
	flagConnect  string
	flagSQL      string
	flagParams   string
	flagFormat   string
}

func (c *cmdRun) Command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "run [SQL]"
	cmd.Short = "Run one statement and print the result"
	cmd.Long = `Description:
  Run one statement and print the result

  The statement comes from --sql or the first argument. Parameters are a
  JSON object of :name bindings. When --password is omitted on a terminal
  the password is prompted for.
`
	cmd.Example = `  oraquery run --user scott --connect db:1521/ORCLPDB1 "SELECT * FROM emp WHERE deptno = :d" --params '{"d": 10}'
  oraquery run --driver sqlite --user x --password x --connect ./app.db --format table "SELECT * FROM users"`
	cmd.RunE = c.Run

	cmd.Flags().StringVar(&c.flagDriver, "driver", "", "Database driver (oracle, postgres, mysql, mssql, sqlite)")
	cmd.Flags().StringVarP(&c.flagUser, "user", "u", "", "Database user")
	cmd.Flags().StringVarP(&c.flagPassword, "password", "p", "", "Database password")
	cmd.Flags().StringVar(&c.flagConnect, "connect", "", "Connect string, e.g. host:1521/service")
	cmd.Flags().StringVarP(&c.flagSQL, "sql", "q", "", "SQL statement")
	cmd.Flags().StringVar(&c.flagParams, "params", "", "Bind parameters as a JSON object")
	cmd.Flags().StringVarP(&c.flagFormat, "format", "f", string(app.FormatAuto), "Output format (auto, table, json)")

	return cmd
}

func (c *cmdRun) Run(cmd *cobra.Command, args []string) error {
	exit, err := c.global.CheckArgs(cmd, args, 0, 1)
	if exit {
		return err
	}

	sql := c.flagSQL
	if len(args) == 1 {
		if sql != "" {
			return fmt.Errorf("SQL given both as --sql and as an argument")
		}
		sql = args[0]
	}

	password := c.flagPassword
	if password == "" && term.IsTerminal(int(os.Stdin.Fd())) {
		password, err = prompt.Password(os.Stdin, os.Stderr, fmt.Sprintf("Password for %s", c.flagUser))
		if err != nil {
			return err
		}
	}

	driver := c.flagDriver
	if driver == "" {
		driver = c.global.cfg.Database.Driver
	}

	logger.Debug("running statement", "driver", driver, "connect", c.flagConnect)

	gw := query.NewGateway(app.Connector{
		DefaultDriver:  app.Driver(c.global.cfg.Database.Driver),
		ConnectTimeout: c.global.cfg.Database.ConnectTimeout,
	}, query.WithLogger(c.global.log))

	err = app.RunStatement(cmd.Context(), gw, cmd.OutOrStdout(), app.RunOptions{
		Descriptor: db.Descriptor{
			Driver:        driver,
			User:          c.flagUser,
			Password:      password,
			ConnectTarget: c.flagConnect,
		},
		SQL:    sql,
		Params: c.flagParams,
		Format: app.Format(c.flagFormat),
		Styled: term.IsTerminal(int(os.Stdout.Fd())),
	})

	var execErr *query.ExecutionError
	if errors.As(err, &execErr) && execErr.Context.DebugSQL != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "SQL: %s\n", execErr.Context.DebugSQL)
	}
	return err
}
