package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathanfiss/insomnia-plugin-oracle/internal/app"
	"github.com/jonathanfiss/insomnia-plugin-oracle/internal/plugin"
	"github.com/jonathanfiss/insomnia-plugin-oracle/internal/query"
)

func (c *cmdGlobal) registry() (*plugin.Registry, error) {
	gw := query.NewGateway(app.Connector{
		DefaultDriver:  app.Driver(c.cfg.Database.Driver),
		ConnectTimeout: c.cfg.Database.ConnectTimeout,
	}, query.WithLogger(c.log))

	host := plugin.NewRegistry()
	if err := plugin.Register(host, gw); err != nil {
		return nil, err
	}
	return host, nil
}

type cmdTags struct {
	global *cmdGlobal
}

func (c *cmdTags) Command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "tags"
	cmd.Short = "Print the template tag manifest"
	cmd.Long = `Description:
  Print the template tag manifest as JSON
`
	cmd.RunE = c.Run

	return cmd
}

func (c *cmdTags) Run(cmd *cobra.Command, args []string) error {
	exit, err := c.global.CheckArgs(cmd, args, 0, 0)
	if exit {
		return err
	}

	host, err := c.global.registry()
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(host.Tags())
}

type cmdTag struct {
	global *cmdGlobal
}

func (c *cmdTag) Command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "tag <name> [<arg>...]"
	cmd.Short = "Render a template tag"
	cmd.Long = `Description:
  Render a template tag the way the host would
`
	cmd.Example = `  oraquery tag oracle_query scott tiger db:1521/ORCLPDB1 "SELECT sysdate FROM dual"`
	cmd.RunE = c.Run

	return cmd
}

func (c *cmdTag) Run(cmd *cobra.Command, args []string) error {
	exit, err := c.global.CheckArgs(cmd, args, 1, -1)
	if exit {
		return err
	}

	host, err := c.global.registry()
	if err != nil {
		return err
	}

	out, err := host.Invoke(cmd.Context(), args[0], args[1:]...)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}
