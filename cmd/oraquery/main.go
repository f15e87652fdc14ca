package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jonathanfiss/insomnia-plugin-oracle/internal/config"
	"github.com/jonathanfiss/insomnia-plugin-oracle/internal/logger"
)

type cmdGlobal struct {
	flagConfig   string
	flagLogLevel string

	v   *viper.Viper
	cfg config.AppConfig
	log logger.Logger
}

func main() {
	app := &cobra.Command{}
	app.Use = "oraquery"
	app.Short = "Run SQL against Oracle and other databases over HTTP"
	app.Long = `Description:
  Run SQL against Oracle and other databases over HTTP

  oraquery serves a JSON endpoint that opens one connection per request,
  runs the statement, and returns normalized rows or affected-row counts.
  It also exposes the same execution as a template tag and as a one-shot
  command.
`
	app.SilenceUsage = true
	app.CompletionOptions = cobra.CompletionOptions{DisableDefaultCmd: true}

	// Global flags.
	globalCmd := cmdGlobal{v: viper.New()}
	app.PersistentFlags().StringVarP(&globalCmd.flagConfig, "config", "c", "", "Path to a config file")
	app.PersistentFlags().StringVar(&globalCmd.flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	_ = globalCmd.v.BindPFlag("general.log_level", app.PersistentFlags().Lookup("log-level"))

	app.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return globalCmd.load()
	}

	// serve sub-command.
	serveCmd := cmdServe{global: &globalCmd}
	app.AddCommand(serveCmd.Command())

	// run sub-command.
	runCmd := cmdRun{global: &globalCmd}
	app.AddCommand(runCmd.Command())

	// tags sub-command.
	tagsCmd := cmdTags{global: &globalCmd}
	app.AddCommand(tagsCmd.Command())

	// tag sub-command.
	tagCmd := cmdTag{global: &globalCmd}
	app.AddCommand(tagCmd.Command())

	// Run the main command and handle errors.
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func (c *cmdGlobal) load() error {
	cfg, err := config.Load(c.v, c.flagConfig)
	if err != nil {
		return err
	}
	c.cfg = cfg

	c.log = logger.New(cfg.General.LogLevel)
	logger.SetDefault(c.log)
	return nil
}

// CheckArgs validates the number of arguments passed to the function and shows the help if incorrect.
func (c *cmdGlobal) CheckArgs(cmd *cobra.Command, args []string, minArgs int, maxArgs int) (bool, error) {
	if len(args) < minArgs || (maxArgs != -1 && len(args) > maxArgs) {
		_ = cmd.Help()

		if len(args) == 0 {
			return true, nil
		}

		return true, fmt.Errorf("Invalid number of arguments")
	}

	return false, nil
}
