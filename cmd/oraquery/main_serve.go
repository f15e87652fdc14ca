package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathanfiss/insomnia-plugin-oracle/internal/logger"
	"github.com/jonathanfiss/insomnia-plugin-oracle/internal/plugin"
)

const shutdownTimeout = 10 * time.Second

type cmdServe struct {
	global *cmdGlobal

	flagAddr   string
	flagDriver string
}

func (c *cmdServe) Command() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.Use = "serve"
	cmd.Short = "Start the HTTP endpoint"
	cmd.Long = `Description:
  Start the HTTP endpoint

  The endpoint listens until SIGINT or SIGTERM, then drains in-flight
  requests before exiting.
`
	cmd.RunE = c.Run

	cmd.Flags().StringVar(&c.flagAddr, "addr", "", "Listen address (default :3000)")
	cmd.Flags().StringVar(&c.flagDriver, "driver", "", "Driver used when a request names none (default oracle)")
	_ = c.global.v.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	_ = c.global.v.BindPFlag("database.driver", cmd.Flags().Lookup("driver"))

	return cmd
}

func (c *cmdServe) Run(cmd *cobra.Command, args []string) error {
	exit, err := c.global.CheckArgs(cmd, args, 0, 0)
	if exit {
		return err
	}

	host := plugin.NewRegistry()
	server, err := plugin.Load(host, c.global.cfg, c.global.log)
	if err != nil {
		return err
	}
	logger.Info("endpoint available", "url", "http://"+server.Addr()+"/query")
	if c.global.cfg.Server.EchoEnabled {
		logger.Warn("echo endpoint enabled, request bodies are reflected verbatim", "url", "http://"+server.Addr()+"/echo")
	}

	signalChannel := make(chan os.Signal, 1)
	signal.Notify(signalChannel, os.Interrupt, syscall.SIGTERM)
	sig := <-signalChannel
	logger.Info("shutting down", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err = host.Shutdown(ctx)
	if err != nil {
		logger.Error("shutdown incomplete", "error", err)
		return err
	}
	return nil
}
