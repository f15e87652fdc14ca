package plugin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jonathanfiss/insomnia-plugin-oracle/internal/app"
	"github.com/jonathanfiss/insomnia-plugin-oracle/internal/config"
	"github.com/jonathanfiss/insomnia-plugin-oracle/internal/db"
	"github.com/jonathanfiss/insomnia-plugin-oracle/internal/httpapi"
	"github.com/jonathanfiss/insomnia-plugin-oracle/internal/httpserver"
	"github.com/jonathanfiss/insomnia-plugin-oracle/internal/logger"
	"github.com/jonathanfiss/insomnia-plugin-oracle/internal/query"
)

const TagName = "oracle_query"

// QueryTag builds the oracle_query template tag on top of gw.
func QueryTag(gw *query.Gateway) TemplateTag {
	return TemplateTag{
		Name:        TagName,
		DisplayName: "Oracle Query",
		Description: "Executa uma instrução SQL no Oracle e retorna JSON",
		Args: []Arg{
			{DisplayName: "User", Type: "string", Placeholder: "Usuário do Oracle"},
			{DisplayName: "Password", Type: "string", Placeholder: "Senha do Oracle"},
			{DisplayName: "Connect String", Type: "string", Placeholder: "host:port/service_name"},
			{DisplayName: "SQL", Type: "string", Placeholder: "SELECT * FROM tabela"},
			{DisplayName: "Params", Type: "string", Placeholder: `{"id": 1}`, Optional: true},
		},
		Run: func(ctx context.Context, args ...string) (string, error) {
			get := func(i int) string {
				if i < len(args) {
					return args[i]
				}
				return ""
			}

			params, err := query.ParseParams(get(4))
			if err != nil {
				return "", err
			}

			d := db.Descriptor{User: get(0), Password: get(1), ConnectTarget: get(2)}
			result, err := gw.Execute(ctx, d, query.Statement{SQL: get(3), Params: params})
			if err != nil {
				return "", err
			}

			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return "", fmt.Errorf("encoding result: %w", err)
			}
			return string(out), nil
		},
	}
}

// Register adds the template tags to host.
func Register(host Host, gw *query.Gateway) error {
	return host.RegisterTemplateTag(QueryTag(gw))
}

// Load wires the gateway from cfg, starts the HTTP server, registers the
// template tags and hands the server teardown to the host. The returned
// server is already listening. On error the host is left as it was.
func Load(host Host, cfg config.AppConfig, log logger.Logger) (*httpserver.StandardServer, error) {
	if log == nil {
		log = logger.Default()
	}

	registry := prometheus.NewRegistry()
	gw := query.NewGateway(
		app.Connector{
			DefaultDriver:  app.Driver(cfg.Database.Driver),
			ConnectTimeout: cfg.Database.ConnectTimeout,
		},
		query.WithLogger(log),
		query.WithRegisterer(registry),
	)

	controller := httpapi.NewQueryController(gw, httpapi.Options{
		ServiceName: cfg.Server.ServiceName,
		EchoEnabled: cfg.Server.EchoEnabled,
		Logger:      log,
	})
	server := httpserver.NewServer(httpserver.Options{
		Addr:           cfg.Server.Addr,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Metrics:        httpserver.NewMetrics(registry),
		Logger:         log,
	}, controller)

	// tags are registered only once the listener is up
	if err := server.Start(); err != nil {
		return nil, err
	}
	if err := Register(host, gw); err != nil {
		return nil, errors.Join(err, server.Stop(context.Background()))
	}
	host.OnShutdown(server.Stop)

	log.Infow("plugin loaded",
		"addr", server.Addr(),
		"driver", cfg.Database.Driver,
		"tags", []string{TagName},
	)
	return server, nil
}
