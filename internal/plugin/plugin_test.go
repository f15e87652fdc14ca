package plugin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathanfiss/insomnia-plugin-oracle/internal/app"
	"github.com/jonathanfiss/insomnia-plugin-oracle/internal/config"
	"github.com/jonathanfiss/insomnia-plugin-oracle/internal/logger"
	"github.com/jonathanfiss/insomnia-plugin-oracle/internal/query"
)

func TestQueryTagManifest(t *testing.T) {
	tag := QueryTag(query.NewGateway(app.Connector{}))

	assert.Equal(t, "oracle_query", tag.Name)
	names := make([]string, 0, len(tag.Args))
	for _, a := range tag.Args {
		names = append(names, a.DisplayName)
	}
	assert.Equal(t, []string{"User", "Password", "Connect String", "SQL", "Params"}, names)
	assert.True(t, tag.Args[4].Optional)

	out, err := json.Marshal(tag)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "Run")
}

func TestQueryTagRun(t *testing.T) {
	gw := query.NewGateway(app.Connector{DefaultDriver: app.DriverSqlite}, query.WithLogger(logger.Nop()))
	host := NewRegistry()
	require.NoError(t, Register(host, gw))

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tag.db")

	_, err := host.Invoke(ctx, TagName, "u", "p", path, "CREATE TABLE t (id INTEGER, raw BLOB)")
	require.NoError(t, err)
	_, err = host.Invoke(ctx, TagName, "u", "p", path, "INSERT INTO t VALUES (:id, X'0A0B')", `{"id": 7}`)
	require.NoError(t, err)

	out, err := host.Invoke(ctx, TagName, "u", "p", path, "SELECT id, raw FROM t")
	require.NoError(t, err)
	assert.Equal(t, `{
  "operation": "SELECT",
  "rows": [
    {
      "id": 7,
      "raw": "0A0B"
    }
  ],
  "rowCount": 1
}`, out)

	_, err = host.Invoke(ctx, TagName, "", "p", path, "SELECT 1")
	assert.ErrorIs(t, err, query.ErrValidation)

	_, err = host.Invoke(ctx, TagName, "u", "p", path, "SELECT 1", "{bad")
	assert.ErrorIs(t, err, query.ErrParameterParse)
}

func TestLoad(t *testing.T) {
	host := NewRegistry()
	cfg := config.AppConfig{
		Server: config.ServerConfig{
			Addr:        "127.0.0.1:0",
			ServiceName: "Test Endpoint",
			EchoEnabled: true,
		},
		Database: config.DatabaseConfig{Driver: "sqlite"},
	}

	server, err := Load(host, cfg, logger.Nop())
	require.NoError(t, err)
	require.Len(t, host.Tags(), 1)

	resp, err := http.Get(fmt.Sprintf("http://%s/status", server.Addr()))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `"service":"Test Endpoint"`)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, host.Shutdown(ctx))

	_, err = http.Get(fmt.Sprintf("http://%s/status", server.Addr()))
	assert.Error(t, err)
}

func TestLoadFailsOnBusyAddress(t *testing.T) {
	first := NewRegistry()
	cfg := config.AppConfig{Server: config.ServerConfig{Addr: "127.0.0.1:0"}}
	server, err := Load(first, cfg, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = first.Shutdown(context.Background()) })

	cfg.Server.Addr = server.Addr()
	_, err = Load(NewRegistry(), cfg, logger.Nop())
	assert.ErrorContains(t, err, "listening on")
}

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func TestLoadRetryAfterFailedStart(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer busy.Close()

	host := NewRegistry()
	cfg := config.AppConfig{Server: config.ServerConfig{Addr: busy.Addr().String()}}
	_, err = Load(host, cfg, logger.Nop())
	require.ErrorContains(t, err, "listening on")
	assert.Empty(t, host.Tags())

	cfg.Server.Addr = "127.0.0.1:0"
	_, err = Load(host, cfg, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = host.Shutdown(context.Background()) })
	assert.Len(t, host.Tags(), 1)
}

func TestLoadDuplicateTagReleasesListener(t *testing.T) {
	host := NewRegistry()
	require.NoError(t, Register(host, query.NewGateway(app.Connector{})))

	addr := freeAddr(t)
	_, err := Load(host, config.AppConfig{Server: config.ServerConfig{Addr: addr}}, logger.Nop())
	require.ErrorIs(t, err, ErrDuplicateTag)
	assert.Len(t, host.Tags(), 1)

	l, err := net.Listen("tcp", addr)
	require.NoError(t, err)
	require.NoError(t, l.Close())
}
