package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.General.LogLevel)
	assert.Equal(t, ":3000", cfg.Server.Addr)
	assert.Equal(t, "Oracle Query Endpoint", cfg.Server.ServiceName)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.True(t, cfg.Server.EchoEnabled)
	assert.Equal(t, "oracle", cfg.Database.Driver)
	assert.Zero(t, cfg.Database.ConnectTimeout)
}

func TestLoadFileEnvAndFlags(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
server:
  addr: ":4000"
  echo_enabled: false
  allowed_origins:
    - http://localhost:8080
database:
  driver: Postgres
  connect_timeout: 5s
`), 0o600))

	t.Setenv("ORAQUERY_GENERAL_LOG_LEVEL", "debug")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("addr", "", "")
	require.NoError(t, flags.Parse([]string{"--addr", "127.0.0.1:5000"}))

	v := viper.New()
	require.NoError(t, v.BindPFlag("server.addr", flags.Lookup("addr")))

	cfg, err := Load(v, file)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.General.LogLevel)
	assert.Equal(t, "127.0.0.1:5000", cfg.Server.Addr)
	assert.False(t, cfg.Server.EchoEnabled)
	assert.Equal(t, []string{"http://localhost:8080"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 5*time.Second, cfg.Database.ConnectTimeout)
}

func TestLoadUnchangedFlagKeepsDefault(t *testing.T) {
	t.Chdir(t.TempDir())

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("addr", "", "")
	v := viper.New()
	require.NoError(t, v.BindPFlag("server.addr", flags.Lookup("addr")))

	cfg, err := Load(v, "")
	require.NoError(t, err)
	assert.Equal(t, ":3000", cfg.Server.Addr)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "reading config")

	t.Setenv("ORAQUERY_DATABASE_CONNECT_TIMEOUT", "-1s")
	t.Chdir(t.TempDir())
	_, err = Load(viper.New(), "")
	assert.ErrorContains(t, err, "connect_timeout")
}
