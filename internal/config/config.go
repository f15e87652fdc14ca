package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "oraquery"

type AppConfig struct {
	General  GeneralConfig
	Server   ServerConfig
	Database DatabaseConfig
}

type GeneralConfig struct {
	LogLevel string
}

type ServerConfig struct {
	Addr           string
	ServiceName    string
	AllowedOrigins []string
	EchoEnabled    bool
}

type DatabaseConfig struct {
	// Driver is used when a request does not name one.
	Driver         string
	ConnectTimeout time.Duration
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("general.log_level", "info")
	v.SetDefault("server.addr", ":3000")
	v.SetDefault("server.service_name", "Oracle Query Endpoint")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.echo_enabled", true)
	v.SetDefault("database.driver", "oracle")
	v.SetDefault("database.connect_timeout", "0s")
}

// Load reads settings from defaults, an optional oraquery.yaml, ORAQUERY_*
// environment variables and any flags already bound to v. A missing config
// file is not an error; an explicitly named one is.
func Load(v *viper.Viper, configFile string) (AppConfig, error) {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("oraquery")
		v.AddConfigPath(".")
		v.AddConfigPath("config")
		v.AddConfigPath("/etc/oraquery")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return AppConfig{}, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := AppConfig{
		General: GeneralConfig{
			LogLevel: v.GetString("general.log_level"),
		},
		Server: ServerConfig{
			Addr:           v.GetString("server.addr"),
			ServiceName:    v.GetString("server.service_name"),
			AllowedOrigins: v.GetStringSlice("server.allowed_origins"),
			EchoEnabled:    v.GetBool("server.echo_enabled"),
		},
		Database: DatabaseConfig{
			Driver:         strings.ToLower(v.GetString("database.driver")),
			ConnectTimeout: v.GetDuration("database.connect_timeout"),
		},
	}

	if cfg.Server.Addr == "" {
		return AppConfig{}, fmt.Errorf("server.addr must not be empty")
	}
	if cfg.Database.ConnectTimeout < 0 {
		return AppConfig{}, fmt.Errorf("database.connect_timeout must not be negative")
	}
	return cfg, nil
}
