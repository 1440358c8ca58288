// Package config loads server configuration from an optional YAML file and
// PRODPLAN_* environment overrides.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the complete server configuration.
type Config struct {
	Web     WebConfig     `mapstructure:"web"`
	Debug   DebugConfig   `mapstructure:"debug"`
	Storage StorageConfig `mapstructure:"storage"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// WebConfig controls the public HTTP API listener.
type WebConfig struct {
	// Addr is the listen address for the JSON API (default ":8080")
	Addr string `mapstructure:"addr"`
}

// DebugConfig controls the debug listener (pprof + metrics).
type DebugConfig struct {
	// Addr is the listen address for pprof and metrics (default ":6060")
	Addr string `mapstructure:"addr"`
	// Enabled turns the debug listener on or off
	Enabled bool `mapstructure:"enabled"`
}

// StorageConfig controls the SQLite database.
type StorageConfig struct {
	// Path is the SQLite database file (default "prodplan.db")
	Path string `mapstructure:"path"`
}

// LoggingConfig controls structured logging.
type LoggingConfig struct {
	// Level is one of "debug", "info", "warn", "error" (default "info")
	Level string `mapstructure:"level"`
	// Development switches to the human-oriented console encoder
	Development bool `mapstructure:"development"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("web.addr", ":8080")
	v.SetDefault("debug.addr", ":6060")
	v.SetDefault("debug.enabled", true)
	v.SetDefault("storage.path", "prodplan.db")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.development", false)
}

// Load reads configuration from the given file (empty means search for
// prodplan.yaml in the working directory), applying PRODPLAN_* environment
// overrides on top. A missing config file is not an error; the defaults and
// environment are enough to run.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("PRODPLAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("prodplan")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
