// Package config provides configuration management for breach using
// Viper. Settings load from a .breach.yml file, BREACH_* environment
// variables, and command-line flags, in increasing precedence.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Watch  WatchConfig  `yaml:"watch" mapstructure:"watch"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`

	// TargetFile is the .breach file to serve; a CLI argument or
	// discovered at startup, never read from the config file.
	TargetFile string `yaml:"-" mapstructure:"-"`
}

type ServerConfig struct {
	Host string `yaml:"host" mapstructure:"host"`
	Port int    `yaml:"port" mapstructure:"port"`
}

type WatchConfig struct {
	Enabled  bool          `yaml:"enabled" mapstructure:"enabled"`
	Debounce time.Duration `yaml:"debounce" mapstructure:"debounce"`
	Poll     time.Duration `yaml:"poll" mapstructure:"poll"`
}

type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// SetDefaults registers the default value for every key with viper.
// Called once before reading any config source.
func SetDefaults() {
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("watch.enabled", true)
	viper.SetDefault("watch.debounce", "100ms")
	viper.SetDefault("watch.poll", "50ms")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")
}

// Load unmarshals the effective configuration and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the server cannot run with.
func Validate(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", cfg.Server.Port)
	}
	if cfg.Server.Host == "" {
		return fmt.Errorf("server host must not be empty")
	}
	if cfg.Watch.Debounce <= 0 {
		return fmt.Errorf("watch debounce must be positive, got %s", cfg.Watch.Debounce)
	}
	if cfg.Watch.Poll <= 0 {
		return fmt.Errorf("watch poll interval must be positive, got %s", cfg.Watch.Poll)
	}
	switch cfg.Log.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log level %q", cfg.Log.Level)
	}
	switch cfg.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", cfg.Log.Format)
	}
	return nil
}
