// Package config loads threadlog settings from defaults, an optional YAML
// file and THREADLOG_* environment variables, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const EnvPrefix = "THREADLOG"

type Config struct {
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Auth    AuthConfig    `mapstructure:"auth" yaml:"auth"`
	Bridge  BridgeConfig  `mapstructure:"bridge" yaml:"bridge"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
	// RateLimit applies per client IP to writes, e.g. "120-M". Empty disables.
	RateLimit       string        `mapstructure:"rate_limit" yaml:"rate_limit"`
	Development     bool          `mapstructure:"development" yaml:"development"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	// QueueSize bounds each realtime session's outbound queue.
	QueueSize int `mapstructure:"queue_size" yaml:"queue_size"`
}

type StorageConfig struct {
	// Driver is "sqlite" or "postgres".
	Driver string `mapstructure:"driver" yaml:"driver"`
	DSN    string `mapstructure:"dsn" yaml:"dsn"`
}

type AuthConfig struct {
	Secret   string        `mapstructure:"secret" yaml:"secret"`
	TokenTTL time.Duration `mapstructure:"token_ttl" yaml:"token_ttl"`
}

// BridgeConfig selects cross-process fan-out. Kind is "none", "nats",
// "nats-embedded" or "redis".
type BridgeConfig struct {
	Kind string `mapstructure:"kind" yaml:"kind"`
	URL  string `mapstructure:"url" yaml:"url"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	// Format is "auto" (console on a terminal, JSON otherwise), "console" or "json".
	Format string `mapstructure:"format" yaml:"format"`
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	BridgeNone         = "none"
	BridgeNATS         = "nats"
	BridgeNATSEmbedded = "nats-embedded"
	BridgeRedis        = "redis"
)

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			RateLimit:       "120-M",
			ShutdownTimeout: 10 * time.Second,
			QueueSize:       64,
		},
		Storage: StorageConfig{
			Driver: DriverSQLite,
			DSN:    defaultDBPath(),
		},
		Auth: AuthConfig{
			TokenTTL: 12 * time.Hour,
		},
		Bridge: BridgeConfig{Kind: BridgeNone},
		Log:    LogConfig{Level: "info", Format: "auto"},
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "threadlog.db"
	}
	return filepath.Join(home, ".threadlog", "threadlog.db")
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	var errs []error
	if c.Server.Addr == "" {
		errs = append(errs, fmt.Errorf("server.addr is required"))
	}
	if c.Server.QueueSize <= 0 {
		errs = append(errs, fmt.Errorf("server.queue_size must be positive"))
	}
	switch c.Storage.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("storage.driver %q must be sqlite or postgres", c.Storage.Driver))
	}
	if c.Storage.DSN == "" {
		errs = append(errs, fmt.Errorf("storage.dsn is required"))
	}
	switch c.Bridge.Kind {
	case BridgeNone, BridgeNATSEmbedded:
	case BridgeNATS, BridgeRedis:
		if c.Bridge.URL == "" {
			errs = append(errs, fmt.Errorf("bridge.url is required for bridge.kind %q", c.Bridge.Kind))
		}
	default:
		errs = append(errs, fmt.Errorf("bridge.kind %q must be none, nats, nats-embedded or redis", c.Bridge.Kind))
	}
	switch c.Log.Format {
	case "auto", "console", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q must be auto, console or json", c.Log.Format))
	}
	if c.Auth.Secret != "" && len(c.Auth.Secret) < 16 {
		errs = append(errs, fmt.Errorf("auth.secret must be at least 16 bytes"))
	}
	return errors.Join(errs...)
}

// Load reads path (optional) and the environment over DefaultConfig. Nested
// keys map to variables like THREADLOG_STORAGE_DSN.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	// Short aliases kept for deployment scripts.
	_ = v.BindEnv("server.rate_limit", EnvPrefix+"_SERVER_RATE_LIMIT", EnvPrefix+"_RATE_LIMIT")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.rate_limit", d.Server.RateLimit)
	v.SetDefault("server.development", d.Server.Development)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
	v.SetDefault("server.queue_size", d.Server.QueueSize)
	v.SetDefault("storage.driver", d.Storage.Driver)
	v.SetDefault("storage.dsn", d.Storage.DSN)
	v.SetDefault("auth.secret", d.Auth.Secret)
	v.SetDefault("auth.token_ttl", d.Auth.TokenTTL)
	v.SetDefault("bridge.kind", d.Bridge.Kind)
	v.SetDefault("bridge.url", d.Bridge.URL)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// Redacted returns a copy safe to print.
func (c *Config) Redacted() *Config {
	out := *c
	if out.Auth.Secret != "" {
		out.Auth.Secret = "********"
	}
	return &out
}

// YAML renders c in the file format Load accepts.
func (c *Config) YAML() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return data, nil
}
