// Package config loads service configuration from an optional config file
// and MYREST_* environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// envKeyReplacer maps config keys like server.addr to MYREST_SERVER_ADDR.
var envKeyReplacer = strings.NewReplacer(".", "_")

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Pagination PaginationConfig `mapstructure:"pagination"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	GRPCAddr        string        `mapstructure:"grpc_addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes"`
}

type DatabaseConfig struct {
	// DSN is a pgx connection string. Empty selects the in-memory store,
	// which only suits local development.
	DSN string `mapstructure:"dsn"`
}

type AuthConfig struct {
	SessionTTL  time.Duration `mapstructure:"session_ttl"`
	RefreshTTL  time.Duration `mapstructure:"refresh_ttl"`
	ResetSecret string        `mapstructure:"reset_secret"`
	ResetTTL    time.Duration `mapstructure:"reset_ttl"`
}

type PaginationConfig struct {
	DefaultPageSize int `mapstructure:"default_page_size"`
	MaxPageSize     int `mapstructure:"max_page_size"`
}

type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

// Load reads configuration with this precedence: environment variables,
// then an optional config.yaml, then defaults.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.grpc_addr", ":9090")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.max_body_bytes", 1<<20)
	v.SetDefault("database.dsn", "")
	v.SetDefault("auth.session_ttl", "1h")
	v.SetDefault("auth.refresh_ttl", "1h")
	v.SetDefault("auth.reset_secret", "")
	v.SetDefault("auth.reset_ttl", "15m")
	v.SetDefault("pagination.default_page_size", 25)
	v.SetDefault("pagination.max_page_size", 250)
	v.SetDefault("rate_limit.rps", 50.0)
	v.SetDefault("rate_limit.burst", 100)

	v.SetEnvPrefix("myrest")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: read: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Pagination.DefaultPageSize < 1 || c.Pagination.DefaultPageSize > c.Pagination.MaxPageSize {
		return fmt.Errorf("config: default_page_size must be between 1 and %d", c.Pagination.MaxPageSize)
	}
	if c.Server.MaxBodyBytes < 1 {
		return fmt.Errorf("config: max_body_bytes must be positive")
	}
	return nil
}
