package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Actions   ActionsConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port      string `envconfig:"PORT" default:"5000"`
	Host      string `envconfig:"HOST" default:"0.0.0.0"`
	APIPrefix string `envconfig:"API_PREFIX" default:"/api"`
}

// ActionsConfig controls how actions reach the host OS.
type ActionsConfig struct {
	CommandTimeout time.Duration `envconfig:"COMMAND_TIMEOUT" default:"30s"`
	ShellProgram   string        `envconfig:"SHELL_PROGRAM" default:"cmd"`
	ShellArgs      []string      `envconfig:"SHELL_ARGS" default:"/C"`
	PathsFile      string        `envconfig:"ACTIONS_PATHS_FILE"`
	AllowCustom    bool          `envconfig:"ACTIONS_ALLOW_CUSTOM" default:"true"`
	AllowCommand   bool          `envconfig:"ACTIONS_ALLOW_COMMAND" default:"true"`
}

// Shell returns the shell program followed by its leading arguments.
func (a ActionsConfig) Shell() []string {
	if a.ShellProgram == "" {
		return nil
	}
	return append([]string{a.ShellProgram}, a.ShellArgs...)
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"20"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"40"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// CORSConfig holds cross-origin configuration.
type CORSConfig struct {
	Origins []string `envconfig:"CORS_ORIGINS" default:"*"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Validate rejects values the server cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("invalid config: PORT is empty")
	}
	if c.Actions.CommandTimeout <= 0 {
		return fmt.Errorf("invalid config: COMMAND_TIMEOUT must be positive, got %s", c.Actions.CommandTimeout)
	}
	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("invalid config: rate limit rps and burst must be positive")
	}
	return nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:      "5000",
			Host:      "0.0.0.0",
			APIPrefix: "/api",
		},
		Actions: ActionsConfig{
			CommandTimeout: 30 * time.Second,
			ShellProgram:   "cmd",
			ShellArgs:      []string{"/C"},
			AllowCustom:    true,
			AllowCommand:   true,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 20,
			Burst:             40,
			Enabled:           true,
		},
		CORS: CORSConfig{
			Origins: []string{"*"},
		},
	}
}
