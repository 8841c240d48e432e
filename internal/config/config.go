package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
	PSP        PSPConfig        `yaml:"psp"`
	Dispatch   DispatchConfig   `yaml:"dispatch"`
	Reconciler ReconcilerConfig `yaml:"reconciler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// PSPConfig controls the mock gateway's outcome distribution
type PSPConfig struct {
	SuccessProbability float64 `yaml:"success_probability"`
	PendingProbability float64 `yaml:"pending_probability"`
	Seed               int64   `yaml:"seed"`
}

// DispatchConfig sizes the async PSP worker pool
type DispatchConfig struct {
	Workers   int `yaml:"workers"`
	QueueSize int `yaml:"queue_size"`
}

// ReconcilerConfig drives the reconciliation loop
type ReconcilerConfig struct {
	// CronSpec uses six-field (seconds precision) cron syntax, e.g.
	// "*/10 * * * * *" or "@every 10s".
	CronSpec          string `yaml:"cron_spec"`
	MaxPendingSeconds int    `yaml:"max_pending_seconds"`
	MaxAttempts       int    `yaml:"max_attempts"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}
	if val := os.Getenv("RECONCILER_CRON_SPEC"); val != "" {
		c.Reconciler.CronSpec = val
	}
	if val := os.Getenv("RECONCILER_MAX_PENDING_SECONDS"); val != "" {
		fmt.Sscanf(val, "%d", &c.Reconciler.MaxPendingSeconds)
	}
	if val := os.Getenv("RECONCILER_MAX_ATTEMPTS"); val != "" {
		fmt.Sscanf(val, "%d", &c.Reconciler.MaxAttempts)
	}
	if val := os.Getenv("DISPATCH_WORKERS"); val != "" {
		fmt.Sscanf(val, "%d", &c.Dispatch.Workers)
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Dispatch.Workers == 0 {
		c.Dispatch.Workers = 8
	}
	if c.Dispatch.QueueSize == 0 {
		c.Dispatch.QueueSize = 256
	}
	if c.Reconciler.CronSpec == "" {
		c.Reconciler.CronSpec = "@every 10s"
	}
	if c.Reconciler.MaxPendingSeconds == 0 {
		c.Reconciler.MaxPendingSeconds = 120
	}
	if c.Reconciler.MaxAttempts == 0 {
		c.Reconciler.MaxAttempts = 5
	}
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if c.PSP.SuccessProbability < 0 || c.PSP.PendingProbability < 0 {
		return fmt.Errorf("psp probabilities must be non-negative")
	}
	if c.PSP.SuccessProbability+c.PSP.PendingProbability > 1.0 {
		return fmt.Errorf("psp success and pending probabilities must sum to at most 1.0")
	}
	if c.Dispatch.Workers < 1 {
		return fmt.Errorf("dispatch workers must be at least 1")
	}
	if c.Reconciler.MaxAttempts < 1 {
		return fmt.Errorf("reconciler max attempts must be at least 1")
	}
	if c.Reconciler.MaxPendingSeconds < 1 {
		return fmt.Errorf("reconciler max pending seconds must be at least 1")
	}
	return nil
}

// GetServerAddress returns the host:port the HTTP server binds to
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// MaxPendingDuration returns the reconciler's pending-age budget
func (c *Config) MaxPendingDuration() time.Duration {
	return time.Duration(c.Reconciler.MaxPendingSeconds) * time.Second
}
