// Package config defines the environment-driven configuration for the
// server binary. All variables use the BEACON_ prefix; unset values fall
// back to development defaults.
package config

import (
	"fmt"
	"time"

	"github.com/ezrabeacon/beacon/internal/env"
)

// Environment names.
const (
	EnvDev  = "dev"
	EnvProd = "prod"
)

// ServerConfig holds all configuration for the server binary.
type ServerConfig struct {
	Env             string        `env:"BEACON_ENV"` // dev, prod
	ShutdownTimeout time.Duration `env:"BEACON_SHUTDOWN_TIMEOUT"`

	HTTP          HTTPConfig
	Storage       StorageConfig
	Auth          AuthConfig
	Tasks         TasksConfig
	Observability ObservabilityConfig
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Host              string        `env:"BEACON_HTTP_HOST"`
	Port              string        `env:"BEACON_HTTP_PORT"`
	ReadTimeout       time.Duration `env:"BEACON_HTTP_READ_TIMEOUT"`
	WriteTimeout      time.Duration `env:"BEACON_HTTP_WRITE_TIMEOUT"`
	IdleTimeout       time.Duration `env:"BEACON_HTTP_IDLE_TIMEOUT"`
	ReadHeaderTimeout time.Duration `env:"BEACON_HTTP_READ_HEADER_TIMEOUT"`
	MaxHeaderBytes    int           `env:"BEACON_HTTP_MAX_HEADER_BYTES"`
	MaxBodyBytes      int64         `env:"BEACON_MAX_BODY_BYTES"`
}

// TasksConfig holds task service configuration.
type TasksConfig struct {
	MaxStepsPerTask int `env:"BEACON_MAX_STEPS_PER_TASK"`
}

// ObservabilityConfig holds observability configuration.
type ObservabilityConfig struct {
	OTelEnabled bool   `env:"BEACON_OTEL_ENABLED"`
	ServiceName string `env:"OTEL_SERVICE_NAME"`
}

// LoadServerConfig loads server configuration from the environment, applies
// defaults, and validates cross-field constraints.
func LoadServerConfig() (*ServerConfig, error) {
	cfg := &ServerConfig{}

	if err := env.Load(cfg); err != nil {
		return nil, fmt.Errorf("failed to load server config: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *ServerConfig) applyDefaults() {
	if c.Env == "" {
		c.Env = EnvDev
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
	if c.Storage.Type == "" {
		c.Storage.Type = StorageMemory
	}
	if c.Storage.SQLitePath == "" {
		c.Storage.SQLitePath = "./beacon.db"
	}
	if c.Auth.Mode == "" {
		c.Auth.Mode = AuthModeDev
	}
	if c.Observability.ServiceName == "" {
		c.Observability.ServiceName = "beacon"
	}
}

// validate enforces constraints that span config sections.
func (c *ServerConfig) validate() error {
	if c.Env != EnvDev && c.Env != EnvProd {
		return fmt.Errorf("unknown BEACON_ENV: %s", c.Env)
	}

	if err := c.Storage.validate(); err != nil {
		return err
	}
	if err := c.Auth.validate(); err != nil {
		return err
	}

	// The dev authenticator grants a fixed identity to any bearer of any
	// token, so it must never reach production.
	if c.Env == EnvProd && c.Auth.Mode == AuthModeDev {
		return fmt.Errorf("BEACON_AUTH_MODE=dev is not allowed when BEACON_ENV=prod")
	}

	return nil
}
