package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v9"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Meraki   MerakiConfig
	Audit    AuditConfig
	Log      LogConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host string `env:"SERVER_HOST" envDefault:"0.0.0.0"`
	Port int    `env:"SERVER_PORT" envDefault:"8080"`
}

// DatabaseConfig holds operation-history database configuration.
type DatabaseConfig struct {
	Driver string `env:"DB_DRIVER" envDefault:"sqlite3"`
	DSN    string `env:"DB_DSN" envDefault:"data/device-swap.db"`
}

// MerakiConfig holds dashboard API configuration. OrgKeys is an ordered
// comma-delimited list of organizationId:apiKey pairs; the locator
// searches organizations in exactly this order.
type MerakiConfig struct {
	OrgKeys string        `env:"MERAKI_ORG_KEYS"`
	BaseURL string        `env:"MERAKI_BASE_URL" envDefault:"https://api.meraki.com/api/v1"`
	Timeout time.Duration `env:"MERAKI_TIMEOUT" envDefault:"30s"`
}

// AuditConfig holds append-only audit logging configuration.
type AuditConfig struct {
	Enabled bool   `env:"AUDIT_LOG_ENABLED" envDefault:"false"`
	Path    string `env:"AUDIT_LOG_PATH" envDefault:"data/audit.log"`
}

// LogConfig holds application logging configuration.
type LogConfig struct {
	Level string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(&cfg.Server); err != nil {
		return nil, fmt.Errorf("parsing server config: %w", err)
	}
	if err := env.Parse(&cfg.Database); err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}
	if err := env.Parse(&cfg.Meraki); err != nil {
		return nil, fmt.Errorf("parsing meraki config: %w", err)
	}
	if err := env.Parse(&cfg.Audit); err != nil {
		return nil, fmt.Errorf("parsing audit config: %w", err)
	}
	if err := env.Parse(&cfg.Log); err != nil {
		return nil, fmt.Errorf("parsing log config: %w", err)
	}

	return cfg, nil
}

// Addr returns the server address in host:port format.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Meraki.OrgKeys == "" {
		return fmt.Errorf("MERAKI_ORG_KEYS is required (comma-delimited organizationId:apiKey pairs)")
	}
	if c.Meraki.BaseURL == "" {
		return fmt.Errorf("MERAKI_BASE_URL must not be empty")
	}
	if c.Meraki.Timeout <= 0 {
		return fmt.Errorf("MERAKI_TIMEOUT must be positive")
	}
	return nil
}
