package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all host configuration.
type Config struct {
	Device  DeviceConfig
	Logging LogConfig
	Admin   AdminConfig
}

// DeviceConfig holds the virtual tablet settings shared by all applications.
type DeviceConfig struct {
	Width             int    `envconfig:"TABLET_WIDTH" default:"1144"`
	Height            int    `envconfig:"TABLET_HEIGHT" default:"912"`
	ResourceDir       string `envconfig:"TABLET_RESOURCES" default:"resources"`
	Language          string `envconfig:"TABLET_LANG" default:"en"`
	DeactivateOnPanic bool   `envconfig:"TABLET_DEACTIVATE_ON_PANIC" default:"true"`

	FaultThreshold int           `envconfig:"TABLET_FAULT_THRESHOLD" default:"5"`
	Quarantine     time.Duration `envconfig:"TABLET_QUARANTINE" default:"30s"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// AdminConfig holds the admin HTTP API configuration.
type AdminConfig struct {
	Enabled bool   `envconfig:"ADMIN_ENABLED" default:"false"`
	Host    string `envconfig:"ADMIN_HOST" default:"127.0.0.1"`
	Port    string `envconfig:"ADMIN_PORT" default:"8090"`

	AllowOrigins   []string `envconfig:"ADMIN_CORS_ORIGINS" default:"http://localhost:3000"`
	RateLimit      bool     `envconfig:"ADMIN_RATE_LIMIT" default:"true"`
	RequestsPerSec int      `envconfig:"ADMIN_RATE_RPS" default:"20"`
	Burst          int      `envconfig:"ADMIN_RATE_BURST" default:"40"`
}

// Addr returns host:port for the admin listener.
func (a AdminConfig) Addr() string {
	return a.Host + ":" + a.Port
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

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Device: DeviceConfig{
			Width:             1144,
			Height:            912,
			ResourceDir:       "resources",
			Language:          "en",
			DeactivateOnPanic: true,
			FaultThreshold:    5,
			Quarantine:        30 * time.Second,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		Admin: AdminConfig{
			Enabled: false,
			Host:    "127.0.0.1",
			Port:    "8090",

			AllowOrigins:   []string{"http://localhost:3000"},
			RateLimit:      true,
			RequestsPerSec: 20,
			Burst:          40,
		},
	}
}

// Validate checks values envconfig cannot express.
func (c *Config) Validate() error {
	if c.Device.Width <= 0 || c.Device.Height <= 0 {
		return fmt.Errorf("invalid device size %dx%d", c.Device.Width, c.Device.Height)
	}
	if c.Device.FaultThreshold < 0 {
		return fmt.Errorf("invalid fault threshold %d", c.Device.FaultThreshold)
	}
	return nil
}
