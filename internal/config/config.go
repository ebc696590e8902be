// Package config loads runtime settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every runtime setting of the service.
type Config struct {
	AppPort     string
	Environment string
	LogLevel    string

	DatabaseDriver string
	DatabaseDSN    string

	JWTSecret  string
	SessionTTL time.Duration

	RabbitMQURL string

	AdminEmail    string
	AdminPassword string

	DefaultEstimatedMinutes int
	TaxPercent              int
	DeliveryFee             int

	TrackingPollInterval  time.Duration
	OrderListPollInterval time.Duration
	StatsPollInterval     time.Duration
}

// IsDevelopment reports whether the service runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Load reads .env (when present) and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DATABASE_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "kedai.db")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("ADMIN_EMAIL", "")
	v.SetDefault("ADMIN_PASSWORD", "")
	v.SetDefault("DEFAULT_ESTIMATED_DELIVERY_MINUTES", 35)
	v.SetDefault("TAX_PERCENT", 10)
	v.SetDefault("DELIVERY_FEE", 0)
	v.SetDefault("TRACKING_POLL_INTERVAL", "3s")
	v.SetDefault("ORDER_LIST_POLL_INTERVAL", "5s")
	v.SetDefault("STATS_POLL_INTERVAL", "30s")
	v.AutomaticEnv()
	return v
}

// FromViper builds and validates a Config from v.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppPort:                 v.GetString("APP_PORT"),
		Environment:             v.GetString("ENVIRONMENT"),
		LogLevel:                v.GetString("LOG_LEVEL"),
		DatabaseDriver:          v.GetString("DATABASE_DRIVER"),
		DatabaseDSN:             v.GetString("DATABASE_DSN"),
		JWTSecret:               v.GetString("JWT_SECRET"),
		SessionTTL:              v.GetDuration("SESSION_TTL"),
		RabbitMQURL:             v.GetString("RABBITMQ_URL"),
		AdminEmail:              v.GetString("ADMIN_EMAIL"),
		AdminPassword:           v.GetString("ADMIN_PASSWORD"),
		DefaultEstimatedMinutes: v.GetInt("DEFAULT_ESTIMATED_DELIVERY_MINUTES"),
		TaxPercent:              v.GetInt("TAX_PERCENT"),
		DeliveryFee:             v.GetInt("DELIVERY_FEE"),
		TrackingPollInterval:    v.GetDuration("TRACKING_POLL_INTERVAL"),
		OrderListPollInterval:   v.GetDuration("ORDER_LIST_POLL_INTERVAL"),
		StatsPollInterval:       v.GetDuration("STATS_POLL_INTERVAL"),
	}

	switch cfg.DatabaseDriver {
	case "sqlite", "postgres":
	default:
		return nil, fmt.Errorf("unsupported DATABASE_DRIVER %q", cfg.DatabaseDriver)
	}
	if cfg.JWTSecret == "" {
		if !cfg.IsDevelopment() {
			return nil, errors.New("JWT_SECRET is required")
		}
		cfg.JWTSecret = "kedai-development-secret"
	}
	if cfg.SessionTTL <= 0 {
		return nil, errors.New("SESSION_TTL must be positive")
	}
	if cfg.DefaultEstimatedMinutes <= 0 {
		return nil, errors.New("DEFAULT_ESTIMATED_DELIVERY_MINUTES must be positive")
	}
	if cfg.TaxPercent < 0 || cfg.DeliveryFee < 0 {
		return nil, errors.New("TAX_PERCENT and DELIVERY_FEE cannot be negative")
	}
	return cfg, nil
}
