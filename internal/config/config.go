package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type AppConfig struct {
	Port string `envconfig:"PORT" default:"8080" validate:"required,numeric"`

	// DatasetSource is a local CSV path or an http(s) URL.
	DatasetSource       string        `envconfig:"DATASET_SOURCE" default:"weather.csv" validate:"required"`
	DatasetFetchTimeout time.Duration `envconfig:"DATASET_FETCH_TIMEOUT" default:"30s" validate:"gt=0"`

	// DayTimezone is the zone for calendar-day boundaries and offset-less timestamps.
	DayTimezone string `envconfig:"DAY_TIMEZONE" default:"UTC" validate:"required,timezone"`

	// ReportInterval controls the dataset report job (0 = disabled).
	ReportInterval time.Duration `envconfig:"REPORT_INTERVAL" default:"15m" validate:"gte=0"`

	ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT" default:"10s" validate:"gt=0"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT" default:"10s" validate:"gt=0"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s" validate:"gt=0"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"text" validate:"oneof=text json"`
}

// Location resolves DayTimezone. Load has already validated it.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.DayTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Load reads configuration from environment (and an optional .env file) with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	cfg := &AppConfig{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}
