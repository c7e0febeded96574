package config

import (
	"fmt"
	"os"
	"strconv"
	"strings" // For LogLevel normalization
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	TelegramToken             string
	DatabaseURL               string
	AdminTelegramID           int64
	ManagerTelegramID         int64 // receives the weekly reliability digest; 0 disables it
	LogLevel                  string
	Environment               string
	Location                  *time.Location // calendar used to decide what "today" is
	CronSpecAlertSweep        string
	CronSpecReliabilityDigest string
	SweepTimeout              time.Duration
	MetricsAddr               string // empty disables the /metrics listener
}

const (
	defaultTimezone                  = "America/Sao_Paulo"
	defaultCronSpecAlertSweep        = "0 8 * * *" // 08:00 daily
	defaultCronSpecReliabilityDigest = "0 9 * * 1" // 09:00 on Mondays
	defaultSweepTimeout              = 5 * time.Minute
	defaultMetricsAddr               = ":9090"
)

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds the configuration from the process environment only.
func FromEnv() (*AppConfig, error) {
	cfg := &AppConfig{}
	var err error

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is not set")
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	adminIDStr := os.Getenv("ADMIN_TELEGRAM_ID")
	if adminIDStr == "" {
		return nil, fmt.Errorf("ADMIN_TELEGRAM_ID is not set")
	}
	cfg.AdminTelegramID, err = strconv.ParseInt(adminIDStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid ADMIN_TELEGRAM_ID: %w", err)
	}

	if managerIDStr := os.Getenv("MANAGER_TELEGRAM_ID"); managerIDStr != "" {
		cfg.ManagerTelegramID, err = strconv.ParseInt(managerIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid MANAGER_TELEGRAM_ID: %w", err)
		}
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	tz := os.Getenv("TIMEZONE")
	if tz == "" {
		tz = defaultTimezone
	}
	cfg.Location, err = time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", tz, err)
	}

	cfg.CronSpecAlertSweep = envOrDefault("CRON_SPEC_ALERT_SWEEP", defaultCronSpecAlertSweep)
	cfg.CronSpecReliabilityDigest = envOrDefault("CRON_SPEC_RELIABILITY_DIGEST", defaultCronSpecReliabilityDigest)

	cfg.SweepTimeout = defaultSweepTimeout
	if v := os.Getenv("SWEEP_TIMEOUT"); v != "" {
		cfg.SweepTimeout, err = time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid SWEEP_TIMEOUT: %w", err)
		}
		if cfg.SweepTimeout <= 0 {
			return nil, fmt.Errorf("invalid SWEEP_TIMEOUT: must be positive, got %s", cfg.SweepTimeout)
		}
	}

	// An explicitly empty METRICS_ADDR turns the listener off.
	if v, ok := os.LookupEnv("METRICS_ADDR"); ok {
		cfg.MetricsAddr = v
	} else {
		cfg.MetricsAddr = defaultMetricsAddr
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
