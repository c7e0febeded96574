package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allKeys = []string{
	"TELEGRAM_TOKEN", "DATABASE_URL", "ADMIN_TELEGRAM_ID", "MANAGER_TELEGRAM_ID",
	"LOG_LEVEL", "ENVIRONMENT", "TIMEZONE", "CRON_SPEC_ALERT_SWEEP",
	"CRON_SPEC_RELIABILITY_DIGEST", "SWEEP_TIMEOUT", "METRICS_ADDR",
}

// setEnv clears every key first so values from the developer's shell do not leak in.
func setEnv(t *testing.T, values map[string]string) {
	t.Helper()
	for _, k := range allKeys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	for k, v := range values {
		t.Setenv(k, v)
	}
}

func required() map[string]string {
	return map[string]string{
		"TELEGRAM_TOKEN":    "token",
		"DATABASE_URL":      "postgres://localhost/manutencao?sslmode=disable",
		"ADMIN_TELEGRAM_ID": "1001",
		"TIMEZONE":          "UTC",
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	setEnv(t, required())

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, int64(1001), cfg.AdminTelegramID)
	assert.Equal(t, int64(0), cfg.ManagerTelegramID)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.Equal(t, "0 8 * * *", cfg.CronSpecAlertSweep)
	assert.Equal(t, "0 9 * * 1", cfg.CronSpecReliabilityDigest)
	assert.Equal(t, 5*time.Minute, cfg.SweepTimeout)
	assert.Equal(t, ":9090", cfg.MetricsAddr)
}

func TestFromEnv_Overrides(t *testing.T) {
	values := required()
	values["MANAGER_TELEGRAM_ID"] = "2002"
	values["LOG_LEVEL"] = "DEBUG"
	values["ENVIRONMENT"] = "Production"
	values["CRON_SPEC_ALERT_SWEEP"] = "30 6 * * *"
	values["SWEEP_TIMEOUT"] = "90s"
	setEnv(t, values)
	t.Setenv("METRICS_ADDR", "")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, int64(2002), cfg.ManagerTelegramID)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "30 6 * * *", cfg.CronSpecAlertSweep)
	assert.Equal(t, 90*time.Second, cfg.SweepTimeout)
	assert.Empty(t, cfg.MetricsAddr)
}

func TestFromEnv_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(map[string]string)
		wantErr string
	}{
		{"missing token", func(m map[string]string) { delete(m, "TELEGRAM_TOKEN") }, "TELEGRAM_TOKEN"},
		{"missing database", func(m map[string]string) { delete(m, "DATABASE_URL") }, "DATABASE_URL"},
		{"missing admin", func(m map[string]string) { delete(m, "ADMIN_TELEGRAM_ID") }, "ADMIN_TELEGRAM_ID"},
		{"bad admin", func(m map[string]string) { m["ADMIN_TELEGRAM_ID"] = "abc" }, "ADMIN_TELEGRAM_ID"},
		{"bad manager", func(m map[string]string) { m["MANAGER_TELEGRAM_ID"] = "x1" }, "MANAGER_TELEGRAM_ID"},
		{"bad timezone", func(m map[string]string) { m["TIMEZONE"] = "Mars/Olympus" }, "TIMEZONE"},
		{"bad timeout", func(m map[string]string) { m["SWEEP_TIMEOUT"] = "soon" }, "SWEEP_TIMEOUT"},
		{"negative timeout", func(m map[string]string) { m["SWEEP_TIMEOUT"] = "-1m" }, "SWEEP_TIMEOUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := required()
			tt.mutate(values)
			setEnv(t, values)

			_, err := FromEnv()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
