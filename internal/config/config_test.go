package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: "https://api.bookmyseat.example"
  email: "agent@example.com"
  timeout_seconds: 5
  cache_ttl_seconds: 120
search:
  radius_km: 25
booking:
  duration_minutes: 90
reminders:
  lead_minutes: 30
  refresh_interval_minutes: 10
  channel: telegram
telegram:
  bot_token: "tok"
  chat_id: 42
monitoring:
  health_check_port: 8090
  prometheus_enabled: true
  prometheus_port: 9090
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://api.bookmyseat.example", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.APITimeout())
	assert.Equal(t, 2*time.Minute, cfg.CacheTTL())
	assert.Equal(t, 25.0, cfg.SearchRadiusKm())
	assert.Equal(t, 90*time.Minute, cfg.BookingDuration())
	assert.Equal(t, 30*time.Minute, cfg.ReminderLead())
	assert.Equal(t, 10*time.Minute, cfg.RefreshInterval())
	assert.Equal(t, "telegram", cfg.Reminders.Channel)
	assert.Equal(t, int64(42), cfg.Telegram.ChatID)
	assert.True(t, cfg.Monitoring.PrometheusEnabled)
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: "https://api.bookmyseat.example"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 10*time.Second, cfg.APITimeout())
	assert.Equal(t, 10.0, cfg.SearchRadiusKm())
	assert.Equal(t, 2*time.Hour, cfg.BookingDuration())
	assert.Equal(t, time.Hour, cfg.ReminderLead())
	assert.Equal(t, 15*time.Minute, cfg.RefreshInterval())
}

func TestLoad_ExpandsEnvPlaceholders(t *testing.T) {
	t.Setenv("BMS_API_TOKEN_TEST", "secret-pass")
	path := writeConfig(t, `
api:
  base_url: "https://api.bookmyseat.example"
  password: "${BMS_API_TOKEN_TEST}"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "secret-pass", cfg.API.Password)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
