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
backend:
  base_url: https://example.xano.io
  timeout: 10s
  retries: 5
  groups:
    reports: api:custom
calendar:
  state: by
session:
  file: /tmp/zeit/session.json
timer:
  daily_target_hours: 7.5
  tick_interval: 500ms
server:
  listen: 127.0.0.1:9000
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://example.xano.io", cfg.Backend.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Backend.GetTimeout())
	assert.Equal(t, 5, cfg.Backend.Retries)
	assert.Equal(t, "api:custom", cfg.Backend.Groups.Reports)
	assert.Equal(t, "api:eltyNUzq", cfg.Backend.Groups.Auth)
	assert.Equal(t, "by", cfg.Calendar.State)
	assert.Equal(t, "/tmp/zeit/session.json", cfg.Session.File)
	assert.Equal(t, 7*time.Hour+30*time.Minute, cfg.Timer.GetDailyTarget())
	assert.Equal(t, 500*time.Millisecond, cfg.Timer.GetTickInterval())
	assert.Equal(t, time.Minute, cfg.Timer.GetResyncInterval())
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Listen)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 5, cfg.Geocode.Limit)

	opts := cfg.Backend.Options()
	assert.Equal(t, "https://example.xano.io", opts.BaseURL)
	assert.Equal(t, time.Second, opts.RetryBackoff)
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, "calendar:\n  state: BW\n")
	t.Setenv("ZEITERFASSUNG_BACKEND_BASE_URL", "https://env.example.com")
	t.Setenv("ZEITERFASSUNG_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.com", cfg.Backend.BaseURL)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"missing base url", "calendar:\n  state: BW\n", "backend.base_url is required"},
		{"bad scheme", "backend:\n  base_url: ftp://x\n", "http(s) URL"},
		{"unknown state", "backend:\n  base_url: https://x\ncalendar:\n  state: XX\n", "calendar.state"},
		{"target out of range", "backend:\n  base_url: https://x\ntimer:\n  daily_target_hours: 30\n", "daily_target_hours"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDurationFallbacks(t *testing.T) {
	b := BackendConfig{Timeout: "nonsense", RetryBackoff: "-1s"}
	assert.Equal(t, 30*time.Second, b.GetTimeout())
	assert.Equal(t, time.Second, b.GetRetryBackoff())

	c := CacheConfig{}
	assert.Equal(t, 90*24*time.Hour, c.GetMaxAge())

	tc := TimerConfig{}
	assert.Equal(t, 8*time.Hour, tc.GetDailyTarget())
	assert.Equal(t, time.Second, tc.GetTickInterval())
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("ZEIT_HOME", "/data")
	cfg := &Config{Session: SessionConfig{File: "$ZEIT_HOME/session.json"}}
	cfg.ExpandEnvVars()
	assert.Equal(t, "/data/session.json", cfg.Session.File)
}
