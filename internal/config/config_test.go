//nolint:testpackage // Asserts against default constants
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)

	assert.Equal(t, defaultServiceName, cfg.Service.Name)
	assert.Equal(t, defaultServicePort, cfg.Service.Port)
	assert.Equal(t, defaultGeoEndpoint, cfg.Geolocation.Endpoint)
	assert.Equal(t, defaultGeoTimeout, cfg.Geolocation.Timeout)
	assert.Equal(t, defaultDefaultCountry, cfg.Geolocation.DefaultCountry)
	assert.Equal(t, defaultCooldownWindow, cfg.Guard.CooldownWindow)
	assert.Equal(t, defaultSessionWindow, cfg.Guard.SessionWindow)
	assert.Equal(t, defaultMaxPerSession, cfg.Guard.MaxPerSession)
	assert.Equal(t, defaultMaxTrackedUsers, cfg.Guard.MaxTrackedUsers)
	assert.Equal(t, defaultRecentWindow, cfg.Screening.RecentWindow)
	assert.Equal(t, defaultLogLevel, cfg.Logging.Level)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	content := `
service:
  name: safety-test
  port: 9090
geolocation:
  default_country: US
  timeout: 1s
guard:
  cooldown_window: 2m
  max_per_session: 5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "safety-test", cfg.Service.Name)
	assert.Equal(t, 9090, cfg.Service.Port)
	assert.Equal(t, "US", cfg.Geolocation.DefaultCountry)
	assert.Equal(t, time.Second, cfg.Geolocation.Timeout)
	assert.Equal(t, 2*time.Minute, cfg.Guard.CooldownWindow)
	assert.Equal(t, 5, cfg.Guard.MaxPerSession)

	// Unset values still come from defaults.
	assert.Equal(t, defaultSessionWindow, cfg.Guard.SessionWindow)
	assert.Equal(t, defaultGeoEndpoint, cfg.Geolocation.Endpoint)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("service:\n  port: 9090\n"), 0o600))

	t.Setenv("SAFETY_PORT", "7000")
	t.Setenv("APP_DEBUG", "true")
	t.Setenv("GEO_ENDPOINT", "http://geo.internal/json")
	t.Setenv("AUTH_JWT_SECRET", "env-secret")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Service.Port)
	assert.True(t, cfg.Service.Debug)
	assert.Equal(t, "http://geo.internal/json", cfg.Geolocation.Endpoint)
	assert.Equal(t, "env-secret", cfg.Auth.JWTSecret)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("service: [broken"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestGetConfigPath(t *testing.T) {
	assert.Equal(t, "config.yml", GetConfigPath("config.yml"))

	t.Setenv("CONFIG_PATH", "/etc/safety/config.yml")
	assert.Equal(t, "/etc/safety/config.yml", GetConfigPath("config.yml"))
}

func TestParseBool(t *testing.T) {
	assert.True(t, parseBool("true"))
	assert.True(t, parseBool("1"))
	assert.True(t, parseBool("YES"))
	assert.False(t, parseBool("false"))
	assert.False(t, parseBool(""))
}
