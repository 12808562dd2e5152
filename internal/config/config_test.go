package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.HTTP.Host)
	assert.Equal(t, 1447, cfg.HTTP.Port)
	assert.Equal(t, ProtocolHTTP, cfg.HTTP.Protocol)
	assert.Equal(t, "localhost:1447", cfg.HTTP.Address())
	assert.Equal(t, 25*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, []string{"*"}, cfg.HTTP.AllowedOrigins)
	assert.False(t, cfg.Metrics.Enabled)
	assert.Equal(t, "home-service", cfg.App.ServiceName)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("HOME_HTTP_HOST", "127.0.0.1")
	t.Setenv("HOME_HTTP_PORT", "8080")
	t.Setenv("HOME_HTTP_PROTOCOL", "HTTP")
	t.Setenv("HOME_HTTP_ALLOWED_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("HOME_METRICS_ENABLED", "true")
	t.Setenv("HOME_ENV", "production")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.HTTP.Address())
	assert.Equal(t, ProtocolHTTP, cfg.HTTP.Protocol)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.HTTP.AllowedOrigins)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "production", cfg.App.Environment)
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"unsupported protocol", "HOME_HTTP_PROTOCOL", "https"},
		{"port too large", "HOME_HTTP_PORT", "70000"},
		{"negative port", "HOME_HTTP_PORT", "-1"},
		{"non-numeric port", "HOME_HTTP_PORT", "abc"},
		{"blank host", "HOME_HTTP_HOST", "   "},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestDefaultIgnoresEnvironment(t *testing.T) {
	t.Setenv("HOME_HTTP_PORT", "9999")

	cfg := Default()
	assert.Equal(t, 1447, cfg.HTTP.Port)
}
