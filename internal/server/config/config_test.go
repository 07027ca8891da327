package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "passwords.db", cfg.DatabasePath)
	assert.Empty(t, cfg.BotToken)
	assert.Equal(t, 7*24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 24*time.Hour, cfg.MaxInitDataAge)
	assert.Contains(t, cfg.AllowedOrigins, "https://web.telegram.org")
	assert.False(t, cfg.DevMode)
	assert.False(t, cfg.InsecureSkipValidation)
}

func TestParseEnv(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9090")
	t.Setenv("BOT_TOKEN", "12345:secret")
	t.Setenv("SESSION_TTL", "48h")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("DEV_MODE", "true")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, ":9090", cfg.ListenAddr)
	assert.Equal(t, "12345:secret", cfg.BotToken)
	assert.Equal(t, 48*time.Hour, cfg.SessionTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.True(t, cfg.DevMode)
}

func TestParseEnvInvalidDuration(t *testing.T) {
	t.Setenv("SESSION_TTL", "not-a-duration")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	// invalid value keeps the default
	assert.Equal(t, 7*24*time.Hour, cfg.SessionTTL)
}

func TestParseFlags(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()

	parseFlags(cfg, []string{
		"-a", ":7070",
		"-d", "/tmp/test.db",
		"-t", "999:token",
		"-o", "https://only.example",
		"-dev",
	})

	assert.Equal(t, ":7070", cfg.ListenAddr)
	assert.Equal(t, "/tmp/test.db", cfg.DatabasePath)
	assert.Equal(t, "999:token", cfg.BotToken)
	assert.Equal(t, []string{"https://only.example"}, cfg.AllowedOrigins)
	assert.True(t, cfg.DevMode)
}

func TestFlagsOverrideEnv(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9090")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseFlags(cfg, []string{"-a", ":7070"})

	require.Equal(t, ":7070", cfg.ListenAddr)
}
