package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DATA_FILE", "")
	t.Setenv("DISCORD_RATE_LIMIT", "")
	t.Setenv("CORS_ORIGINS", "")
	t.Setenv("DOCUMENT_BACKEND", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "user_data.json", cfg.DataFile)
	assert.Equal(t, 5, cfg.DiscordRateLimit)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, BackendFile, cfg.DocumentBackend)
	assert.Equal(t, 30*time.Second, cfg.ReadTimeout)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("DISCORD_RATE_LIMIT", "12")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("DOCUMENT_BACKEND", "Mongo")
	t.Setenv("DASHBOARD_PORT", "9090")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 12, cfg.DiscordRateLimit)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, BackendMongo, cfg.DocumentBackend)
	assert.Equal(t, "9090", cfg.Port)
}

func TestGetEnvAsIntFallsBackOnGarbage(t *testing.T) {
	t.Setenv("SOME_INT", "abc")
	assert.Equal(t, 7, getEnvAsInt("SOME_INT", 7))
}

func TestOAuthConfigured(t *testing.T) {
	cfg := &Config{DiscordClientID: "id", DiscordClientSecret: "secret"}
	assert.False(t, cfg.OAuthConfigured())
	cfg.SecretKey = "key"
	assert.True(t, cfg.OAuthConfigured())
}
