package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "campus_status", cfg.MongoDB)
	assert.Equal(t, "@nyu.edu", cfg.EmailDomain)
	assert.Equal(t, 8, cfg.MinPasswordLen)
	assert.Equal(t, 12*time.Hour, cfg.SessionTTL)
	assert.False(t, cfg.Production())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "staging")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("RATE_LIMIT_PER_MIN", "10")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("SSO_BYPASS", "true")

	cfg := Load()

	assert.Equal(t, "staging", cfg.Env)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL)
	assert.Equal(t, 10, cfg.RateLimitPerMin)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.True(t, cfg.SSOBypass)
}

func TestBypassForcedOffInProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("SSO_BYPASS", "true")

	cfg := Load()

	assert.True(t, cfg.Production())
	assert.False(t, cfg.SSOBypass)
}

func TestInvalidDurationFallsBack(t *testing.T) {
	t.Setenv("TOKEN_TTL", "not-a-duration")
	cfg := Load()
	assert.Equal(t, 15*time.Minute, cfg.TokenTTL)
}
