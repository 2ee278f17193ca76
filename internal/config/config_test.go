package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("SESSION_TTL", "")
	t.Setenv("SESSION_TOKEN_HEADER", "")
	t.Setenv("REDIS_DB", "")

	cfg := Load()

	assert.Equal(t, "8087", cfg.AppPort)
	assert.Equal(t, 24*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "Authorization", cfg.Session.TokenHeader)
	assert.Equal(t, "0", cfg.Redis.RedisDB)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("APP_PORT", "9000")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("SESSION_TOKEN_HEADER", "X-Token")
	t.Setenv("GEOIP_DB_PATH", "/data/GeoLite2-City.mmdb")

	cfg := Load()

	assert.Equal(t, "9000", cfg.AppPort)
	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.Equal(t, "X-Token", cfg.Session.TokenHeader)
	assert.Equal(t, "/data/GeoLite2-City.mmdb", cfg.GeoIP.DatabasePath)
}

func TestGetEnvDuration(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected time.Duration
	}{
		{name: "Go duration", value: "30m", expected: 30 * time.Minute},
		{name: "Seconds", value: "120", expected: 2 * time.Minute},
		{name: "Invalid falls back", value: "soon", expected: time.Hour},
		{name: "Empty falls back", value: "", expected: time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_DURATION", tt.value)
			assert.Equal(t, tt.expected, getEnvDuration("TEST_DURATION", time.Hour))
		})
	}
}
