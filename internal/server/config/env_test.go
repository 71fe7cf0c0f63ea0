package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_parseEnv(t *testing.T) {
	t.Setenv("ADDRESS", "127.0.0.1:9999")
	t.Setenv("DATABASE_DSN", "postgres://env/vault")
	t.Setenv("SECRET_KEY", "env_secret")
	t.Setenv("TOKEN_VALIDITY", "48h")
	t.Setenv("ALLOWED_ORIGINS", "http://a.example, http://b.example ,")
	t.Setenv("REQUEST_TIMEOUT", "5s")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, "127.0.0.1:9999", cfg.EndpointAddr)
	assert.Equal(t, "postgres://env/vault", cfg.DatabaseDSN)
	assert.Equal(t, "env_secret", cfg.SecretKey)
	assert.Equal(t, 48*time.Hour, cfg.TokenValidityDuration)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
}

func Test_parseEnv_InvalidDurationIgnored(t *testing.T) {
	t.Setenv("TOKEN_VALIDITY", "next tuesday")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, 7*24*time.Hour, cfg.TokenValidityDuration)
}
