package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "admin", cfg.Auth.AdminUser)
	assert.Equal(t, 60, cfg.Auth.ExpirationMinutes)
	assert.Equal(t, "https://restcountries.com/v3.1/", cfg.Countries.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Countries.Timeout)
	assert.False(t, cfg.Production())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("APP_ENV", "prod")
	t.Setenv("ADMIN_USER", "root")
	t.Setenv("JWT_EXPIRATION_MINUTES", "15")
	t.Setenv("DB_CONN_MAX_LIFETIME", "5m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.Production())
	assert.Equal(t, "root", cfg.Auth.AdminUser)
	assert.Equal(t, 15, cfg.Auth.ExpirationMinutes)
	assert.Equal(t, 5*time.Minute, cfg.DB.ConnMaxLifetime)
}

func TestLoad_RejectsBadNumber(t *testing.T) {
	t.Setenv("DB_PORT", "not-a-port")

	_, err := Load()
	assert.Error(t, err)
}

func TestPostgresDSN(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5433, User: "u", Password: "p", Name: "n", SSLMode: "disable", TimeZone: "UTC"}
	assert.Equal(t, "host=db user=u password=p dbname=n port=5433 sslmode=disable TimeZone=UTC", c.PostgresDSN())

	c.DSN = "postgres://x"
	assert.Equal(t, "postgres://x", c.PostgresDSN())
}
