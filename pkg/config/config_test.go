package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/reparo-api/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("APP_ENV", "development")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "reparo-api", cfg.App.Name)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "35", cfg.Fiscal.StateCode)
	assert.Equal(t, 72*time.Hour, cfg.Fiscal.CancelNFCe)
	assert.Equal(t, 720*time.Hour, cfg.Fiscal.CancelNF)
	assert.False(t, cfg.Redis.Enabled())
}

func TestLoad_VariablesDeEntorno(t *testing.T) {
	t.Setenv("APP_ENV", "staging")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("FISCAL_CANCEL_WINDOW_NFCE", "24h")
	t.Setenv("FISCAL_CANCEL_WINDOW_NF", "168")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 24*time.Hour, cfg.Fiscal.CancelNFCe)
	assert.Equal(t, 168*time.Hour, cfg.Fiscal.CancelNF)
	assert.True(t, cfg.Redis.Enabled())
}

func TestLoad_ProduccionExigeSecreto(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestDBConfig_DSN(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss", DBName: "reparo", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss@db:5432/reparo?sslmode=disable", c.DSN())
	assert.Equal(t, c.DSN(), c.ConnectionString())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
