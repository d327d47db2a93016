// internal/config/config_test.go
package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "2024-01", cfg.Storefront.APIVersion)
	assert.Equal(t, 24, cfg.Sync.MaxAgeHours)
	assert.Equal(t, 30, cfg.Chat.HistoryLimit)
	assert.Equal(t, 60, cfg.Chat.RequestTimeout)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SYNC_MAX_AGE_HOURS", "6")
	t.Setenv("CHAT_HISTORY_LIMIT", "10")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 6, cfg.Sync.MaxAgeHours)
	assert.Equal(t, 10, cfg.Chat.HistoryLimit)
}

func TestValidateProductionGuards(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")

	_, err := Load()
	require.Error(t, err, "default JWT secret is rejected in production")

	t.Setenv("JWT_SECRET", "a-real-secret")
	_, err = Load()
	require.Error(t, err, "empty database password is rejected in production")

	t.Setenv("DB_PASSWORD", "hunter2")
	_, err = Load()
	assert.NoError(t, err)
}

func TestValidateHistoryLimit(t *testing.T) {
	t.Setenv("CHAT_HISTORY_LIMIT", "0")

	_, err := Load()
	assert.Error(t, err)
}

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.internal",
		Port:     "5433",
		User:     "app",
		Password: "pw",
		Database: "shopdev",
		SSLMode:  "require",
	}
	assert.Equal(t,
		"host=db.internal port=5433 user=app password=pw dbname=shopdev sslmode=require",
		cfg.DSN())
}
