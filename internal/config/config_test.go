package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8081", cfg.ProductSvcAddr)
	assert.Equal(t, int32(10), cfg.MaxConns)
	assert.True(t, cfg.AutoMigrate)
	assert.Equal(t, "production", cfg.LogMode)
	assert.Empty(t, cfg.GRPCHealthAddr)
	assert.Empty(t, cfg.PublicBaseURL)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("PRODUCT_SERVICE_ADDR", ":9090")
	t.Setenv("POSTGRES_DSN", "postgres://u:p@db:5432/x")
	t.Setenv("POSTGRES_MAX_CONNS", "4")
	t.Setenv("AUTO_MIGRATE", "false")
	t.Setenv("GRPC_HEALTH_ADDR", ":50052")
	t.Setenv("LOG_MODE", "development")
	t.Setenv("PUBLIC_BASE_URL", "https://catalog.example.com")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.ProductSvcAddr)
	assert.Equal(t, "postgres://u:p@db:5432/x", cfg.PostgresDSN)
	assert.Equal(t, int32(4), cfg.MaxConns)
	assert.False(t, cfg.AutoMigrate)
	assert.Equal(t, ":50052", cfg.GRPCHealthAddr)
	assert.Equal(t, "development", cfg.LogMode)
	assert.Equal(t, "https://catalog.example.com", cfg.PublicBaseURL)
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("log mode", func(t *testing.T) {
		t.Setenv("LOG_MODE", "verbose")
		_, err := Load()
		assert.ErrorContains(t, err, "LOG_MODE")
	})
	t.Run("max conns", func(t *testing.T) {
		t.Setenv("POSTGRES_MAX_CONNS", "many")
		_, err := Load()
		assert.Error(t, err)
	})
	t.Run("negative max conns", func(t *testing.T) {
		t.Setenv("POSTGRES_MAX_CONNS", "-1")
		_, err := Load()
		assert.ErrorContains(t, err, "POSTGRES_MAX_CONNS")
	})
}
