package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("EDUPULSE_JWT_SECRET", "secret")
	t.Setenv("EDUPULSE_SEED_ADMIN_PASSWORD", "admin-pass")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":8000", cfg.HTTPAddress())
	require.Equal(t, DatabaseDriverSQLite, cfg.DatabaseDriver)
	require.Equal(t, "edupulse.db", cfg.DatabaseURL)
	require.Equal(t, 24*time.Hour, cfg.TokenTTL)
	require.Equal(t, 5*time.Minute, cfg.DashboardCacheTTL)
	require.Equal(t, "grades.csv", cfg.GradesFile)
	require.Equal(t, 20, cfg.ChatRateLimit)
	require.True(t, cfg.SeedEnabled)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("EDUPULSE_JWT_SECRET", "secret")
	t.Setenv("EDUPULSE_SEED_ENABLED", "false")
	t.Setenv("EDUPULSE_APP_PORT", ":9090")
	t.Setenv("EDUPULSE_DATABASE_DRIVER", "POSTGRES")
	t.Setenv("EDUPULSE_DASHBOARD_CACHE_TTL", "30s")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTPAddress())
	require.Equal(t, DatabaseDriverPostgres, cfg.DatabaseDriver)
	require.Equal(t, 30*time.Second, cfg.DashboardCacheTTL)
	require.False(t, cfg.SeedEnabled)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("EDUPULSE_SEED_ENABLED", "false")

	_, err := Load()
	require.ErrorContains(t, err, "jwt secret")

	t.Setenv("EDUPULSE_JWT_SECRET", "secret")
	t.Setenv("EDUPULSE_DATABASE_DRIVER", "mysql")
	_, err = Load()
	require.ErrorContains(t, err, "unsupported database driver")

	t.Setenv("EDUPULSE_DATABASE_DRIVER", "sqlite")
	t.Setenv("EDUPULSE_JWT_TTL", "forever")
	_, err = Load()
	require.ErrorContains(t, err, "invalid jwt.ttl")
}
