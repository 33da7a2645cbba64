package config_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/ledger/internal/config"
	"github.com/MrJamesThe3rd/ledger/internal/database"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, 30*time.Second, cfg.Server.Timeout)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "WeChat", cfg.Ledger.DefaultPaymentMethod)
	assert.InDelta(t, 0.8, cfg.Ledger.DefaultThreshold, 1e-9)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel())

	dialect, dsn, err := cfg.DataSource()
	require.NoError(t, err)
	assert.Equal(t, database.SQLite, dialect)
	assert.Equal(t, database.SQLiteDSN("ledger.db"), dsn)
}

func TestLoad_Environment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_USER", "ledger")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("DB_NAME", "books")
	t.Setenv("CORS_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := config.Load()
	require.NoError(t, err)

	dialect, dsn, err := cfg.DataSource()
	require.NoError(t, err)
	assert.Equal(t, database.Postgres, dialect)
	assert.Equal(t, database.PostgresDSN("ledger", "pw", "localhost", 5432, "books"), dsn)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.CORSOrigins)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel())
}

func TestDataSource_UnknownDriver(t *testing.T) {
	var cfg config.Config
	cfg.DB.Driver = "oracle"

	_, _, err := cfg.DataSource()
	assert.Error(t, err)
}
