package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverMySQL, cfg.DB.Driver)
	assert.Equal(t, 5, cfg.DB.MaxRetries)
	assert.Equal(t, 5*time.Second, cfg.DB.RetryDelay)
	assert.Equal(t, 15, cfg.Feed.PerPage)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	assert.True(t, cfg.DB.AutoMigrate)
	assert.Equal(t, "prod", cfg.Env)
	assert.False(t, cfg.IsDev())
}

func TestIsDev(t *testing.T) {
	t.Setenv("APP_ENV", "dev")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsDev())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("FEED_PER_PAGE", "25")
	t.Setenv("CACHE_ENABLED", "true")
	t.Setenv("CACHE_HOST", "redis")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, 25, cfg.Feed.PerPage)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "redis:6379", cfg.Cache.Addr())
	assert.Contains(t, cfg.DB.DSN(), "host=db port=5432")
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "oracle")
}

func TestDSN(t *testing.T) {
	db := DatabaseConfig{Driver: DriverMySQL, Host: "127.0.0.1", Port: "3306", User: "u", Password: "p", Name: "news"}
	assert.Equal(t, "u:p@tcp(127.0.0.1:3306)/news?charset=utf8mb4&parseTime=True&loc=Local", db.DSN())
	assert.Equal(t, "mysql://u:p@tcp(127.0.0.1:3306)/news?multiStatements=true", db.MigrateURL())

	db.Driver = DriverSQLite
	db.Path = "/tmp/news.db"
	assert.Equal(t, "/tmp/news.db?_foreign_keys=on", db.DSN())
	assert.Equal(t, "sqlite3:///tmp/news.db", db.MigrateURL())

	db = DatabaseConfig{Driver: DriverPostgres, Host: "db", Port: "5432", User: "u", Password: "p", Name: "news", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@db:5432/news?sslmode=disable", db.MigrateURL())

	db.Driver = DriverSQLite
	db.Path = "file::memory:?cache=shared"
	assert.Equal(t, "file::memory:?cache=shared", db.DSN())
}
