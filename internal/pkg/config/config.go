// Package config holds the typed runtime configuration of the newsfeed module.
// Values come from environment variables (optionally seeded from a .env file
// by package env).
package config

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// EnvDev is the APP_ENV of a developer machine.
const EnvDev = "dev"

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Env      string         `env:"APP_ENV" env-default:"prod"`
	LogLevel string         `env:"LOG_LEVEL" env-default:"info"`
	DB       DatabaseConfig
	Cache    CacheConfig
	Feed     FeedConfig
}

// DatabaseConfig selects the GORM driver and its connection parameters.
type DatabaseConfig struct {
	Driver     string        `env:"DB_DRIVER" env-default:"mysql"`
	Host       string        `env:"DB_HOST" env-default:"127.0.0.1"`
	Port       string        `env:"DB_PORT" env-default:"3306"`
	User       string        `env:"DB_USER" env-default:"newsfeed"`
	Password   string        `env:"DB_PASSWORD" env-default:""`
	Name       string        `env:"DB_NAME" env-default:"newsfeed"`
	SSLMode    string        `env:"DB_SSLMODE" env-default:"disable"`
	Path       string        `env:"DB_PATH" env-default:"newsfeed.db"`
	MaxRetries int           `env:"DB_MAX_RETRIES" env-default:"5"`
	RetryDelay time.Duration `env:"DB_RETRY_DELAY" env-default:"5s"`
	// AutoMigrate runs GORM's AutoMigrate on connect; disable it when the
	// schema is managed with cmd/migrate.
	AutoMigrate bool `env:"DB_AUTO_MIGRATE" env-default:"true"`
}

// CacheConfig configures the Redis tag-label cache.
type CacheConfig struct {
	Enabled bool          `env:"CACHE_ENABLED" env-default:"false"`
	Host    string        `env:"CACHE_HOST" env-default:"localhost"`
	Port    string        `env:"CACHE_PORT" env-default:"6379"`
	TTL     time.Duration `env:"CACHE_TTL" env-default:"10m"`
}

type FeedConfig struct {
	PerPage int `env:"FEED_PER_PAGE" env-default:"15"`
}

// Addr returns host:port of the cache server.
func (c CacheConfig) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// DSN returns the driver specific data source name.
func (c DatabaseConfig) DSN() string {
	switch c.Driver {
	case DriverPostgres:
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
			c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
	case DriverSQLite:
		if strings.Contains(c.Path, "?") {
			return c.Path
		}
		return c.Path + "?_foreign_keys=on"
	default:
		// "user:pass@tcp(127.0.0.1:3306)/dbname?charset=utf8mb4&parseTime=True&loc=Local"
		return fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			c.User, c.Password, net.JoinHostPort(c.Host, c.Port), c.Name)
	}
}

// MigrateURL returns the URL golang-migrate expects for the driver.
func (c DatabaseConfig) MigrateURL() string {
	switch c.Driver {
	case DriverPostgres:
		return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s",
			c.User, c.Password, net.JoinHostPort(c.Host, c.Port), c.Name, c.SSLMode)
	case DriverSQLite:
		return "sqlite3://" + c.Path
	default:
		return fmt.Sprintf("mysql://%s:%s@tcp(%s)/%s?multiStatements=true",
			c.User, c.Password, net.JoinHostPort(c.Host, c.Port), c.Name)
	}
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsDev reports whether APP_ENV selects the development environment.
func (c *Config) IsDev() bool {
	return c.Env == EnvDev
}

func (c *Config) validate() error {
	switch c.DB.Driver {
	case DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}
	if c.Feed.PerPage <= 0 {
		return fmt.Errorf("FEED_PER_PAGE must be positive, got %d", c.Feed.PerPage)
	}
	return nil
}
