package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"

	"github.com/ManuelReschke/newsfeed/internal/pkg/config"
	"github.com/ManuelReschke/newsfeed/internal/pkg/env"
	"github.com/ManuelReschke/newsfeed/internal/pkg/logger"
)

// basePaths are probed for the migrations directory
var basePaths = []string{
	"./",        // Current directory
	"../../",    // From cmd/migrate to project root
	"../../../", // Fallback
}

// migrator is the part of *migrate.Migrate the commands use.
type migrator interface {
	Up() error
	Steps(n int) error
	Migrate(version uint) error
	Version() (version uint, dirty bool, err error)
	Close() (source error, database error)
}

var errUsage = errors.New("usage")

// openMigrator is replaced in tests.
var openMigrator = func(source, databaseURL string) (migrator, error) {
	return migrate.New(source, databaseURL)
}

func main() {
	envFile, envErr := env.SetupEnvFile()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel, cfg.IsDev())
	if envErr != nil {
		log.Warn().Err(envErr).Str("file", envFile).Msg("failed to load env file")
	}

	if err := run(cfg.DB, os.Args[1:], log); err != nil {
		if errors.Is(err, errUsage) {
			printUsage()
		} else {
			log.Error().Err(err).Msg("migration failed")
		}
		os.Exit(1)
	}
}

// run executes one migration command. The migrator is closed before run
// returns, whatever the outcome.
func run(cfg config.DatabaseConfig, args []string, log zerolog.Logger) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "up", "down", "status":
	case "goto":
		if len(args) < 2 {
			return fmt.Errorf("goto needs a version number: %w", errUsage)
		}
	default:
		return errUsage
	}

	source, err := migrationsSource(cfg.Driver)
	if err != nil {
		return err
	}

	log.Info().Str("driver", cfg.Driver).Str("host", cfg.Host).Str("database", cfg.Name).
		Str("source", source).Msg("connecting to database")

	m, err := openMigrator(source, cfg.MigrateURL())
	if err != nil {
		return fmt.Errorf("initialize migrations: %w", err)
	}
	defer func() {
		if sourceErr, dbErr := m.Close(); sourceErr != nil || dbErr != nil {
			log.Error().AnErr("source", sourceErr).AnErr("database", dbErr).Msg("failed to close migration resources")
		}
	}()

	return runCommand(m, args, log)
}

func runCommand(m migrator, args []string, log zerolog.Logger) error {
	switch args[0] {
	case "up":
		err := m.Up()
		switch {
		case errors.Is(err, migrate.ErrNoChange):
			log.Info().Msg("no change: database is up to date")
		case err != nil:
			return fmt.Errorf("apply migrations: %w", err)
		default:
			log.Info().Msg("migrations applied")
		}

	case "down":
		if err := m.Steps(-1); err != nil {
			return fmt.Errorf("roll back the last migration: %w", err)
		}
		log.Info().Msg("last migration rolled back")

	case "goto":
		version, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid version number %q: %w", args[1], err)
		}

		err = m.Migrate(uint(version))
		switch {
		case errors.Is(err, migrate.ErrNoChange):
			log.Info().Uint64("version", version).Msg("no change: database is already at version")
		case err != nil:
			return fmt.Errorf("migrate to version %d: %w", version, err)
		default:
			log.Info().Uint64("version", version).Msg("migrated")
		}

	case "status":
		version, dirty, err := m.Version()
		switch {
		case errors.Is(err, migrate.ErrNilVersion):
			log.Info().Msg("no migrations applied yet")
		case err != nil:
			return fmt.Errorf("read migration version: %w", err)
		default:
			log.Info().Uint("version", version).Bool("dirty", dirty).Msg("current migration version")
		}

	default:
		return errUsage
	}
	return nil
}

// migrationsSource returns the file:// source of the driver's migrations.
func migrationsSource(driver string) (string, error) {
	for _, base := range basePaths {
		dir := filepath.Join(base, "migrations", driver)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return "file://" + filepath.ToSlash(dir), nil
		}
	}
	return "", fmt.Errorf("no migrations/%s directory", driver)
}

func printUsage() {
	fmt.Println("Usage: go run cmd/migrate/main.go [command]")
	fmt.Println("Commands:")
	fmt.Println("  up     - apply all pending migrations")
	fmt.Println("  down   - roll back the last migration")
	fmt.Println("  goto N - migrate to version N")
	fmt.Println("  status - show the current migration version")
}
