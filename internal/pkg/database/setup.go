package database

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ManuelReschke/newsfeed/app/models"
	"github.com/ManuelReschke/newsfeed/internal/pkg/config"
	"github.com/ManuelReschke/newsfeed/internal/pkg/logger"
)

// DB is the connection opened by SetupDatabase.
var DB *gorm.DB

// SetupDatabase opens the configured database, retrying while it is not
// reachable yet, and prepares the newsfeed schema.
func SetupDatabase(cfg config.DatabaseConfig, logLevel string, log zerolog.Logger) (*gorm.DB, error) {
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	attempts := cfg.MaxRetries
	if attempts < 1 {
		attempts = 1
	}

	var db *gorm.DB
	for i := 0; i < attempts; i++ {
		db, err = gorm.Open(dialector, &gorm.Config{
			TranslateError: true,
			Logger:         gormlogger.Default.LogMode(logger.GormLevel(logLevel)),
		})
		if err == nil {
			break
		}

		log.Warn().Err(err).Int("try", i+1).Int("max", attempts).Str("driver", cfg.Driver).
			Msg("failed to connect to database")
		if i < attempts-1 {
			log.Info().Dur("delay", cfg.RetryDelay).Msg("retrying database connection")
			time.Sleep(cfg.RetryDelay)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", cfg.Driver, err)
	}

	if err := Prepare(db, cfg.Driver, cfg.AutoMigrate); err != nil {
		return nil, err
	}

	log.Info().Str("driver", cfg.Driver).Bool("auto_migrate", cfg.AutoMigrate).Msg("database ready")
	DB = db
	return db, nil
}

// Dialector returns the GORM dialector of the configured driver.
func Dialector(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverMySQL:
		return mysql.New(mysql.Config{
			DSN:                       cfg.DSN(), // data source name
			DefaultStringSize:         256,       // default size for string fields
			DisableDatetimePrecision:  true,      // disable datetime precision, which not supported before MySQL 5.6
			DontSupportRenameIndex:    true,      // drop & create when rename index, rename index not supported before MySQL 5.7, MariaDB
			DontSupportRenameColumn:   true,      // `change` when rename column, rename column not supported before MySQL 8, MariaDB
			SkipInitializeWithVersion: false,     // auto configure based on currently MySQL version
		}), nil
	case config.DriverPostgres:
		return postgres.Open(cfg.DSN()), nil
	case config.DriverSQLite:
		return sqlite.Open(cfg.DSN()), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// Prepare registers the join model and, when migrate is set, migrates the schema.
func Prepare(db *gorm.DB, driver string, migrate bool) error {
	if !migrate {
		if err := models.SetupJoinTables(db); err != nil {
			return fmt.Errorf("setup join tables: %w", err)
		}
		return nil
	}

	if err := models.AutoMigrate(db); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	// MySQL compares with a case-insensitive collation by default; tag labels
	// must stay unique case-sensitively.
	if driver == config.DriverMySQL {
		err := db.Exec("ALTER TABLE tags MODIFY tag VARCHAR(100) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL").Error
		if err != nil {
			return fmt.Errorf("set tag collation: %w", err)
		}
	}
	return nil
}
