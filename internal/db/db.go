package db

import (
	"fmt"
	"strings"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/oggyb/swipe-match/internal/config"
)

// NewDB initializes the database connection using the driver and DSN from config.
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	dialector, err := Dialector(cfg.DB.Driver, cfg.DB.DSN)
	if err != nil {
		return nil, err
	}

	logLevel := logger.Warn
	if cfg.Log.Level == "debug" {
		logLevel = logger.Info // log SQL queries
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql db: %w", err)
	}
	if cfg.DB.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.DB.MaxOpenConns)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Dialector picks the gorm dialect for a configured driver name.
func Dialector(driver, dsn string) (gorm.Dialector, error) {
	switch driver {
	case "", "mysql":
		return mysql.Open(dsn), nil
	case "postgres":
		return postgres.Open(dsn), nil
	case "sqlite":
		return sqlite.Open(SQLiteDSN(dsn)), nil
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}
}

// SQLiteDSN turns on foreign key enforcement for every pooled connection.
// SQLite scopes the pragma to a single connection, so it has to travel in the DSN.
func SQLiteDSN(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys=") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_foreign_keys=on"
}

// Migrate keeps the schema in sync with the models.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
