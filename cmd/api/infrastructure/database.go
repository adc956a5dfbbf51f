package infrastructure

import (
	"fmt"

	"user-deletion-service/internal/config"
	"user-deletion-service/pkg/logger"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewDatabase opens the audit store selected by cfg.DB.Driver.
func NewDatabase(cfg *config.Config, l *zap.Logger) (*gorm.DB, error) {
	// Audit store query logging
	gormLogger := logger.NewAuditStoreLogger(l, cfg.DB.Driver, cfg.Logger.SlowQuerySeconds, cfg.Logger.Level)

	var dialector gorm.Dialector
	switch cfg.DB.Driver {
	case config.DriverPostgres:
		dialector = pgdriver.Open(cfg.DB.DSN())
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.DB.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DB.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.DB.Driver == config.DriverSQLite {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
		}
		// sqlite serializes writers
		sqlDB.SetMaxOpenConns(1)
	}

	l.Info("database connected successfully", zap.String("driver", cfg.DB.Driver))

	return db, nil
}

// CloseDatabase closes the database connection
func CloseDatabase(db *gorm.DB) error {
	if db == nil {
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}
