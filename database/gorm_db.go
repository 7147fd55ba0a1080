package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/camden-git/hockeycoach/logger"
)

func parseLogLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}

// dsn appends the connection parameters every connection must carry.
// Foreign keys are a per-connection setting in SQLite, so they are requested
// here as well as by EnsureSchema.
func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on"
}

// Open initializes and returns a GORM database instance backed by the sqlite file at path
func Open(path string, log *logger.Logger, sqlLogLevel string) (*gorm.DB, error) {
	gormLogger := gormlogger.New(
		log.Std(),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  parseLogLevel(sqlLogLevel),
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(sqlite.Open(dsn(path)), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database using GORM: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB from GORM: %w", err)
	}

	// one process-wide connection; sqlite serializes statements on it
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	log.Info("GORM database opened", "path", path)
	return db, nil
}

// OpenStore opens the database, creates the schema and seeds the default
// event types. Any failure here leaves the application without a usable
// store and must abort startup.
func OpenStore(ctx context.Context, path string, log *logger.Logger, sqlLogLevel string) (*gorm.DB, error) {
	db, err := Open(path, log, sqlLogLevel)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB from GORM: %w", err)
	}

	if err := EnsureSchema(ctx, sqlDB); err != nil {
		sqlDB.Close()
		return nil, err
	}
	inserted, err := SeedDefaultEventTypes(ctx, sqlDB)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}
	if inserted > 0 {
		log.Info("default event types inserted", "count", inserted)
	}

	log.Info("database initialized successfully", "path", path)
	return db, nil
}
