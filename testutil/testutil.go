package testutil

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"github.com/camden-git/hockeycoach/database"
	"github.com/camden-git/hockeycoach/logger"
	"github.com/camden-git/hockeycoach/models"
)

// Store opens a fresh, schema-ready and seeded store in a temp directory.
func Store(tb testing.TB) *gorm.DB {
	tb.Helper()
	path := filepath.Join(tb.TempDir(), "hockey-coach-test.db")
	db, err := database.OpenStore(context.Background(), path, logger.Nop(), "silent")
	if err != nil {
		tb.Fatalf("failed to open test store: %v", err)
	}
	tb.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func SQL(tb testing.TB, db *gorm.DB) *sql.DB {
	tb.Helper()
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("failed to get sql.DB: %v", err)
	}
	return sqlDB
}

func SeedPlayer(tb testing.TB, db *gorm.DB, name string) *models.Player {
	tb.Helper()
	p := &models.Player{Name: name}
	if err := db.Create(p).Error; err != nil {
		tb.Fatalf("seed player: %v", err)
	}
	return p
}

func SeedVideo(tb testing.TB, db *gorm.DB, path string) *models.Video {
	tb.Helper()
	v := &models.Video{FilePath: path}
	if err := db.Create(v).Error; err != nil {
		tb.Fatalf("seed video: %v", err)
	}
	return v
}

// EventTypeID looks up a seeded event type by name.
func EventTypeID(tb testing.TB, db *gorm.DB, name string) int64 {
	tb.Helper()
	var et models.EventType
	if err := db.Where("name = ?", name).First(&et).Error; err != nil {
		tb.Fatalf("event type %q: %v", name, err)
	}
	return et.ID
}

func SeedEvent(tb testing.TB, db *gorm.DB, videoID, eventTypeID int64, timestamp float64, playerIDs ...int64) *models.Event {
	tb.Helper()
	ev := &models.Event{VideoID: videoID, EventTypeID: eventTypeID, Timestamp: timestamp}
	if err := db.Create(ev).Error; err != nil {
		tb.Fatalf("seed event: %v", err)
	}
	for _, pid := range playerIDs {
		if err := db.Create(&models.EventPlayerAssociation{EventID: ev.ID, PlayerID: pid}).Error; err != nil {
			tb.Fatalf("seed association: %v", err)
		}
	}
	return ev
}

func Count(tb testing.TB, db *gorm.DB, model interface{}) int64 {
	tb.Helper()
	var n int64
	if err := db.Model(model).Count(&n).Error; err != nil {
		tb.Fatalf("count: %v", err)
	}
	return n
}
