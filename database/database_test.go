package database_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camden-git/hockeycoach/database"
	"github.com/camden-git/hockeycoach/logger"
	"github.com/camden-git/hockeycoach/models"
	"github.com/camden-git/hockeycoach/repository"
	"github.com/camden-git/hockeycoach/testutil"
)

func TestEnsureSchemaIsIdempotent(t *testing.T) {
	db := testutil.Store(t)
	sqlDB := testutil.SQL(t, db)
	ctx := context.Background()

	require.NoError(t, database.EnsureSchema(ctx, sqlDB))
	require.NoError(t, database.EnsureSchema(ctx, sqlDB))

	for _, table := range []string{"players", "event_types", "videos", "events", "event_player_associations"} {
		var name string
		err := sqlDB.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		require.NoError(t, err, table)
		assert.Equal(t, table, name)
	}

	var fk int
	require.NoError(t, sqlDB.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)
}

func TestSeedDefaultEventTypes(t *testing.T) {
	db := testutil.Store(t)
	sqlDB := testutil.SQL(t, db)
	ctx := context.Background()

	var seeded []models.EventType
	require.NoError(t, db.Order("id ASC").Find(&seeded).Error)
	require.Len(t, seeded, len(database.DefaultEventTypes))
	for i, et := range seeded {
		assert.Equal(t, database.DefaultEventTypes[i], et.Name)
		assert.False(t, et.IsCustom)
	}

	inserted, err := database.SeedDefaultEventTypes(ctx, sqlDB)
	require.NoError(t, err)
	assert.Equal(t, 0, inserted)

	var nonCustom int64
	require.NoError(t, db.Model(&models.EventType{}).Where("is_custom = ?", false).Count(&nonCustom).Error)
	assert.EqualValues(t, 7, nonCustom)
}

func TestSeedSkipsWhenCustomTypesOnly(t *testing.T) {
	db := testutil.Store(t)
	sqlDB := testutil.SQL(t, db)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.EventType{Name: "Hit", IsCustom: true}).Error)
	_, err := database.SeedDefaultEventTypes(ctx, sqlDB)
	require.NoError(t, err)

	assert.EqualValues(t, 8, testutil.Count(t, db, &models.EventType{}))
}

func TestOpenStoreSurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "restart.db")
	ctx := context.Background()

	first, err := database.OpenStore(ctx, path, logger.Nop(), "silent")
	require.NoError(t, err)
	testutil.SeedPlayer(t, first, "Alice")
	sqlDB, err := first.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	second, err := database.OpenStore(ctx, path, logger.Nop(), "silent")
	require.NoError(t, err)
	t.Cleanup(func() {
		if s, err := second.DB(); err == nil {
			s.Close()
		}
	})

	assert.EqualValues(t, 1, testutil.Count(t, second, &models.Player{}))
	assert.EqualValues(t, 7, testutil.Count(t, second, &models.EventType{}))
}

func TestOpenStoreAcceptsDuplicateVideoPaths(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.db")
	ctx := context.Background()

	legacy, err := database.Open(path, logger.Nop(), "silent")
	require.NoError(t, err)
	legacySQL := testutil.SQL(t, legacy)
	_, err = legacySQL.ExecContext(ctx, `CREATE TABLE videos (id INTEGER PRIMARY KEY, file_path TEXT NOT NULL)`)
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		_, err = legacySQL.ExecContext(ctx, `INSERT INTO videos (file_path) VALUES ('/a.mp4')`)
		require.NoError(t, err)
	}
	require.NoError(t, legacySQL.Close())

	db, err := database.OpenStore(ctx, path, logger.Nop(), "silent")
	require.NoError(t, err)
	t.Cleanup(func() {
		if s, err := db.DB(); err == nil {
			s.Close()
		}
	})
	assert.EqualValues(t, 2, testutil.Count(t, db, &models.Video{}))

	video, err := repository.NewVideoRepository(db).FindOrCreate(ctx, "/a.mp4")
	require.NoError(t, err)
	assert.EqualValues(t, 1, video.ID)
	assert.EqualValues(t, 2, testutil.Count(t, db, &models.Video{}))
}

func TestOpenStoreFailsOnUnwritablePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "nested", "x.db")
	_, err := database.OpenStore(context.Background(), path, logger.Nop(), "silent")
	assert.Error(t, err)
}

func TestCascadeOnVideoDelete(t *testing.T) {
	db := testutil.Store(t)
	shot := testutil.EventTypeID(t, db, "Shot")
	alice := testutil.SeedPlayer(t, db, "Alice")
	v1 := testutil.SeedVideo(t, db, "/games/a.mp4")
	v2 := testutil.SeedVideo(t, db, "/games/b.mp4")
	testutil.SeedEvent(t, db, v1.ID, shot, 1.0, alice.ID)
	testutil.SeedEvent(t, db, v1.ID, shot, 2.0, alice.ID)
	keep := testutil.SeedEvent(t, db, v2.ID, shot, 3.0, alice.ID)

	require.NoError(t, db.Delete(&models.Video{}, v1.ID).Error)

	assert.EqualValues(t, 1, testutil.Count(t, db, &models.Event{}))
	assert.EqualValues(t, 1, testutil.Count(t, db, &models.EventPlayerAssociation{}))

	var remaining models.EventPlayerAssociation
	require.NoError(t, db.First(&remaining).Error)
	assert.Equal(t, keep.ID, remaining.EventID)
}

func TestCascadeOnPlayerDeleteKeepsEvents(t *testing.T) {
	db := testutil.Store(t)
	goal := testutil.EventTypeID(t, db, "Goal")
	alice := testutil.SeedPlayer(t, db, "Alice")
	bob := testutil.SeedPlayer(t, db, "Bob")
	v := testutil.SeedVideo(t, db, "/games/a.mp4")
	ev := testutil.SeedEvent(t, db, v.ID, goal, 10, alice.ID, bob.ID)

	require.NoError(t, db.Delete(&models.Player{}, alice.ID).Error)

	assert.EqualValues(t, 1, testutil.Count(t, db, &models.Event{}))
	events, err := database.VideoEvents(context.Background(), testutil.SQL(t, db), v.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, ev.ID, events[0].ID)
	assert.Equal(t, []database.EventPlayer{{ID: bob.ID, Name: "Bob"}}, events[0].Players)
}

func TestCascadeOnEventTypeDelete(t *testing.T) {
	db := testutil.Store(t)
	hit := &models.EventType{Name: "Hit", IsCustom: true}
	require.NoError(t, db.Create(hit).Error)
	alice := testutil.SeedPlayer(t, db, "Alice")
	v := testutil.SeedVideo(t, db, "/games/a.mp4")
	testutil.SeedEvent(t, db, v.ID, hit.ID, 4, alice.ID)

	require.NoError(t, db.Delete(&models.EventType{}, hit.ID).Error)

	assert.EqualValues(t, 0, testutil.Count(t, db, &models.Event{}))
	assert.EqualValues(t, 0, testutil.Count(t, db, &models.EventPlayerAssociation{}))
	assert.EqualValues(t, 1, testutil.Count(t, db, &models.Player{}))
}

func TestForeignKeysRejectDanglingEvent(t *testing.T) {
	db := testutil.Store(t)
	err := db.Create(&models.Event{VideoID: 999, EventTypeID: 1, Timestamp: 1}).Error
	assert.Error(t, err)
}
