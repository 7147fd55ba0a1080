package database

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// DefaultEventTypes are seeded, in this order, the first time the store is initialized.
var DefaultEventTypes = []string{
	"Shot",
	"Faceoff",
	"Zone Entry",
	"Turnover",
	"Goal",
	"Penalty",
	"Save",
}

var schema = []struct {
	name string
	ddl  string
}{
	{"players", `CREATE TABLE IF NOT EXISTS players (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL
	)`},
	{"event_types", `CREATE TABLE IF NOT EXISTS event_types (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		is_custom BOOLEAN NOT NULL
	)`},
	{"videos", `CREATE TABLE IF NOT EXISTS videos (
		id INTEGER PRIMARY KEY,
		file_path TEXT NOT NULL
	)`},
	{"idx_videos_file_path", `CREATE INDEX IF NOT EXISTS idx_videos_file_path ON videos(file_path)`},
	{"events", `CREATE TABLE IF NOT EXISTS events (
		id INTEGER PRIMARY KEY,
		video_id INTEGER NOT NULL REFERENCES videos(id) ON DELETE CASCADE,
		event_type_id INTEGER NOT NULL REFERENCES event_types(id) ON DELETE CASCADE,
		timestamp REAL NOT NULL
	)`},
	{"idx_events_video_id", `CREATE INDEX IF NOT EXISTS idx_events_video_id ON events(video_id)`},
	{"event_player_associations", `CREATE TABLE IF NOT EXISTS event_player_associations (
		event_id INTEGER NOT NULL REFERENCES events(id) ON DELETE CASCADE,
		player_id INTEGER NOT NULL REFERENCES players(id) ON DELETE CASCADE,
		PRIMARY KEY (event_id, player_id)
	)`},
	{"idx_event_player_associations_player_id", `CREATE INDEX IF NOT EXISTS idx_event_player_associations_player_id ON event_player_associations(player_id)`},
}

// EnsureSchema enables foreign key enforcement on the connection and creates
// the tables if they are absent. Safe to call on every startup.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	var fkEnabled int
	if err := db.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fkEnabled); err != nil {
		return fmt.Errorf("failed to read foreign_keys pragma: %w", err)
	}
	if fkEnabled != 1 {
		return fmt.Errorf("foreign key enforcement is not available on this connection")
	}

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt.ddl); err != nil {
			return fmt.Errorf("failed to create %s: %w", stmt.name, err)
		}
	}
	return nil
}

// SeedDefaultEventTypes inserts DefaultEventTypes when no non-custom event
// type exists yet. It returns the number of rows inserted, 0 when the seed
// was already present.
func SeedDefaultEventTypes(ctx context.Context, db *sql.DB) (int, error) {
	countQuery := psql.Select("COUNT(*)").
		From("event_types").
		Where(sq.Eq{"is_custom": false})
	sqlStr, args, err := countQuery.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build SQL for SeedDefaultEventTypes count: %w", err)
	}
	var count int
	if err := db.QueryRowContext(ctx, sqlStr, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to check event types: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	insert := psql.Insert("event_types").Columns("name", "is_custom")
	for _, name := range DefaultEventTypes {
		insert = insert.Values(name, false)
	}
	sqlStr, args, err = insert.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build SQL for SeedDefaultEventTypes insert: %w", err)
	}
	result, err := db.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to insert default event types: %w", err)
	}
	inserted, err := result.RowsAffected()
	if err != nil {
		return len(DefaultEventTypes), nil
	}
	return int(inserted), nil
}
