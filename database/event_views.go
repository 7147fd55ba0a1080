package database

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// EventPlayer is a player attached to an event.
type EventPlayer struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// VideoEvent is one row of the per-video timeline.
type VideoEvent struct {
	ID            int64         `json:"id"`
	Timestamp     float64       `json:"timestamp"`
	EventTypeID   int64         `json:"event_type_id"`
	EventTypeName string        `json:"event_type_name"`
	Players       []EventPlayer `json:"players"`
}

// EventDetail is a single event with its owning video and players, as shown
// by the event edit view.
type EventDetail struct {
	ID            int64         `json:"id"`
	VideoID       int64         `json:"video_id"`
	Timestamp     float64       `json:"timestamp"`
	EventTypeID   int64         `json:"event_type_id"`
	EventTypeName string        `json:"event_type_name"`
	Players       []EventPlayer `json:"players"`
}

// PlayerEvent is one event a player was tagged in, annotated with its video.
type PlayerEvent struct {
	ID            int64   `json:"id"`
	Timestamp     float64 `json:"timestamp"`
	VideoID       int64   `json:"video_id"`
	FilePath      string  `json:"file_path"`
	EventTypeName string  `json:"event_type_name"`
	EventTypeID   int64   `json:"event_type_id"`
}

// loadEventPlayers runs the association query and groups players by event id.
func loadEventPlayers(ctx context.Context, db *sql.DB, where sq.Sqlizer) (map[int64][]EventPlayer, error) {
	queryBuilder := psql.Select("epa.event_id", "p.id", "p.name").
		From("event_player_associations epa").
		Join("players p ON p.id = epa.player_id").
		Join("events e ON e.id = epa.event_id").
		Where(where).
		OrderBy("p.name ASC", "p.id ASC")
	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build SQL for event players: %w", err)
	}
	rows, err := db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute event players query: %w", err)
	}
	defer rows.Close()

	byEvent := make(map[int64][]EventPlayer)
	for rows.Next() {
		var eventID int64
		var p EventPlayer
		if err := rows.Scan(&eventID, &p.ID, &p.Name); err != nil {
			return nil, fmt.Errorf("failed to scan event player row: %w", err)
		}
		byEvent[eventID] = append(byEvent[eventID], p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating event player rows: %w", err)
	}
	return byEvent, nil
}

func playersOrEmpty(players []EventPlayer) []EventPlayer {
	if players == nil {
		return []EventPlayer{}
	}
	return players
}

// VideoEvents returns every event of a video ordered by timestamp, ties kept
// in insertion order, each with its event type name and players.
func VideoEvents(ctx context.Context, db *sql.DB, videoID int64) ([]VideoEvent, error) {
	queryBuilder := psql.Select("e.id", "e.timestamp", "e.event_type_id", "et.name").
		From("events e").
		Join("event_types et ON et.id = e.event_type_id").
		Where(sq.Eq{"e.video_id": videoID}).
		OrderBy("e.timestamp ASC", "e.id ASC")
	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build SQL for VideoEvents: %w", err)
	}
	rows, err := db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute VideoEvents query for video %d: %w", videoID, err)
	}
	defer rows.Close()

	events := []VideoEvent{}
	for rows.Next() {
		var ev VideoEvent
		if err := rows.Scan(&ev.ID, &ev.Timestamp, &ev.EventTypeID, &ev.EventTypeName); err != nil {
			return nil, fmt.Errorf("failed to scan video event row: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating video event rows for video %d: %w", videoID, err)
	}
	if len(events) == 0 {
		return events, nil
	}

	players, err := loadEventPlayers(ctx, db, sq.Eq{"e.video_id": videoID})
	if err != nil {
		return nil, err
	}
	for i := range events {
		events[i].Players = playersOrEmpty(players[events[i].ID])
	}
	return events, nil
}

// GetEventDetail returns one event with its players. sql.ErrNoRows is
// returned unwrapped when the event does not exist.
func GetEventDetail(ctx context.Context, db *sql.DB, eventID int64) (EventDetail, error) {
	var ev EventDetail
	queryBuilder := psql.Select("e.id", "e.video_id", "e.timestamp", "e.event_type_id", "et.name").
		From("events e").
		Join("event_types et ON et.id = e.event_type_id").
		Where(sq.Eq{"e.id": eventID}).
		Limit(1)
	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return EventDetail{}, fmt.Errorf("failed to build SQL for GetEventDetail: %w", err)
	}
	err = db.QueryRowContext(ctx, sqlStr, args...).Scan(&ev.ID, &ev.VideoID, &ev.Timestamp, &ev.EventTypeID, &ev.EventTypeName)
	if err != nil {
		if err == sql.ErrNoRows {
			return EventDetail{}, sql.ErrNoRows
		}
		return EventDetail{}, fmt.Errorf("failed to query or scan event %d: %w", eventID, err)
	}

	players, err := loadEventPlayers(ctx, db, sq.Eq{"epa.event_id": eventID})
	if err != nil {
		return EventDetail{}, err
	}
	ev.Players = playersOrEmpty(players[eventID])
	return ev, nil
}

// PlayerEvents returns every event a player is associated with, across all
// videos, ordered by video file path and then timestamp so consecutive rows
// can be grouped per video.
func PlayerEvents(ctx context.Context, db *sql.DB, playerID int64) ([]PlayerEvent, error) {
	queryBuilder := psql.Select("e.id", "e.timestamp", "e.video_id", "v.file_path", "et.name", "et.id").
		From("events e").
		Join("event_player_associations epa ON epa.event_id = e.id").
		Join("videos v ON v.id = e.video_id").
		Join("event_types et ON et.id = e.event_type_id").
		Where(sq.Eq{"epa.player_id": playerID}).
		OrderBy("v.file_path ASC", "e.timestamp ASC", "e.id ASC")
	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build SQL for PlayerEvents: %w", err)
	}
	rows, err := db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute PlayerEvents query for player %d: %w", playerID, err)
	}
	defer rows.Close()

	events := []PlayerEvent{}
	for rows.Next() {
		var ev PlayerEvent
		if err := rows.Scan(&ev.ID, &ev.Timestamp, &ev.VideoID, &ev.FilePath, &ev.EventTypeName, &ev.EventTypeID); err != nil {
			return nil, fmt.Errorf("failed to scan player event row: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating player event rows for player %d: %w", playerID, err)
	}
	return events, nil
}
