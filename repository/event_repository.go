package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/camden-git/hockeycoach/models"
	"gorm.io/gorm"
)

// EventRepository handles database operations for Event entities and their player associations
type EventRepository struct {
	DB *gorm.DB
}

// NewEventRepository creates a new instance of EventRepository
func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{DB: db}
}

// Create inserts an event and fills in the generated ID
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	if err := r.DB.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to create event for video %d at %.3fs: %w", event.VideoID, event.Timestamp, err)
	}
	return nil
}

// GetByID retrieves an event. gorm.ErrRecordNotFound is returned unwrapped
// when it does not exist.
func (r *EventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	var event models.Event
	err := r.DB.WithContext(ctx).First(&event, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get event by ID %d: %w", id, err)
	}
	return &event, nil
}

// Delete removes an event and, through the cascade, its player associations
func (r *EventRepository) Delete(ctx context.Context, id int64) (int64, error) {
	result := r.DB.WithContext(ctx).Delete(&models.Event{}, id)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete event ID %d: %w", id, result.Error)
	}
	return result.RowsAffected, nil
}

// AddPlayer inserts a single association row and returns the rows changed.
func (r *EventRepository) AddPlayer(ctx context.Context, eventID, playerID int64) (int64, error) {
	result := r.DB.WithContext(ctx).Create(&models.EventPlayerAssociation{EventID: eventID, PlayerID: playerID})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to associate player %d with event %d: %w", playerID, eventID, result.Error)
	}
	return result.RowsAffected, nil
}

// CreateWithPlayers inserts the event and one association per player in a
// single transaction. If any insert fails nothing is persisted.
func (r *EventRepository) CreateWithPlayers(ctx context.Context, event *models.Event, playerIDs []int64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(event).Error; err != nil {
			return fmt.Errorf("failed to create event for video %d at %.3fs: %w", event.VideoID, event.Timestamp, err)
		}
		return insertAssociations(tx, event.ID, playerIDs)
	})
}

// ReplacePlayers sets the event's player list to exactly playerIDs.
// gorm.ErrRecordNotFound is returned when the event does not exist.
func (r *EventRepository) ReplacePlayers(ctx context.Context, eventID int64, playerIDs []int64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&models.Event{}, eventID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			return fmt.Errorf("failed to load event ID %d: %w", eventID, err)
		}
		if err := tx.Where("event_id = ?", eventID).Delete(&models.EventPlayerAssociation{}).Error; err != nil {
			return fmt.Errorf("failed to clear players of event %d: %w", eventID, err)
		}
		return insertAssociations(tx, eventID, playerIDs)
	})
}

func insertAssociations(tx *gorm.DB, eventID int64, playerIDs []int64) error {
	rows := make([]models.EventPlayerAssociation, 0, len(playerIDs))
	seen := make(map[int64]bool, len(playerIDs))
	for _, pid := range playerIDs {
		if seen[pid] {
			continue
		}
		seen[pid] = true
		rows = append(rows, models.EventPlayerAssociation{EventID: eventID, PlayerID: pid})
	}
	if len(rows) == 0 {
		return nil
	}
	if err := tx.Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to associate players %v with event %d: %w", playerIDs, eventID, err)
	}
	return nil
}
