package repository

import (
	"context"

	"github.com/camden-git/hockeycoach/models"
)

// PlayerRepositoryInterface defines the methods for player data operations
type PlayerRepositoryInterface interface {
	ListAll(ctx context.Context) ([]models.Player, error)
	Create(ctx context.Context, player *models.Player) error
	UpdateName(ctx context.Context, id int64, name string) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}

// EventTypeRepositoryInterface defines the methods for event type data operations.
// Event types are append-only: there is no update or delete.
type EventTypeRepositoryInterface interface {
	ListAll(ctx context.Context) ([]models.EventType, error)
	Create(ctx context.Context, eventType *models.EventType) error
}

// VideoRepositoryInterface defines the methods for video data operations
type VideoRepositoryInterface interface {
	FindOrCreate(ctx context.Context, filePath string) (*models.Video, error)
	ListAll(ctx context.Context) ([]models.Video, error)
}

// EventRepositoryInterface defines the methods for event and event/player association operations
type EventRepositoryInterface interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id int64) (*models.Event, error)
	Delete(ctx context.Context, id int64) (int64, error)
	AddPlayer(ctx context.Context, eventID, playerID int64) (int64, error)

	// transactional: all rows are written or none are
	CreateWithPlayers(ctx context.Context, event *models.Event, playerIDs []int64) error
	ReplacePlayers(ctx context.Context, eventID int64, playerIDs []int64) error
}
