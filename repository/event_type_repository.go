package repository

import (
	"context"
	"fmt"

	"github.com/camden-git/hockeycoach/models"
	"gorm.io/gorm"
)

type EventTypeRepository struct {
	DB *gorm.DB
}

func NewEventTypeRepository(db *gorm.DB) *EventTypeRepository {
	return &EventTypeRepository{DB: db}
}

func (r *EventTypeRepository) ListAll(ctx context.Context) ([]models.EventType, error) {
	eventTypes := []models.EventType{}
	err := r.DB.WithContext(ctx).Order("name ASC").Order("id ASC").Find(&eventTypes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list event types: %w", err)
	}
	return eventTypes, nil
}

func (r *EventTypeRepository) Create(ctx context.Context, eventType *models.EventType) error {
	if err := r.DB.WithContext(ctx).Create(eventType).Error; err != nil {
		return fmt.Errorf("failed to create event type %s: %w", eventType.Name, err)
	}
	return nil
}
