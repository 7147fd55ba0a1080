package repository

import (
	"context"
	"fmt"

	"github.com/camden-git/hockeycoach/models"
	"gorm.io/gorm"
)

// PlayerRepository handles database operations for Player entities
type PlayerRepository struct {
	DB *gorm.DB
}

// NewPlayerRepository creates a new instance of PlayerRepository
func NewPlayerRepository(db *gorm.DB) *PlayerRepository {
	return &PlayerRepository{DB: db}
}

// ListAll retrieves all players ordered by name
func (r *PlayerRepository) ListAll(ctx context.Context) ([]models.Player, error) {
	players := []models.Player{}
	err := r.DB.WithContext(ctx).Order("name ASC").Order("id ASC").Find(&players).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	return players, nil
}

// Create inserts a player and fills in the generated ID
func (r *PlayerRepository) Create(ctx context.Context, player *models.Player) error {
	if err := r.DB.WithContext(ctx).Create(player).Error; err != nil {
		return fmt.Errorf("failed to create player %s: %w", player.Name, err)
	}
	return nil
}

// UpdateName renames a player. It returns the number of rows changed;
// 0 means no player has that ID.
func (r *PlayerRepository) UpdateName(ctx context.Context, id int64, name string) (int64, error) {
	result := r.DB.WithContext(ctx).Model(&models.Player{}).Where("id = ?", id).Update("name", name)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to update player ID %d: %w", id, result.Error)
	}
	return result.RowsAffected, nil
}

// Delete removes a player by ID. Its event associations go with it via the
// foreign key cascade; the events themselves stay.
func (r *PlayerRepository) Delete(ctx context.Context, id int64) (int64, error) {
	result := r.DB.WithContext(ctx).Delete(&models.Player{}, id)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete player ID %d: %w", id, result.Error)
	}
	return result.RowsAffected, nil
}
