package repository

import (
	"context"
	"fmt"

	"github.com/camden-git/hockeycoach/models"
	"gorm.io/gorm"
)

// VideoRepository handles database operations for Video entities
type VideoRepository struct {
	DB *gorm.DB
}

// NewVideoRepository creates a new instance of VideoRepository
func NewVideoRepository(db *gorm.DB) *VideoRepository {
	return &VideoRepository{DB: db}
}

// FindOrCreate returns the video registered under filePath, inserting it
// first if the path is new. The path is compared as an exact string.
func (r *VideoRepository) FindOrCreate(ctx context.Context, filePath string) (*models.Video, error) {
	video := models.Video{FilePath: filePath}
	err := r.DB.WithContext(ctx).Where("file_path = ?", filePath).FirstOrCreate(&video).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find or create video %s: %w", filePath, err)
	}
	return &video, nil
}

// ListAll retrieves all videos in storage order
func (r *VideoRepository) ListAll(ctx context.Context) ([]models.Video, error) {
	videos := []models.Video{}
	if err := r.DB.WithContext(ctx).Find(&videos).Error; err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	return videos, nil
}
