package models

// Video is a reference to a game video on disk. Only the path is stored, never the bytes.
// FilePath is the natural dedup key.
type Video struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	FilePath string `gorm:"column:file_path;not null;index:idx_videos_file_path" json:"file_path"`
}

// TableName explicitly sets the table name for GORM.
func (Video) TableName() string {
	return "videos"
}
