package models

// Event is a timestamped tag on a video. Timestamp is seconds from the start of the video.
// It corresponds to the 'events' table; deleting the owning video or event type cascades here.
type Event struct {
	ID          int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	VideoID     int64   `gorm:"column:video_id;not null;index" json:"video_id"`
	EventTypeID int64   `gorm:"column:event_type_id;not null" json:"event_type_id"`
	Timestamp   float64 `gorm:"column:timestamp;not null" json:"timestamp"`
}

// TableName explicitly sets the table name for GORM.
func (Event) TableName() string {
	return "events"
}

// EventPlayerAssociation links an event to a player. The pair is the primary key.
type EventPlayerAssociation struct {
	EventID  int64 `gorm:"column:event_id;primaryKey;autoIncrement:false" json:"event_id"`
	PlayerID int64 `gorm:"column:player_id;primaryKey;autoIncrement:false" json:"player_id"`
}

// TableName explicitly sets the table name for GORM.
func (EventPlayerAssociation) TableName() string {
	return "event_player_associations"
}
