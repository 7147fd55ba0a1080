package models

// EventType classifies a tagged event (Shot, Goal, ...).
// Seeded rows have IsCustom=false; rows added by the coach have IsCustom=true.
type EventType struct {
	ID       int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string `gorm:"not null" json:"name"`
	IsCustom bool   `gorm:"column:is_custom;not null" json:"is_custom"`
}

// TableName explicitly sets the table name for GORM.
func (EventType) TableName() string {
	return "event_types"
}
