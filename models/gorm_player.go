package models

// Player represents a rostered player using GORM.
// It corresponds to the 'players' table.
type Player struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"not null" json:"name"`
}

// TableName explicitly sets the table name for GORM.
func (Player) TableName() string {
	return "players"
}
