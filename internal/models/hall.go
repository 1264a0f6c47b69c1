package models

import "time"

// Hall statuses
const (
	HallStatusActive   = "active"
	HallStatusInactive = "inactive"
)

// Hall is a dining hall offering meals. Reference data owned by catalog
// administration; the booking core only reads it.
type Hall struct {
	ID        uint   `gorm:"primarykey"`
	Name      string `gorm:"uniqueIndex;not null"`
	Location  string
	Capacity  int
	Status    string `gorm:"default:'active'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
