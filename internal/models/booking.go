package models

import "time"

// Booking statuses
const (
	BookingStatusBooked    = "booked"
	BookingStatusConsumed  = "consumed"
	BookingStatusCancelled = "cancelled"
)

// Booking is a reserved meal paid from the user's wallet. Price is copied
// from the meal slot at booking time and never re-read, so later catalog
// price changes cannot alter a paid booking. At most one non-cancelled
// booking may exist per (user, hall, meal type, date); the partial unique
// index idx_active_booking enforces this in the store.
type Booking struct {
	ID        uint      `gorm:"primarykey"`
	UserID    uint      `gorm:"not null;index"`
	HallID    uint      `gorm:"not null"`
	Hall      *Hall     `gorm:"foreignKey:HallID"`
	MealID    uint      `gorm:"not null"`
	Meal      *Meal     `gorm:"foreignKey:MealID"`
	MealType  string    `gorm:"not null"`
	Date      time.Time `gorm:"not null"` // calendar day, normalized to midnight UTC
	Price     int64     `gorm:"not null"` // minor units, copied from the slot
	Status    string    `gorm:"not null;default:'booked'"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
