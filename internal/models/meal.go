package models

import "time"

// Meal types
const (
	MealTypeBreakfast = "breakfast"
	MealTypeLunch     = "lunch"
	MealTypeDinner    = "dinner"
)

// Weekday names as stored on meal slots (monday..sunday).
var WeekDays = []string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

// Meal is a slot of reference data: what a hall serves for a given weekday
// and meal type, at what price. Immutable during a booking transaction.
type Meal struct {
	ID        uint       `gorm:"primarykey"`
	HallID    uint       `gorm:"not null;index;uniqueIndex:idx_meal_slot"`
	Hall      *Hall      `gorm:"foreignKey:HallID"`
	Day       string     `gorm:"not null;uniqueIndex:idx_meal_slot"`
	MealType  string     `gorm:"not null;uniqueIndex:idx_meal_slot"`
	MenuItems StringList `gorm:"type:jsonb"`
	Price     int64      `gorm:"not null"` // minor units
	Available bool       `gorm:"default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidMealType reports whether t is one of the supported meal types.
func ValidMealType(t string) bool {
	switch t {
	case MealTypeBreakfast, MealTypeLunch, MealTypeDinner:
		return true
	}
	return false
}
