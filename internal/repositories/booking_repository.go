package repositories

import (
	"context"
	"errors"
	"time"

	"messbook/internal/models"
)

var (
	ErrBookingNotFound  = errors.New("booking not found")
	ErrDuplicateBooking = errors.New("duplicate booking")
)

// BookingFilter narrows a booking history listing.
type BookingFilter struct {
	Status    string
	MealType  string
	StartDate *time.Time
	EndDate   *time.Time
	Search    string // matched against hall name and menu items
}

// BookingRepository is the only component allowed to mutate booking records.
// Create relies on the idx_active_booking partial unique index, so a
// duplicate insert racing past the conflict check is rejected by the store
// itself, not just by the orchestrator's earlier lookup.
type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(id uint) (*models.Booking, error)
	GetByIDForUser(id, userID uint) (*models.Booking, error)
	FindActiveConflict(ctx context.Context, userID, hallID uint, mealType string, date time.Time) (*models.Booking, error)
	UpdateStatus(ctx context.Context, id uint, from, to string) error
	ListByUser(ctx context.Context, userID uint, filter BookingFilter, limit, offset int) ([]models.Booking, int64, error)
	CountByUser(ctx context.Context, userID uint, status string, start, end time.Time) (int64, error)
}
