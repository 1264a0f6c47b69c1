package booking

import (
	"context"
	"time"

	"messbook/internal/models"
	"messbook/internal/repositories"
)

// Service is the booking orchestrator: it coordinates the meal catalog, the
// booking store and the wallet ledger into one atomic booking transaction.
type Service interface {
	CreateBooking(ctx context.Context, req CreateBookingRequest) (*Result, error)
	CancelBooking(ctx context.Context, userID, bookingID uint) (*Result, error)
	ConsumeBooking(ctx context.Context, bookingID uint) (*models.Booking, error)
	GetBooking(ctx context.Context, userID, bookingID uint) (*models.Booking, error)
	ListBookings(ctx context.Context, userID uint, filter repositories.BookingFilter, limit, offset int) ([]models.Booking, int64, error)
}

// SlotResolver is the piece of the meal catalog the orchestrator consumes.
type SlotResolver interface {
	ResolveSlot(ctx context.Context, hallID uint, date time.Time, mealType string) (*models.Meal, error)
}

// CacheOperator is the subset of the cache service the orchestrator needs:
// idempotency keys and wallet invalidation.
type CacheOperator interface {
	SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error)
	SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Delete(ctx context.Context, keys ...string) error
	InvalidateWallet(ctx context.Context, userID uint) error
}
