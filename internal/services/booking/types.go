package booking

import (
	"strings"
	"time"

	errs "messbook/internal/errors"
	"messbook/internal/models"
)

// CreateBookingRequest carries everything the orchestrator needs to book a
// meal. UserID comes from the auth gateway; the orchestrator never
// re-validates identity.
type CreateBookingRequest struct {
	UserID   uint
	HallID   uint
	MealType string
	Date     time.Time
	// IdempotencyKey, when set, makes client retries safe: a replayed
	// request returns the original booking instead of debiting again.
	IdempotencyKey string
}

// Validate rejects malformed input before any store is touched.
func (r CreateBookingRequest) Validate() error {
	if r.UserID == 0 {
		return &errs.DomainError{Code: "VALIDATION", Message: "user id is required"}
	}
	if r.HallID == 0 {
		return &errs.DomainError{Code: "VALIDATION", Message: "hall is required"}
	}
	if !models.ValidMealType(strings.ToLower(r.MealType)) {
		return &errs.DomainError{Code: "VALIDATION", Message: "meal type must be breakfast, lunch or dinner"}
	}
	if r.Date.IsZero() {
		return &errs.DomainError{Code: "VALIDATION", Message: "date is required"}
	}
	return nil
}

// Result is the composed outcome of a booking mutation: the booking, the
// ledger entry that paid for (or refunded) it, and the balance after.
type Result struct {
	Booking     *models.Booking     `json:"booking"`
	Transaction *models.Transaction `json:"transaction"`
	NewBalance  int64               `json:"new_balance"`
	// Replayed is true when an idempotency key matched a previous request
	// and no new mutation happened.
	Replayed bool `json:"replayed,omitempty"`
}

// Config holds orchestrator tunables.
type Config struct {
	IdempotencyTTL time.Duration
	// ProcessingTimeout bounds the booking/cancellation unit of work once
	// fund movement has started and the caller's context no longer applies.
	ProcessingTimeout time.Duration
}

const (
	defaultIdempotencyTTL    = 24 * time.Hour
	defaultProcessingTimeout = 30 * time.Second
)
