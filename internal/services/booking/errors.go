package booking

import errs "messbook/internal/errors"

// Service errors. These are the DomainError values handlers translate to
// HTTP responses.
var (
	ErrMealUnavailable     = errs.ErrMealUnavailable
	ErrAlreadyBooked       = errs.ErrAlreadyBooked
	ErrInsufficientFunds   = errs.ErrInsufficientBalance
	ErrBookingNotFound     = errs.ErrBookingNotFound
	ErrInvalidBookingState = errs.ErrInvalidBookingState
)

// ErrRequestInFlight is returned when an idempotency key is already claimed
// by a request that has not finished yet. Retryable.
var ErrRequestInFlight = &errs.DomainError{
	Code:    "REQUEST_IN_FLIGHT",
	Message: "a booking request with this idempotency key is still being processed",
}
