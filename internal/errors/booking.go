package errors

var (
	ErrMealUnavailable = &DomainError{
		Code:    "MEAL_UNAVAILABLE",
		Message: "meal not available for the selected hall, day, and type",
	}
	ErrAlreadyBooked = &DomainError{
		Code:    "ALREADY_BOOKED",
		Message: "booking already exists for this date, hall, and meal type",
	}
	ErrBookingNotFound = &DomainError{
		Code:    "BOOKING_NOT_FOUND",
		Message: "booking not found",
	}
	ErrInvalidBookingState = &DomainError{
		Code:    "INVALID_BOOKING_STATE",
		Message: "booking is not in a state that allows this operation",
	}
	ErrHallNotFound = &DomainError{
		Code:    "HALL_NOT_FOUND",
		Message: "hall not found",
	}
)
