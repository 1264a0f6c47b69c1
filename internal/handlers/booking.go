package handlers

import (
	"strconv"
	"time"

	"messbook/internal/repositories"
	"messbook/internal/services/booking"
	"messbook/internal/utils"
	"messbook/internal/utils/pagination"

	"github.com/gofiber/fiber/v2"
)

type BookingHandler struct {
	bookingService booking.Service
}

func NewBookingHandler(bookingService booking.Service) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
	}
}

// CreateBooking books a meal and settles it from the wallet in one unit of
// work. An Idempotency-Key header makes retries safe.
func (h *BookingHandler) CreateBooking(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		HallID   uint   `json:"hall_id"`
		MealType string `json:"meal_type"`
		Date     string `json:"date"` // YYYY-MM-DD
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}

	date, err := time.Parse("2006-01-02", input.Date)
	if err != nil {
		return utils.BadRequest(c, "Date must be in YYYY-MM-DD format")
	}

	result, err := h.bookingService.CreateBooking(c.Context(), booking.CreateBookingRequest{
		UserID:         claims.UserID,
		HallID:         input.HallID,
		MealType:       input.MealType,
		Date:           date,
		IdempotencyKey: c.Get("Idempotency-Key"),
	})
	if err != nil {
		return respondDomainError(c, err)
	}

	if result.Replayed {
		return utils.Success(c, result)
	}
	return utils.Created(c, result)
}

// CancelBooking cancels a booked meal and refunds its price.
func (h *BookingHandler) CancelBooking(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	bookingID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid booking ID")
	}

	result, err := h.bookingService.CancelBooking(c.Context(), claims.UserID, bookingID)
	if err != nil {
		return respondDomainError(c, err)
	}

	return utils.Success(c, result)
}

// ConsumeBooking marks a booking as served. Staff only.
func (h *BookingHandler) ConsumeBooking(c *fiber.Ctx) error {
	bookingID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid booking ID")
	}

	b, err := h.bookingService.ConsumeBooking(c.Context(), bookingID)
	if err != nil {
		return respondDomainError(c, err)
	}

	return utils.Success(c, fiber.Map{
		"booking": b,
	})
}

func (h *BookingHandler) GetBooking(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	bookingID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid booking ID")
	}

	b, err := h.bookingService.GetBooking(c.Context(), claims.UserID, bookingID)
	if err != nil {
		return respondDomainError(c, err)
	}

	return utils.Success(c, fiber.Map{
		"booking": b,
	})
}

// ListBookings returns the caller's bookings, filterable by status, meal
// type, date range and free-text search over hall names and menu items.
func (h *BookingHandler) ListBookings(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	p := pagination.ParseFromRequest(c)

	filter := repositories.BookingFilter{
		Status:   c.Query("status"),
		MealType: c.Query("meal_type"),
		Search:   c.Query("search"),
	}
	if from := c.Query("from"); from != "" {
		if d, err := time.Parse("2006-01-02", from); err == nil {
			filter.StartDate = &d
		}
	}
	if to := c.Query("to"); to != "" {
		if d, err := time.Parse("2006-01-02", to); err == nil {
			filter.EndDate = &d
		}
	}

	bookings, total, err := h.bookingService.ListBookings(c.Context(), claims.UserID, filter, p.Limit, p.Offset)
	if err != nil {
		return respondDomainError(c, err)
	}

	p.Total = total
	return utils.Success(c, pagination.Response(p, bookings))
}

func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
