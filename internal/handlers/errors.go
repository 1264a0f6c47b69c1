package handlers

import (
	"errors"
	"log"

	errs "messbook/internal/errors"
	"messbook/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// respondDomainError translates service errors into HTTP responses. Anything
// that is not a DomainError is an unexpected failure and becomes a 500
// without leaking internals.
func respondDomainError(c *fiber.Ctx, err error) error {
	var domainErr *errs.DomainError
	if !errors.As(err, &domainErr) {
		log.Printf("unexpected error on %s %s: %v", c.Method(), c.Path(), err)
		return utils.InternalError(c, "internal server error")
	}

	body := fiber.Map{"error": domainErr.Message, "code": domainErr.Code}

	switch domainErr.Code {
	case "VALIDATION", "INVALID_AMOUNT", "AMOUNT_EXCEEDS_LIMIT":
		return utils.Respond(c, fiber.StatusBadRequest, body)
	case "INSUFFICIENT_FUNDS":
		return utils.Respond(c, fiber.StatusPaymentRequired, body)
	case "WALLET_LOCKED":
		return utils.Respond(c, fiber.StatusForbidden, body)
	case "WALLET_NOT_FOUND", "BOOKING_NOT_FOUND", "HALL_NOT_FOUND", "MEAL_UNAVAILABLE":
		return utils.Respond(c, fiber.StatusNotFound, body)
	case "ALREADY_BOOKED", "INVALID_BOOKING_STATE", "REQUEST_IN_FLIGHT":
		return utils.Respond(c, fiber.StatusConflict, body)
	default:
		return utils.Respond(c, fiber.StatusInternalServerError, body)
	}
}
