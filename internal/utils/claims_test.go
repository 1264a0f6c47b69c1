package utils

import (
	"net/http/httptest"
	"testing"

	"messbook/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestGetUserClaims(t *testing.T) {
	t.Run("returns the claims stored by the auth middleware", func(t *testing.T) {
		app := fiber.New()
		app.Get("/", func(c *fiber.Ctx) error {
			c.Locals("claims", &models.UserClaims{UserID: 7, Email: "asha@example.edu", Role: "student"})

			claims, err := GetUserClaims(c)
			assert.NoError(t, err)
			assert.Equal(t, uint(7), claims.UserID)
			assert.Equal(t, "student", claims.Role)
			return c.SendStatus(fiber.StatusOK)
		})

		resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
		assert.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("errors when nothing was stored", func(t *testing.T) {
		app := fiber.New()
		app.Get("/", func(c *fiber.Ctx) error {
			claims, err := GetUserClaims(c)
			assert.Error(t, err)
			assert.Nil(t, claims)
			return c.SendStatus(fiber.StatusOK)
		})

		_, err := app.Test(httptest.NewRequest("GET", "/", nil))
		assert.NoError(t, err)
	})

	t.Run("errors on a value of the wrong type", func(t *testing.T) {
		app := fiber.New()
		app.Get("/", func(c *fiber.Ctx) error {
			c.Locals("claims", "not-claims")

			claims, err := GetUserClaims(c)
			assert.Error(t, err)
			assert.Nil(t, claims)
			return c.SendStatus(fiber.StatusOK)
		})

		_, err := app.Test(httptest.NewRequest("GET", "/", nil))
		assert.NoError(t, err)
	})
}
