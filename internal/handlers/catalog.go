package handlers

import (
	"messbook/internal/services/catalog"
	"messbook/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type CatalogHandler struct {
	catalogService catalog.Service
}

func NewCatalogHandler(catalogService catalog.Service) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

// ListHalls returns all active dining halls.
func (h *CatalogHandler) ListHalls(c *fiber.Ctx) error {
	halls, err := h.catalogService.ListHalls(c.Context())
	if err != nil {
		return respondDomainError(c, err)
	}

	return utils.Success(c, fiber.Map{
		"halls": halls,
	})
}

// ListMeals returns available meal slots for a hall, optionally filtered by
// day and meal type.
func (h *CatalogHandler) ListMeals(c *fiber.Ctx) error {
	hallID, err := parseIDParam(c, "hallId")
	if err != nil {
		return utils.BadRequest(c, "Invalid hall ID")
	}

	meals, err := h.catalogService.ListMeals(c.Context(), hallID, c.Query("day"), c.Query("meal_type"))
	if err != nil {
		return respondDomainError(c, err)
	}

	return utils.Success(c, fiber.Map{
		"meals": meals,
	})
}

// SearchMeals is the flat listing across halls: ?hall=&day=&meal_type=, all
// filters optional.
func (h *CatalogHandler) SearchMeals(c *fiber.Ctx) error {
	hallID := uint(c.QueryInt("hall", 0))

	meals, err := h.catalogService.ListMeals(c.Context(), hallID, c.Query("day"), c.Query("meal_type"))
	if err != nil {
		return respondDomainError(c, err)
	}

	return utils.Success(c, fiber.Map{
		"meals": meals,
	})
}
