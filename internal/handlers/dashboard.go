package handlers

import (
	"messbook/internal/services/dashboard"
	"messbook/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	dashboardService dashboard.Service
}

func NewDashboardHandler(dashboardService dashboard.Service) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

func (h *DashboardHandler) GetUserDashboard(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	dash, err := h.dashboardService.GetUserDashboard(c.Context(), claims.UserID)
	if err != nil {
		return respondDomainError(c, err)
	}

	return utils.Success(c, dash)
}
