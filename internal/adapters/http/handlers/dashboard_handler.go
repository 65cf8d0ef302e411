package handlers

import (
	"errors"

	"mikopo-backend/internal/adapters/http/middleware"
	"mikopo-backend/internal/core/domain"
	"mikopo-backend/internal/core/services"
	"mikopo-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler handles dashboard endpoints
type DashboardHandler struct {
	dashboardService *services.DashboardService
	activityService  *services.ActivityService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService, activityService *services.ActivityService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		activityService:  activityService,
	}
}

// GetAdminStats handles the admin dashboard
// @Summary Admin dashboard stats
// @Description Portfolio-wide counts for the admin dashboard
// @Tags Dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /dashboard/admin [get]
func (h *DashboardHandler) GetAdminStats(c *fiber.Ctx) error {
	stats, err := h.dashboardService.GetAdminStats(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to compute dashboard stats")
	}

	return response.Success(c, "Dashboard stats retrieved successfully", stats)
}

// GetUserStats handles the borrower dashboard
// @Summary User dashboard stats
// @Description The authenticated user's loan figures
// @Tags Dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /dashboard/user [get]
func (h *DashboardHandler) GetUserStats(c *fiber.Ctx) error {
	stats, err := h.dashboardService.GetUserStats(c.Context(), middleware.SessionFromCtx(c))
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return response.Unauthorized(c, "Unauthorized")
		}
		return response.InternalServerError(c, "Failed to compute dashboard stats")
	}

	return response.Success(c, "Dashboard stats retrieved successfully", stats)
}

// GetRecentActivities handles the activity feed
// @Summary Recent activities
// @Description Latest audit log entries, newest first
// @Tags Dashboard
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /dashboard/activities [get]
func (h *DashboardHandler) GetRecentActivities(c *fiber.Ctx) error {
	activities, err := h.activityService.Recent(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch activities")
	}

	return response.Success(c, "Activities retrieved successfully", activities)
}
