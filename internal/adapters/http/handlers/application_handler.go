package handlers

import (
	"errors"
	"strconv"

	"mikopo-backend/internal/adapters/http/middleware"
	"mikopo-backend/internal/core/domain"
	"mikopo-backend/internal/core/services"
	"mikopo-backend/internal/pkg/response"
	"mikopo-backend/internal/pkg/validation"

	"github.com/gofiber/fiber/v2"
)

// ApplicationHandler handles loan application endpoints
type ApplicationHandler struct {
	applicationService *services.ApplicationService
}

// NewApplicationHandler creates a new application handler
func NewApplicationHandler(applicationService *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applicationService: applicationService}
}

// UpdateStatusRequest represents a status decision request body
type UpdateStatusRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes,omitempty"`
}

// Submit handles application submission
// @Summary Submit loan application
// @Description Submit a new loan application for the authenticated user
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.SubmitApplicationInput true "Application form"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /applications [post]
func (h *ApplicationHandler) Submit(c *fiber.Ctx) error {
	var input services.SubmitApplicationInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	app, err := h.applicationService.Submit(c.Context(), middleware.SessionFromCtx(c), &input)
	if err != nil {
		var verrs validation.Errors
		switch {
		case errors.As(err, &verrs):
			return response.ValidationFailed(c, "Validation failed", verrs)
		case errors.Is(err, domain.ErrUnauthorized):
			return response.Unauthorized(c, "Unauthorized")
		default:
			return response.InternalServerError(c, "Failed to submit application")
		}
	}

	return response.Created(c, "Application submitted successfully", app)
}

// List handles application listing
// @Summary List loan applications
// @Description List all loan applications, newest first
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /applications [get]
func (h *ApplicationHandler) List(c *fiber.Ctx) error {
	apps, err := h.applicationService.List(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch applications")
	}

	return response.Success(c, "Applications retrieved successfully", apps)
}

// GetByID handles single application fetch
// @Summary Get loan application
// @Description Get a loan application by ID
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /applications/{id} [get]
func (h *ApplicationHandler) GetByID(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}

	app, err := h.applicationService.GetByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrApplicationNotFound) {
			return response.NotFound(c, "Application not found")
		}
		return response.InternalServerError(c, "Failed to fetch application")
	}

	return response.Success(c, "Application retrieved successfully", app)
}

// UpdateStatus handles application decisions
// @Summary Update application status
// @Description Transition an application; approval disburses the loan
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param body body UpdateStatusRequest true "New status"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /applications/{id}/status [put]
func (h *ApplicationHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}

	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	app, err := h.applicationService.UpdateStatus(c.Context(), middleware.SessionFromCtx(c), uint(id), req.Status, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidStatus):
			return response.BadRequest(c, "Invalid application status")
		case errors.Is(err, services.ErrApplicationNotFound):
			return response.NotFound(c, "Application not found")
		case errors.Is(err, services.ErrAlreadyDecided):
			return response.Conflict(c, "Application has already been decided")
		case errors.Is(err, services.ErrStatusConflict):
			return response.Conflict(c, "Application status changed, please retry")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "Admin access required")
		case errors.Is(err, domain.ErrUnauthorized):
			return response.Unauthorized(c, "Unauthorized")
		default:
			return response.InternalServerError(c, "Failed to update application status")
		}
	}

	return response.Success(c, "Application status updated successfully", app)
}
