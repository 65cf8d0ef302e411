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

// ClientHandler handles client portfolio and profile endpoints
type ClientHandler struct {
	clientService *services.ClientService
}

// NewClientHandler creates a new client handler
func NewClientHandler(clientService *services.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// List handles client listing
// @Summary List clients
// @Description List all clients in the portfolio, newest first
// @Tags Clients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /clients [get]
func (h *ClientHandler) List(c *fiber.Ctx) error {
	clients, err := h.clientService.List(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch clients")
	}

	return response.Success(c, "Clients retrieved successfully", clients)
}

// Add handles client onboarding
// @Summary Add client
// @Description Register a new client in the portfolio
// @Tags Clients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.AddClientInput true "Client data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /clients [post]
func (h *ClientHandler) Add(c *fiber.Ctx) error {
	var input services.AddClientInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	client, err := h.clientService.Add(c.Context(), middleware.SessionFromCtx(c), &input)
	if err != nil {
		var verrs validation.Errors
		switch {
		case errors.As(err, &verrs):
			return response.ValidationFailed(c, "Validation failed", verrs)
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "Admin access required")
		case errors.Is(err, domain.ErrUnauthorized):
			return response.Unauthorized(c, "Unauthorized")
		default:
			return response.InternalServerError(c, "Failed to add client")
		}
	}

	return response.Created(c, "Client added successfully", client)
}

// Delete handles client removal
// @Summary Delete client
// @Description Remove a client without active loans from the portfolio
// @Tags Clients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Client ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /clients/{id} [delete]
func (h *ClientHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid client ID")
	}

	err = h.clientService.Delete(c.Context(), middleware.SessionFromCtx(c), uint(id))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrClientNotFound):
			return response.NotFound(c, "Client not found")
		case errors.Is(err, services.ErrClientHasActiveLoans):
			return response.Conflict(c, "Client has active loans and cannot be removed")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "Admin access required")
		case errors.Is(err, domain.ErrUnauthorized):
			return response.Unauthorized(c, "Unauthorized")
		default:
			return response.InternalServerError(c, "Failed to delete client")
		}
	}

	return response.Success(c, "Client deleted successfully", nil)
}

// GetProfile handles profile fetch for the authenticated user
// @Summary Get profile
// @Description Get the authenticated user's client profile
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /profile [get]
func (h *ClientHandler) GetProfile(c *fiber.Ctx) error {
	profile, err := h.clientService.GetProfile(c.Context(), middleware.SessionFromCtx(c))
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return response.Unauthorized(c, "Unauthorized")
		}
		return response.InternalServerError(c, "Failed to fetch profile")
	}

	return response.Success(c, "Profile retrieved successfully", profile)
}

// UpdateProfile handles profile updates for the authenticated user
// @Summary Update profile
// @Description Update the authenticated user's client profile
// @Tags Profile
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.UpdateProfileInput true "Profile data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /profile [put]
func (h *ClientHandler) UpdateProfile(c *fiber.Ctx) error {
	var input services.UpdateProfileInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	profile, err := h.clientService.UpdateProfile(c.Context(), middleware.SessionFromCtx(c), &input)
	if err != nil {
		var verrs validation.Errors
		switch {
		case errors.As(err, &verrs):
			return response.ValidationFailed(c, "Validation failed", verrs)
		case errors.Is(err, services.ErrClientNotFound):
			return response.NotFound(c, "Client profile not found")
		case errors.Is(err, domain.ErrUnauthorized):
			return response.Unauthorized(c, "Unauthorized")
		default:
			return response.InternalServerError(c, "Failed to update profile")
		}
	}

	return response.Success(c, "Profile updated successfully", profile)
}
