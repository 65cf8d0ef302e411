package handlers

import (
	"errors"
	"strconv"

	"mikopo-backend/internal/adapters/http/middleware"
	"mikopo-backend/internal/core/domain"
	"mikopo-backend/internal/core/services"
	"mikopo-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// LoanHandler handles loan endpoints
type LoanHandler struct {
	loanService *services.LoanService
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(loanService *services.LoanService) *LoanHandler {
	return &LoanHandler{loanService: loanService}
}

// RecordPaymentRequest represents a repayment request body
type RecordPaymentRequest struct {
	Amount float64 `json:"amount"`
}

// List handles loan listing
// @Summary List loans
// @Description List all disbursed loans, newest first
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /loans [get]
func (h *LoanHandler) List(c *fiber.Ctx) error {
	loans, err := h.loanService.List(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch loans")
	}

	return response.Success(c, "Loans retrieved successfully", loans)
}

// GetByID handles single loan fetch
// @Summary Get loan
// @Description Get a loan by ID
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/{id} [get]
func (h *LoanHandler) GetByID(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid loan ID")
	}

	loan, err := h.loanService.GetByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, services.ErrLoanNotFound) {
			return response.NotFound(c, "Loan not found")
		}
		return response.InternalServerError(c, "Failed to fetch loan")
	}

	return response.Success(c, "Loan retrieved successfully", loan)
}

// GetMyLoans handles the borrower's merged loan view
// @Summary Get my loans
// @Description List the authenticated user's applications and loans
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /loans/my [get]
func (h *LoanHandler) GetMyLoans(c *fiber.Ctx) error {
	entries, err := h.loanService.GetUserLoans(c.Context(), middleware.SessionFromCtx(c))
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return response.Unauthorized(c, "Unauthorized")
		}
		return response.InternalServerError(c, "Failed to fetch loans")
	}

	return response.Success(c, "Loans retrieved successfully", entries)
}

// RecordPayment handles repayment recording
// @Summary Record loan payment
// @Description Apply a repayment to a loan
// @Tags Loans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Loan ID"
// @Param body body RecordPaymentRequest true "Payment amount"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loans/{id}/payments [post]
func (h *LoanHandler) RecordPayment(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid loan ID")
	}

	var req RecordPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	loan, err := h.loanService.RecordPayment(c.Context(), uint(id), req.Amount)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidPaymentAmount):
			return response.BadRequest(c, "Payment amount must be greater than zero")
		case errors.Is(err, services.ErrLoanNotFound):
			return response.NotFound(c, "Loan not found")
		default:
			return response.InternalServerError(c, "Failed to record payment")
		}
	}

	return response.Success(c, "Payment recorded successfully", loan)
}
