package handlers

import (
	"mikopo-backend/internal/core/services"
	"mikopo-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ReportHandler handles reporting endpoints
type ReportHandler struct {
	reportService *services.ReportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GetReportData handles the reports page payload
// @Summary Portfolio report
// @Description Six-month portfolio analytics ending with the current month
// @Tags Reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /reports [get]
func (h *ReportHandler) GetReportData(c *fiber.Ctx) error {
	report := h.reportService.GetReportData(c.Context())
	return response.Success(c, "Report retrieved successfully", report)
}
