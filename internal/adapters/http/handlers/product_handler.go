package handlers

import (
	"mikopo-backend/internal/core/services"
	"mikopo-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles loan product catalog endpoints
type ProductHandler struct {
	productService *services.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// List handles product catalog listing
// @Summary List loan products
// @Description List active loan products with their catalog rates
// @Tags Products
// @Accept json
// @Produce json
// @Success 200 {object} response.Response
// @Router /products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	products, err := h.productService.List(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch loan products")
	}

	return response.Success(c, "Loan products retrieved successfully", products)
}
