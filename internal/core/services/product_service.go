package services

import (
	"context"

	"mikopo-backend/internal/adapters/persistence/models"
	"mikopo-backend/internal/adapters/persistence/repositories"
)

// ProductService exposes the loan product catalog
type ProductService struct {
	productRepo repositories.LoanProductRepository
}

// NewProductService creates a new product service
func NewProductService(productRepo repositories.LoanProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// List returns all active loan products
func (s *ProductService) List(ctx context.Context) ([]*models.LoanProduct, error) {
	return s.productRepo.List(ctx)
}
