package repositories

import (
	"context"

	"mikopo-backend/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// loanProductRepository implements LoanProductRepository interface
type loanProductRepository struct {
	db *gorm.DB
}

// NewLoanProductRepository creates a new loan product repository
func NewLoanProductRepository(db *gorm.DB) LoanProductRepository {
	return &loanProductRepository{db: db}
}

// GetByName gets an active loan product by name
func (r *loanProductRepository) GetByName(ctx context.Context, name string) (*models.LoanProduct, error) {
	var product models.LoanProduct
	err := r.db.WithContext(ctx).
		Where("name = ? AND is_active = ?", name, true).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// List lists active loan products
func (r *loanProductRepository) List(ctx context.Context) ([]*models.LoanProduct, error) {
	var products []*models.LoanProduct
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id ASC").
		Find(&products).Error
	return products, err
}
