package repositories

import (
	"context"

	"mikopo-backend/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// clientRepository implements ClientRepository interface
type clientRepository struct {
	db *gorm.DB
}

// NewClientRepository creates a new client repository
func NewClientRepository(db *gorm.DB) ClientRepository {
	return &clientRepository{db: db}
}

// Create creates a new client
func (r *clientRepository) Create(ctx context.Context, client *models.Client) error {
	return r.db.WithContext(ctx).Create(client).Error
}

// GetByID gets a client by ID
func (r *clientRepository) GetByID(ctx context.Context, id uint) (*models.Client, error) {
	var client models.Client
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&client).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// GetByEmail gets the first client matching email
func (r *clientRepository) GetByEmail(ctx context.Context, email string) (*models.Client, error) {
	var client models.Client
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&client).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// List lists clients, newest first
func (r *clientRepository) List(ctx context.Context) ([]*models.Client, error) {
	var clients []*models.Client
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&clients).Error
	return clients, err
}

// Update updates a client
func (r *clientRepository) Update(ctx context.Context, client *models.Client) error {
	return r.db.WithContext(ctx).Save(client).Error
}

// UpdateProfileByEmail updates profile fields on every client row matching email
func (r *clientRepository) UpdateProfileByEmail(ctx context.Context, email string, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&models.Client{}).
		Where("email = ?", email).
		Updates(fields).Error
}

// Delete deletes a client
func (r *clientRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Client{}, id).Error
}

// Count counts all clients
func (r *clientRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Client{}).Count(&count).Error
	return count, err
}

// IncrementLoanStats bumps the derived loan counters atomically
func (r *clientRepository) IncrementLoanStats(ctx context.Context, id uint, amount float64) error {
	return r.db.WithContext(ctx).
		Model(&models.Client{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"active_loans":   gorm.Expr("active_loans + 1"),
			"total_loans":    gorm.Expr("total_loans + 1"),
			"total_borrowed": gorm.Expr("total_borrowed + ?", amount),
		}).Error
}
