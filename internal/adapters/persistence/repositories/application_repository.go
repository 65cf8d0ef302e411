package repositories

import (
	"context"

	"mikopo-backend/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// applicationRepository implements ApplicationRepository interface
type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

// Create creates a new application
func (r *applicationRepository) Create(ctx context.Context, app *models.Application) error {
	return r.db.WithContext(ctx).Create(app).Error
}

// GetByID gets an application by ID
func (r *applicationRepository) GetByID(ctx context.Context, id uint) (*models.Application, error) {
	var app models.Application
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&app).Error
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// List lists applications, newest submission first
func (r *applicationRepository) List(ctx context.Context) ([]*models.Application, error) {
	var apps []*models.Application
	err := r.db.WithContext(ctx).Order("submitted_date DESC").Find(&apps).Error
	return apps, err
}

// ListByEmail lists applications for one applicant, newest first
func (r *applicationRepository) ListByEmail(ctx context.Context, email string) ([]*models.Application, error) {
	var apps []*models.Application
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		Order("submitted_date DESC").
		Find(&apps).Error
	return apps, err
}

// UpdateStatusIf performs a conditional status update guarded by the
// expected current status
func (r *applicationRepository) UpdateStatusIf(ctx context.Context, id uint, expected, newStatus string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("id = ? AND status = ?", id, expected).
		Update("status", newStatus)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// CountByStatus counts applications in a given status
func (r *applicationRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}
