package repositories

import (
	"context"

	"mikopo-backend/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// activityRepository implements ActivityRepository interface
type activityRepository struct {
	db *gorm.DB
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

// Create appends an activity entry
func (r *activityRepository) Create(ctx context.Context, activity *models.Activity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

// ListRecent lists the most recent activity entries
func (r *activityRepository) ListRecent(ctx context.Context, limit int) ([]*models.Activity, error) {
	var activities []*models.Activity
	err := r.db.WithContext(ctx).
		Order("time DESC").
		Limit(limit).
		Find(&activities).Error
	return activities, err
}
