package services

import (
	"context"

	"mikopo-backend/internal/adapters/persistence/models"
	"mikopo-backend/internal/adapters/persistence/repositories"
)

// recentActivityLimit caps the dashboard activity feed.
const recentActivityLimit = 10

// ActivityService exposes the append-only audit feed
type ActivityService struct {
	activityRepo repositories.ActivityRepository
}

// NewActivityService creates a new activity service
func NewActivityService(activityRepo repositories.ActivityRepository) *ActivityService {
	return &ActivityService{activityRepo: activityRepo}
}

// Recent returns the latest audit entries, newest first
func (s *ActivityService) Recent(ctx context.Context) ([]*models.Activity, error) {
	return s.activityRepo.ListRecent(ctx, recentActivityLimit)
}
