package service

import (
	"context"
	"fmt"
	"time"

	"github.com/psicologoai13-maker/my-mind-mirror-84-sub002/internal/models"
	"github.com/psicologoai13-maker/my-mind-mirror-84-sub002/internal/repository"
)

type profileService struct {
	scoreRepo repository.LifeAreaScoreRepository
}

// NewProfileService creates a new profile service
func NewProfileService(scoreRepo repository.LifeAreaScoreRepository) ProfileService {
	return &profileService{scoreRepo: scoreRepo}
}

// UpdateLifeAreaScores applies a partial update to the user's aggregate
// life area scores through an immutable merge: only areas present in
// updates are overwritten, and the merge runs once per invocation.
func (s *profileService) UpdateLifeAreaScores(ctx context.Context, userID string, updates models.PartialLifeAreaScores) (*models.LifeAreaScores, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}

	current, err := s.scoreRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get life area scores: %w", err)
	}
	if current == nil {
		current = &models.LifeAreaScores{UserID: userID}
	}

	merged := models.MergeLifeAreaScores(*current, updates)
	merged.UpdatedAt = time.Now()

	if err := s.scoreRepo.Upsert(ctx, &merged); err != nil {
		return nil, fmt.Errorf("failed to upsert life area scores: %w", err)
	}

	return &merged, nil
}
