package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/psicologoai13-maker/my-mind-mirror-84-sub002/internal/models"
)

// ErrInvalidUserID is returned when an entry point receives an empty or
// malformed user identifier. No partial work happens in that case.
var ErrInvalidUserID = errors.New("invalid or missing user id")

// validateUserID rejects empty or non-UUID user identifiers before any
// source reads or writes
func validateUserID(userID string) error {
	if userID == "" {
		return ErrInvalidUserID
	}
	if err := uuid.Validate(userID); err != nil {
		return ErrInvalidUserID
	}
	return nil
}

// CorrelationService runs and serves pairwise metric correlations
type CorrelationService interface {
	RunCorrelations(ctx context.Context, userID string) (*models.CorrelationRunResponse, error)
	GetTopCorrelations(ctx context.Context, userID string, limit int) ([]models.CorrelationResult, error)
}

// PatternService runs and serves behavioral pattern detection
type PatternService interface {
	RunPatternDetection(ctx context.Context, userID string) (*models.PatternRunResponse, error)
	GetActivePatterns(ctx context.Context, userID string) ([]models.PatternDetection, error)
}

// ProfileService manages the user's aggregate life area scores
type ProfileService interface {
	UpdateLifeAreaScores(ctx context.Context, userID string, updates models.PartialLifeAreaScores) (*models.LifeAreaScores, error)
}
