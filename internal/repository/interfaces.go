package repository

import (
	"context"
	"time"

	"github.com/psicologoai13-maker/my-mind-mirror-84-sub002/internal/models"
)

// SessionRepository reads completed check-in sessions
type SessionRepository interface {
	GetCompletedByUserIDAndDateRange(ctx context.Context, userID string, startDate, endDate time.Time) ([]models.SessionRecord, error)
}

// HabitLogRepository reads daily habit logs
type HabitLogRepository interface {
	GetByUserIDAndDateRange(ctx context.Context, userID string, startDate, endDate time.Time) ([]models.HabitLog, error)
}

// PsychologyScoreRepository reads scored psychology entries
type PsychologyScoreRepository interface {
	GetByUserIDAndDateRange(ctx context.Context, userID string, startDate, endDate time.Time) ([]models.PsychologyScore, error)
}

// LifeAreaRatingRepository reads per-day life area ratings
type LifeAreaRatingRepository interface {
	GetByUserIDAndDateRange(ctx context.Context, userID string, startDate, endDate time.Time) ([]models.LifeAreaRating, error)
}

// HealthMetricRepository reads device health data
type HealthMetricRepository interface {
	GetByUserIDAndDateRange(ctx context.Context, userID string, startDate, endDate time.Time) ([]models.HealthMetric, error)
}

// CorrelationRepository persists pairwise correlation results, one row per
// (user_id, metric_a, metric_b)
type CorrelationRepository interface {
	Upsert(ctx context.Context, result *models.CorrelationResult) error
	GetSignificantByUserID(ctx context.Context, userID string, limit int) ([]models.CorrelationResult, error)
	DeleteByUserID(ctx context.Context, userID string) error
}

// PatternRepository persists detected behavioral patterns, at most one
// active row per (user_id, pattern_type)
type PatternRepository interface {
	GetActive(ctx context.Context, userID string, patternType models.PatternType) (*models.PatternDetection, error)
	GetActiveByUserID(ctx context.Context, userID string) ([]models.PatternDetection, error)
	Insert(ctx context.Context, detection *models.PatternDetection) error
	UpdateActive(ctx context.Context, detection *models.PatternDetection) error
}

// LifeAreaScoreRepository persists the per-user aggregate life area scores
type LifeAreaScoreRepository interface {
	GetByUserID(ctx context.Context, userID string) (*models.LifeAreaScores, error)
	Upsert(ctx context.Context, scores *models.LifeAreaScores) error
}
