package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/psicologoai13-maker/my-mind-mirror-84-sub002/internal/models"
)

// Shared mock repositories for the service tests. Each mock holds its rows
// in memory and counts calls so tests can assert on persistence behavior.

type mockSessionRepository struct {
	sessions []models.SessionRecord
	err      error
}

func (m *mockSessionRepository) GetCompletedByUserIDAndDateRange(ctx context.Context, userID string, startDate, endDate time.Time) ([]models.SessionRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []models.SessionRecord
	for _, s := range m.sessions {
		if s.UserID == userID {
			result = append(result, s)
		}
	}
	return result, nil
}

type mockHabitLogRepository struct {
	logs []models.HabitLog
	err  error
}

func (m *mockHabitLogRepository) GetByUserIDAndDateRange(ctx context.Context, userID string, startDate, endDate time.Time) ([]models.HabitLog, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []models.HabitLog
	for _, l := range m.logs {
		if l.UserID == userID {
			result = append(result, l)
		}
	}
	return result, nil
}

type mockPsychologyScoreRepository struct {
	scores []models.PsychologyScore
	err    error
}

func (m *mockPsychologyScoreRepository) GetByUserIDAndDateRange(ctx context.Context, userID string, startDate, endDate time.Time) ([]models.PsychologyScore, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []models.PsychologyScore
	for _, s := range m.scores {
		if s.UserID == userID {
			result = append(result, s)
		}
	}
	return result, nil
}

type mockLifeAreaRatingRepository struct {
	ratings []models.LifeAreaRating
	err     error
}

func (m *mockLifeAreaRatingRepository) GetByUserIDAndDateRange(ctx context.Context, userID string, startDate, endDate time.Time) ([]models.LifeAreaRating, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []models.LifeAreaRating
	for _, r := range m.ratings {
		if r.UserID == userID {
			result = append(result, r)
		}
	}
	return result, nil
}

type mockHealthMetricRepository struct {
	rows []models.HealthMetric
	err  error
}

func (m *mockHealthMetricRepository) GetByUserIDAndDateRange(ctx context.Context, userID string, startDate, endDate time.Time) ([]models.HealthMetric, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []models.HealthMetric
	for _, r := range m.rows {
		if r.UserID == userID {
			result = append(result, r)
		}
	}
	return result, nil
}

type mockCorrelationRepository struct {
	rows        map[string]*models.CorrelationResult // user_id/metric_a/metric_b -> row
	upsertCalls int
	failUpserts map[models.PairType]bool
}

func newMockCorrelationRepository() *mockCorrelationRepository {
	return &mockCorrelationRepository{
		rows: make(map[string]*models.CorrelationResult),
	}
}

func correlationKey(userID, metricA, metricB string) string {
	return fmt.Sprintf("%s/%s/%s", userID, metricA, metricB)
}

func (m *mockCorrelationRepository) Upsert(ctx context.Context, result *models.CorrelationResult) error {
	m.upsertCalls++
	if m.failUpserts[result.PairType] {
		return errors.New("upsert failed")
	}
	copied := *result
	m.rows[correlationKey(result.UserID, result.MetricA, result.MetricB)] = &copied
	return nil
}

func (m *mockCorrelationRepository) GetSignificantByUserID(ctx context.Context, userID string, limit int) ([]models.CorrelationResult, error) {
	var result []models.CorrelationResult
	for _, row := range m.rows {
		if row.UserID == userID && row.IsSignificant {
			result = append(result, *row)
		}
	}
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *mockCorrelationRepository) DeleteByUserID(ctx context.Context, userID string) error {
	for key, row := range m.rows {
		if row.UserID == userID {
			delete(m.rows, key)
		}
	}
	return nil
}

type mockPatternRepository struct {
	patterns    map[string]*models.PatternDetection // user_id/pattern_type -> active row
	insertCalls int
	updateCalls int
}

func newMockPatternRepository() *mockPatternRepository {
	return &mockPatternRepository{
		patterns: make(map[string]*models.PatternDetection),
	}
}

func patternKey(userID string, patternType models.PatternType) string {
	return fmt.Sprintf("%s/%s", userID, patternType)
}

func (m *mockPatternRepository) GetActive(ctx context.Context, userID string, patternType models.PatternType) (*models.PatternDetection, error) {
	if p, ok := m.patterns[patternKey(userID, patternType)]; ok && p.IsActive {
		return p, nil
	}
	return nil, nil
}

func (m *mockPatternRepository) GetActiveByUserID(ctx context.Context, userID string) ([]models.PatternDetection, error) {
	var result []models.PatternDetection
	for _, p := range m.patterns {
		if p.UserID == userID && p.IsActive {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (m *mockPatternRepository) Insert(ctx context.Context, detection *models.PatternDetection) error {
	m.insertCalls++
	copied := *detection
	m.patterns[patternKey(detection.UserID, detection.PatternType)] = &copied
	return nil
}

func (m *mockPatternRepository) UpdateActive(ctx context.Context, detection *models.PatternDetection) error {
	m.updateCalls++
	key := patternKey(detection.UserID, detection.PatternType)
	if _, ok := m.patterns[key]; !ok {
		return errors.New("no active pattern to update")
	}
	copied := *detection
	m.patterns[key] = &copied
	return nil
}

type mockLifeAreaScoreRepository struct {
	scores      map[string]*models.LifeAreaScores
	upsertCalls int
}

func newMockLifeAreaScoreRepository() *mockLifeAreaScoreRepository {
	return &mockLifeAreaScoreRepository{
		scores: make(map[string]*models.LifeAreaScores),
	}
}

func (m *mockLifeAreaScoreRepository) GetByUserID(ctx context.Context, userID string) (*models.LifeAreaScores, error) {
	if s, ok := m.scores[userID]; ok {
		copied := *s
		return &copied, nil
	}
	return nil, nil
}

func (m *mockLifeAreaScoreRepository) Upsert(ctx context.Context, scores *models.LifeAreaScores) error {
	m.upsertCalls++
	copied := *scores
	m.scores[scores.UserID] = &copied
	return nil
}

func newTestCollector(
	sessions *mockSessionRepository,
	habits *mockHabitLogRepository,
	psych *mockPsychologyScoreRepository,
	lifeAreas *mockLifeAreaRatingRepository,
	health *mockHealthMetricRepository,
) *MetricCollector {
	if sessions == nil {
		sessions = &mockSessionRepository{}
	}
	if habits == nil {
		habits = &mockHabitLogRepository{}
	}
	if psych == nil {
		psych = &mockPsychologyScoreRepository{}
	}
	if lifeAreas == nil {
		lifeAreas = &mockLifeAreaRatingRepository{}
	}
	if health == nil {
		health = &mockHealthMetricRepository{}
	}
	return NewMetricCollector(sessions, habits, psych, lifeAreas, health)
}

func ptr(v float64) *float64 {
	return &v
}
