package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/psicologoai13-maker/my-mind-mirror-84-sub002/internal/models"
	"github.com/psicologoai13-maker/my-mind-mirror-84-sub002/pkg/supabase"
)

type patternRepository struct {
	client *supabase.Client
}

// NewPatternRepository creates a new pattern repository
func NewPatternRepository(client *supabase.Client) PatternRepository {
	return &patternRepository{client: client}
}

// GetActive returns the active row for (user_id, pattern_type), or nil when
// none exists.
func (r *patternRepository) GetActive(ctx context.Context, userID string, patternType models.PatternType) (*models.PatternDetection, error) {
	filters := map[string]string{
		"user_id":      fmt.Sprintf("eq.%s", userID),
		"pattern_type": fmt.Sprintf("eq.%s", patternType),
		"is_active":    "eq.true",
		"select":       "*",
		"limit":        "1",
	}

	body, err := r.client.Query("behavior_patterns", filters)
	if err != nil {
		return nil, fmt.Errorf("failed to get pattern: %w", err)
	}

	var patterns []models.PatternDetection
	if err := json.Unmarshal(body, &patterns); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(patterns) == 0 {
		return nil, nil
	}
	return &patterns[0], nil
}

func (r *patternRepository) GetActiveByUserID(ctx context.Context, userID string) ([]models.PatternDetection, error) {
	filters := map[string]string{
		"user_id":   fmt.Sprintf("eq.%s", userID),
		"is_active": "eq.true",
		"select":    "*",
		"order":     "confidence.desc",
	}

	body, err := r.client.Query("behavior_patterns", filters)
	if err != nil {
		return nil, fmt.Errorf("failed to get patterns: %w", err)
	}

	var patterns []models.PatternDetection
	if err := json.Unmarshal(body, &patterns); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return patterns, nil
}

// Insert creates a new active pattern row
func (r *patternRepository) Insert(ctx context.Context, detection *models.PatternDetection) error {
	data := map[string]interface{}{
		"user_id":           detection.UserID,
		"pattern_type":      detection.PatternType,
		"description":       detection.Description,
		"confidence":        detection.Confidence,
		"data_points":       detection.DataPoints,
		"trigger_factors":   detection.TriggerFactors,
		"recommendations":   detection.Recommendations,
		"is_active":         true,
		"last_validated_at": detection.LastValidatedAt.Format(time.RFC3339),
	}

	if _, err := r.client.Insert("behavior_patterns", data); err != nil {
		return fmt.Errorf("failed to insert pattern: %w", err)
	}

	return nil
}

// UpdateActive refreshes the existing active row for the detection's
// (user_id, pattern_type) in place. Re-detection never duplicates a row.
func (r *patternRepository) UpdateActive(ctx context.Context, detection *models.PatternDetection) error {
	filters := map[string]string{
		"user_id":      fmt.Sprintf("eq.%s", detection.UserID),
		"pattern_type": fmt.Sprintf("eq.%s", detection.PatternType),
		"is_active":    "eq.true",
	}

	data := map[string]interface{}{
		"description":       detection.Description,
		"confidence":        detection.Confidence,
		"data_points":       detection.DataPoints,
		"trigger_factors":   detection.TriggerFactors,
		"recommendations":   detection.Recommendations,
		"last_validated_at": detection.LastValidatedAt.Format(time.RFC3339),
	}

	if _, err := r.client.UpdateWhere("behavior_patterns", filters, data); err != nil {
		return fmt.Errorf("failed to update pattern: %w", err)
	}

	return nil
}
