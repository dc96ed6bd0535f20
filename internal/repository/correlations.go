package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/psicologoai13-maker/my-mind-mirror-84-sub002/internal/models"
	"github.com/psicologoai13-maker/my-mind-mirror-84-sub002/pkg/supabase"
)

type correlationRepository struct {
	client *supabase.Client
}

// NewCorrelationRepository creates a new correlation repository
func NewCorrelationRepository(client *supabase.Client) CorrelationRepository {
	return &correlationRepository{client: client}
}

// Upsert writes one correlation row, overwriting the existing row for the
// same (user_id, metric_a, metric_b) unconditionally. Last write wins; no
// history is retained.
func (r *correlationRepository) Upsert(ctx context.Context, result *models.CorrelationResult) error {
	data := map[string]interface{}{
		"user_id":        result.UserID,
		"metric_a":       result.MetricA,
		"metric_b":       result.MetricB,
		"pair_type":      result.PairType,
		"strength":       result.Strength,
		"sample_size":    result.SampleSize,
		"is_significant": result.IsSignificant,
		"insight_text":   result.InsightText,
		"computed_at":    result.ComputedAt.Format(time.RFC3339),
	}

	if _, err := r.client.Upsert("metric_correlations", data, "user_id,metric_a,metric_b"); err != nil {
		return fmt.Errorf("failed to upsert correlation: %w", err)
	}

	return nil
}

// GetSignificantByUserID returns the user's significant correlations ordered
// by descending |strength|, capped at limit. PostgREST cannot order by an
// absolute value, so ordering happens here.
func (r *correlationRepository) GetSignificantByUserID(ctx context.Context, userID string, limit int) ([]models.CorrelationResult, error) {
	filters := map[string]string{
		"user_id":        fmt.Sprintf("eq.%s", userID),
		"is_significant": "eq.true",
		"select":         "*",
	}

	body, err := r.client.Query("metric_correlations", filters)
	if err != nil {
		return nil, fmt.Errorf("failed to get correlations: %w", err)
	}

	var results []models.CorrelationResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	sort.Slice(results, func(i, j int) bool {
		return math.Abs(results[i].Strength) > math.Abs(results[j].Strength)
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

// DeleteByUserID removes all correlation rows for a user. Only the full
// data erasure path calls this.
func (r *correlationRepository) DeleteByUserID(ctx context.Context, userID string) error {
	filters := map[string]string{
		"user_id": fmt.Sprintf("eq.%s", userID),
	}

	if err := r.client.DeleteWhere("metric_correlations", filters); err != nil {
		return fmt.Errorf("failed to delete correlations: %w", err)
	}

	return nil
}
