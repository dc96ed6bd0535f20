package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/psicologoai13-maker/my-mind-mirror-84-sub002/internal/models"
	"github.com/psicologoai13-maker/my-mind-mirror-84-sub002/pkg/supabase"
)

type psychologyScoreRepository struct {
	client *supabase.Client
}

// NewPsychologyScoreRepository creates a new psychology score repository
func NewPsychologyScoreRepository(client *supabase.Client) PsychologyScoreRepository {
	return &psychologyScoreRepository{client: client}
}

func (r *psychologyScoreRepository) GetByUserIDAndDateRange(ctx context.Context, userID string, startDate, endDate time.Time) ([]models.PsychologyScore, error) {
	filters := map[string]string{
		"user_id": fmt.Sprintf("eq.%s", userID),
		"and":     fmt.Sprintf("(recorded_at.gte.%s,recorded_at.lte.%s)", startDate.Format(time.RFC3339), endDate.Format(time.RFC3339)),
		"select":  "*",
		"order":   "recorded_at.asc",
	}

	body, err := r.client.Query("psychology_scores", filters)
	if err != nil {
		return nil, fmt.Errorf("failed to get psychology scores: %w", err)
	}

	var scores []models.PsychologyScore
	if err := json.Unmarshal(body, &scores); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return scores, nil
}
