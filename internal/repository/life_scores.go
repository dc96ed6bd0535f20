package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/psicologoai13-maker/my-mind-mirror-84-sub002/internal/models"
	"github.com/psicologoai13-maker/my-mind-mirror-84-sub002/pkg/supabase"
)

type lifeAreaScoreRepository struct {
	client *supabase.Client
}

// NewLifeAreaScoreRepository creates a new life area score repository
func NewLifeAreaScoreRepository(client *supabase.Client) LifeAreaScoreRepository {
	return &lifeAreaScoreRepository{client: client}
}

func (r *lifeAreaScoreRepository) GetByUserID(ctx context.Context, userID string) (*models.LifeAreaScores, error) {
	filters := map[string]string{
		"user_id": fmt.Sprintf("eq.%s", userID),
		"select":  "*",
		"limit":   "1",
	}

	body, err := r.client.Query("life_area_scores", filters)
	if err != nil {
		return nil, fmt.Errorf("failed to get life area scores: %w", err)
	}

	var scores []models.LifeAreaScores
	if err := json.Unmarshal(body, &scores); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(scores) == 0 {
		return nil, nil
	}
	return &scores[0], nil
}

func (r *lifeAreaScoreRepository) Upsert(ctx context.Context, scores *models.LifeAreaScores) error {
	data := map[string]interface{}{
		"user_id":       scores.UserID,
		"work":          scores.Work,
		"relationships": scores.Relationships,
		"health":        scores.Health,
		"growth":        scores.Growth,
		"leisure":       scores.Leisure,
		"updated_at":    scores.UpdatedAt.Format(time.RFC3339),
	}

	if _, err := r.client.Upsert("life_area_scores", data, "user_id"); err != nil {
		return fmt.Errorf("failed to upsert life area scores: %w", err)
	}

	return nil
}
