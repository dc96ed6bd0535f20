package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/psicologoai13-maker/my-mind-mirror-84-sub002/internal/models"
	"github.com/psicologoai13-maker/my-mind-mirror-84-sub002/pkg/supabase"
)

type lifeAreaRatingRepository struct {
	client *supabase.Client
}

// NewLifeAreaRatingRepository creates a new life area rating repository
func NewLifeAreaRatingRepository(client *supabase.Client) LifeAreaRatingRepository {
	return &lifeAreaRatingRepository{client: client}
}

func (r *lifeAreaRatingRepository) GetByUserIDAndDateRange(ctx context.Context, userID string, startDate, endDate time.Time) ([]models.LifeAreaRating, error) {
	filters := map[string]string{
		"user_id": fmt.Sprintf("eq.%s", userID),
		"and":     fmt.Sprintf("(date.gte.%s,date.lte.%s)", startDate.Format(models.DateFormat), endDate.Format(models.DateFormat)),
		"select":  "*",
		"order":   "date.asc",
	}

	body, err := r.client.Query("life_area_ratings", filters)
	if err != nil {
		return nil, fmt.Errorf("failed to get life area ratings: %w", err)
	}

	var ratings []models.LifeAreaRating
	if err := json.Unmarshal(body, &ratings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return ratings, nil
}
