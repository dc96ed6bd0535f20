package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/psicologoai13-maker/my-mind-mirror-84-sub002/internal/models"
	"github.com/psicologoai13-maker/my-mind-mirror-84-sub002/pkg/supabase"
)

type healthMetricRepository struct {
	client *supabase.Client
}

// NewHealthMetricRepository creates a new health metric repository
func NewHealthMetricRepository(client *supabase.Client) HealthMetricRepository {
	return &healthMetricRepository{client: client}
}

func (r *healthMetricRepository) GetByUserIDAndDateRange(ctx context.Context, userID string, startDate, endDate time.Time) ([]models.HealthMetric, error) {
	filters := map[string]string{
		"user_id": fmt.Sprintf("eq.%s", userID),
		"and":     fmt.Sprintf("(date.gte.%s,date.lte.%s)", startDate.Format(models.DateFormat), endDate.Format(models.DateFormat)),
		"select":  "*",
		"order":   "date.asc",
	}

	body, err := r.client.Query("health_metrics", filters)
	if err != nil {
		return nil, fmt.Errorf("failed to get health metrics: %w", err)
	}

	var metrics []models.HealthMetric
	if err := json.Unmarshal(body, &metrics); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return metrics, nil
}
