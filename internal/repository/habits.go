package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/psicologoai13-maker/my-mind-mirror-84-sub002/internal/models"
	"github.com/psicologoai13-maker/my-mind-mirror-84-sub002/pkg/supabase"
)

type habitLogRepository struct {
	client *supabase.Client
}

// NewHabitLogRepository creates a new habit log repository
func NewHabitLogRepository(client *supabase.Client) HabitLogRepository {
	return &habitLogRepository{client: client}
}

func (r *habitLogRepository) GetByUserIDAndDateRange(ctx context.Context, userID string, startDate, endDate time.Time) ([]models.HabitLog, error) {
	filters := map[string]string{
		"user_id": fmt.Sprintf("eq.%s", userID),
		"and":     fmt.Sprintf("(date.gte.%s,date.lte.%s)", startDate.Format(models.DateFormat), endDate.Format(models.DateFormat)),
		"select":  "*",
		"order":   "date.asc",
	}

	body, err := r.client.Query("habit_logs", filters)
	if err != nil {
		return nil, fmt.Errorf("failed to get habit logs: %w", err)
	}

	var logs []models.HabitLog
	if err := json.Unmarshal(body, &logs); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return logs, nil
}
