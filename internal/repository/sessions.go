package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/psicologoai13-maker/my-mind-mirror-84-sub002/internal/models"
	"github.com/psicologoai13-maker/my-mind-mirror-84-sub002/pkg/supabase"
)

type sessionRepository struct {
	client *supabase.Client
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(client *supabase.Client) SessionRepository {
	return &sessionRepository{client: client}
}

func (r *sessionRepository) GetCompletedByUserIDAndDateRange(ctx context.Context, userID string, startDate, endDate time.Time) ([]models.SessionRecord, error) {
	filters := map[string]string{
		"user_id": fmt.Sprintf("eq.%s", userID),
		"and":     fmt.Sprintf("(completed_at.gte.%s,completed_at.lte.%s)", startDate.Format(time.RFC3339), endDate.Format(time.RFC3339)),
		"select":  "*",
		"order":   "completed_at.asc",
	}

	body, err := r.client.Query("sessions", filters)
	if err != nil {
		return nil, fmt.Errorf("failed to get sessions: %w", err)
	}

	var sessions []models.SessionRecord
	if err := json.Unmarshal(body, &sessions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return sessions, nil
}
