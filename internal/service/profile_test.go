package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/psicologoai13-maker/my-mind-mirror-84-sub002/internal/models"
)

func TestUpdateLifeAreaScores_PartialMerge(t *testing.T) {
	ctx := context.Background()

	scoreRepo := newMockLifeAreaScoreRepository()
	scoreRepo.scores[testUserID] = &models.LifeAreaScores{
		UserID:        testUserID,
		Work:          5,
		Relationships: 7,
		Health:        6,
		Growth:        4,
		Leisure:       8,
		UpdatedAt:     time.Now().AddDate(0, 0, -30),
	}

	service := NewProfileService(scoreRepo)

	merged, err := service.UpdateLifeAreaScores(ctx, testUserID, models.PartialLifeAreaScores{
		Work:   ptr(9),
		Growth: ptr(6),
	})
	if err != nil {
		t.Fatalf("UpdateLifeAreaScores failed: %v", err)
	}

	if merged.Work != 9 {
		t.Errorf("Expected work=9, got %v", merged.Work)
	}
	if merged.Growth != 6 {
		t.Errorf("Expected growth=6, got %v", merged.Growth)
	}
	// Untouched areas keep their values
	if merged.Relationships != 7 || merged.Health != 6 || merged.Leisure != 8 {
		t.Errorf("Expected untouched areas preserved, got %+v", merged)
	}

	stored := scoreRepo.scores[testUserID]
	if stored.Work != 9 || stored.Relationships != 7 {
		t.Errorf("Expected merged scores persisted, got %+v", stored)
	}
	if scoreRepo.upsertCalls != 1 {
		t.Errorf("Expected 1 upsert, got %d", scoreRepo.upsertCalls)
	}
}

func TestUpdateLifeAreaScores_NewUser(t *testing.T) {
	ctx := context.Background()

	scoreRepo := newMockLifeAreaScoreRepository()
	service := NewProfileService(scoreRepo)

	merged, err := service.UpdateLifeAreaScores(ctx, testUserID, models.PartialLifeAreaScores{
		Health: ptr(7),
	})
	if err != nil {
		t.Fatalf("UpdateLifeAreaScores failed: %v", err)
	}

	if merged.UserID != testUserID {
		t.Errorf("Expected user_id=%q, got %q", testUserID, merged.UserID)
	}
	if merged.Health != 7 {
		t.Errorf("Expected health=7, got %v", merged.Health)
	}
	// Areas never set start from zero
	if merged.Work != 0 || merged.Leisure != 0 {
		t.Errorf("Expected unset areas at zero, got %+v", merged)
	}
	if merged.UpdatedAt.IsZero() {
		t.Error("Expected updated_at to be set")
	}
}

func TestUpdateLifeAreaScores_EmptyUpdateStillTouches(t *testing.T) {
	ctx := context.Background()

	scoreRepo := newMockLifeAreaScoreRepository()
	before := time.Now().AddDate(0, 0, -10)
	scoreRepo.scores[testUserID] = &models.LifeAreaScores{
		UserID:    testUserID,
		Work:      5,
		UpdatedAt: before,
	}

	service := NewProfileService(scoreRepo)

	merged, err := service.UpdateLifeAreaScores(ctx, testUserID, models.PartialLifeAreaScores{})
	if err != nil {
		t.Fatalf("UpdateLifeAreaScores failed: %v", err)
	}
	if merged.Work != 5 {
		t.Errorf("Expected work preserved, got %v", merged.Work)
	}
	if !merged.UpdatedAt.After(before) {
		t.Error("Expected updated_at to advance")
	}
}

func TestUpdateLifeAreaScores_InvalidUserID(t *testing.T) {
	ctx := context.Background()

	scoreRepo := newMockLifeAreaScoreRepository()
	service := NewProfileService(scoreRepo)

	_, err := service.UpdateLifeAreaScores(ctx, "bogus", models.PartialLifeAreaScores{Work: ptr(5)})
	if !errors.Is(err, ErrInvalidUserID) {
		t.Errorf("Expected ErrInvalidUserID, got %v", err)
	}
	if scoreRepo.upsertCalls != 0 {
		t.Error("Expected no writes on invalid input")
	}
}

func TestMergeLifeAreaScores_DoesNotMutateOld(t *testing.T) {
	old := models.LifeAreaScores{UserID: testUserID, Work: 3, Health: 5}

	merged := models.MergeLifeAreaScores(old, models.PartialLifeAreaScores{Work: ptr(8)})

	if old.Work != 3 {
		t.Errorf("Expected the original untouched, got work=%v", old.Work)
	}
	if merged.Work != 8 || merged.Health != 5 {
		t.Errorf("Unexpected merge result: %+v", merged)
	}
}
