package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/psicologoai13-maker/my-mind-mirror-84-sub002/internal/models"
)

const testUserID = "0f8fad5b-d9cb-469f-a165-70867728950e"

func TestCorrelate_InsufficientSamples(t *testing.T) {
	x := []float64{1, 2, 3, 4}
	y := []float64{2, 4, 6, 8}

	r, n := Correlate(x, y)
	if r != 0 || n != 0 {
		t.Errorf("Expected (0, 0) for %d samples, got (%v, %d)", len(x), r, n)
	}
}

func TestCorrelate_MismatchedLengths(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5, 6}
	y := []float64{1, 2, 3, 4, 5}

	r, n := Correlate(x, y)
	if r != 0 || n != 0 {
		t.Errorf("Expected (0, 0) for mismatched lengths, got (%v, %d)", r, n)
	}
}

func TestCorrelate_PerfectPositive(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5, 6, 7}
	y := []float64{2, 4, 6, 8, 10, 12, 14}

	r, n := Correlate(x, y)
	if n != 7 {
		t.Errorf("Expected n=7, got %d", n)
	}
	if math.Abs(r-1) > 1e-9 {
		t.Errorf("Expected r=1 for a perfect linear relationship, got %v", r)
	}
}

func TestCorrelate_PerfectNegative(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{10, 8, 6, 4, 2}

	r, n := Correlate(x, y)
	if n != 5 {
		t.Errorf("Expected n=5, got %d", n)
	}
	if math.Abs(r+1) > 1e-9 {
		t.Errorf("Expected r=-1 for a perfect inverse relationship, got %v", r)
	}
}

func TestCorrelate_ZeroVariance(t *testing.T) {
	x := []float64{5, 5, 5, 5, 5, 5}
	y := []float64{1, 3, 2, 8, 4, 6}

	r, n := Correlate(x, y)
	if r != 0 {
		t.Errorf("Expected r=0 for a constant series, got %v", r)
	}
	if n != 6 {
		t.Errorf("Expected the real sample size 6, got %d", n)
	}
}

func TestCorrelate_Symmetry(t *testing.T) {
	x := []float64{3, 7, 2, 9, 5, 6, 1, 8}
	y := []float64{4, 6, 3, 8, 5, 7, 2, 9}

	rXY, _ := Correlate(x, y)
	rYX, _ := Correlate(y, x)
	if math.Abs(rXY-rYX) > 1e-12 {
		t.Errorf("Expected symmetric correlation, got %v vs %v", rXY, rYX)
	}
}

func TestCorrelate_SelfCorrelation(t *testing.T) {
	x := []float64{3, 7, 2, 9, 5, 6}

	r, _ := Correlate(x, x)
	if math.Abs(r-1) > 1e-9 {
		t.Errorf("Expected a series to correlate 1 with itself, got %v", r)
	}
}

func TestAlignSeries_SkipsGapsAndZeros(t *testing.T) {
	series := DailySeries{
		"2026-01-01": {"sleep_quality": 7, "mood": 6},
		"2026-01-02": {"sleep_quality": 5}, // mood missing: gap, skipped
		"2026-01-03": {"mood": 8},          // sleep missing: gap, skipped
		"2026-01-04": {"sleep_quality": 8, "mood": 0}, // sentinel zero, skipped
		"2026-01-05": {"sleep_quality": 6, "mood": 7},
	}

	x, y := AlignSeries(series, "sleep_quality", "mood")
	if len(x) != 2 || len(y) != 2 {
		t.Fatalf("Expected 2 aligned pairs, got %d and %d", len(x), len(y))
	}
	if x[0] != 7 || y[0] != 6 {
		t.Errorf("Expected first pair (7, 6), got (%v, %v)", x[0], y[0])
	}
	if x[1] != 6 || y[1] != 7 {
		t.Errorf("Expected second pair (6, 7), got (%v, %v)", x[1], y[1])
	}
}

func TestAlignSeries_ChronologicalOrder(t *testing.T) {
	// Map iteration order is random; alignment must not be
	series := DailySeries{
		"2026-01-09": {"a": 9, "b": 9},
		"2026-01-02": {"a": 2, "b": 2},
		"2026-01-05": {"a": 5, "b": 5},
	}

	x, _ := AlignSeries(series, "a", "b")
	expected := []float64{2, 5, 9}
	for i, v := range expected {
		if x[i] != v {
			t.Errorf("Expected x[%d]=%v, got %v", i, v, x[i])
		}
	}
}

// correlatedSessions builds daily sessions where sleep quality and mood move
// together perfectly, enough days to clear the significance sample floor.
func correlatedSessions(userID string, days int) []models.SessionRecord {
	sessions := make([]models.SessionRecord, 0, days)
	now := time.Now()
	for i := 0; i < days; i++ {
		quality := float64(3 + i%5)
		sessions = append(sessions, models.SessionRecord{
			ID:           fmt.Sprintf("session-%d", i),
			UserID:       userID,
			CompletedAt:  now.AddDate(0, 0, -i),
			MoodScore:    quality,
			AnxietyScore: 4,
			SleepQuality: quality,
			EnergyLevel:  5,
		})
	}
	return sessions
}

func TestRunCorrelations_OneRowPerPair(t *testing.T) {
	ctx := context.Background()

	collector := newTestCollector(&mockSessionRepository{sessions: correlatedSessions(testUserID, 15)}, nil, nil, nil, nil)
	correlationRepo := newMockCorrelationRepository()
	service := NewCorrelationService(collector, correlationRepo)

	response, err := service.RunCorrelations(ctx, testUserID)
	if err != nil {
		t.Fatalf("RunCorrelations failed: %v", err)
	}
	if !response.Success {
		t.Error("Expected success=true")
	}
	if response.TotalCorrelations != len(CorrelationPairs) {
		t.Errorf("Expected %d total correlations, got %d", len(CorrelationPairs), response.TotalCorrelations)
	}
	if len(correlationRepo.rows) != len(CorrelationPairs) {
		t.Errorf("Expected %d stored rows, got %d", len(CorrelationPairs), len(correlationRepo.rows))
	}

	// A second run overwrites; row count must not grow
	if _, err := service.RunCorrelations(ctx, testUserID); err != nil {
		t.Fatalf("Second RunCorrelations failed: %v", err)
	}
	if len(correlationRepo.rows) != len(CorrelationPairs) {
		t.Errorf("Expected %d rows after re-run, got %d", len(CorrelationPairs), len(correlationRepo.rows))
	}
	if correlationRepo.upsertCalls != 2*len(CorrelationPairs) {
		t.Errorf("Expected %d upsert calls, got %d", 2*len(CorrelationPairs), correlationRepo.upsertCalls)
	}
}

func TestRunCorrelations_DeterministicResults(t *testing.T) {
	ctx := context.Background()

	collector := newTestCollector(&mockSessionRepository{sessions: correlatedSessions(testUserID, 20)}, nil, nil, nil, nil)
	correlationRepo := newMockCorrelationRepository()
	service := NewCorrelationService(collector, correlationRepo)

	first, err := service.RunCorrelations(ctx, testUserID)
	if err != nil {
		t.Fatalf("First run failed: %v", err)
	}
	firstRows := make(map[string]models.CorrelationResult, len(correlationRepo.rows))
	for key, row := range correlationRepo.rows {
		firstRows[key] = *row
	}

	second, err := service.RunCorrelations(ctx, testUserID)
	if err != nil {
		t.Fatalf("Second run failed: %v", err)
	}

	if first.TotalCorrelations != second.TotalCorrelations ||
		first.SignificantCorrelations != second.SignificantCorrelations {
		t.Errorf("Expected identical run counts, got %+v vs %+v", first, second)
	}
	if len(first.TopInsights) != len(second.TopInsights) {
		t.Fatalf("Expected identical insights, got %v vs %v", first.TopInsights, second.TopInsights)
	}
	for i := range first.TopInsights {
		if first.TopInsights[i] != second.TopInsights[i] {
			t.Errorf("Insight %d differs: %q vs %q", i, first.TopInsights[i], second.TopInsights[i])
		}
	}
	for key, row := range correlationRepo.rows {
		previous := firstRows[key]
		if row.Strength != previous.Strength || row.SampleSize != previous.SampleSize ||
			row.IsSignificant != previous.IsSignificant || row.InsightText != previous.InsightText {
			t.Errorf("Row %s changed between identical runs: %+v vs %+v", key, previous, *row)
		}
	}
}

func TestRunCorrelations_SignificanceRule(t *testing.T) {
	ctx := context.Background()

	collector := newTestCollector(&mockSessionRepository{sessions: correlatedSessions(testUserID, 15)}, nil, nil, nil, nil)
	correlationRepo := newMockCorrelationRepository()
	service := NewCorrelationService(collector, correlationRepo)

	if _, err := service.RunCorrelations(ctx, testUserID); err != nil {
		t.Fatalf("RunCorrelations failed: %v", err)
	}

	for key, row := range correlationRepo.rows {
		expected := math.Abs(row.Strength) >= SignificantStrength && row.SampleSize >= SignificantSampleSize
		if row.IsSignificant != expected {
			t.Errorf("Row %s: is_significant=%v with strength=%v sample_size=%d",
				key, row.IsSignificant, row.Strength, row.SampleSize)
		}
	}

	// The session data only feeds the sleep/mood pair; it must be the
	// significant one.
	sleepMood := correlationRepo.rows[correlationKey(testUserID, MetricSleepQuality, MetricMood)]
	if sleepMood == nil {
		t.Fatal("Expected a sleep_quality/mood row")
	}
	if !sleepMood.IsSignificant {
		t.Errorf("Expected sleep/mood to be significant, got strength=%v n=%d", sleepMood.Strength, sleepMood.SampleSize)
	}
	if sleepMood.SampleSize != 15 {
		t.Errorf("Expected sample_size=15, got %d", sleepMood.SampleSize)
	}
}

func TestRunCorrelations_NoData(t *testing.T) {
	ctx := context.Background()

	collector := newTestCollector(nil, nil, nil, nil, nil)
	correlationRepo := newMockCorrelationRepository()
	service := NewCorrelationService(collector, correlationRepo)

	response, err := service.RunCorrelations(ctx, testUserID)
	if err != nil {
		t.Fatalf("RunCorrelations failed: %v", err)
	}
	if !response.Success {
		t.Error("Expected success=true even with no data")
	}
	if response.SignificantCorrelations != 0 {
		t.Errorf("Expected 0 significant correlations, got %d", response.SignificantCorrelations)
	}
	if len(response.TopInsights) != 0 {
		t.Errorf("Expected no insights, got %v", response.TopInsights)
	}

	// Every pair still gets its row, marked as insufficient data
	for _, row := range correlationRepo.rows {
		if row.SampleSize != 0 || row.Strength != 0 {
			t.Errorf("Expected (0, 0) rows with no data, got strength=%v n=%d", row.Strength, row.SampleSize)
		}
	}
}

func TestRunCorrelations_FailedUpsertSkipsPair(t *testing.T) {
	ctx := context.Background()

	collector := newTestCollector(&mockSessionRepository{sessions: correlatedSessions(testUserID, 15)}, nil, nil, nil, nil)
	correlationRepo := newMockCorrelationRepository()
	correlationRepo.failUpserts = map[models.PairType]bool{models.PairTypeExerciseMood: true}
	service := NewCorrelationService(collector, correlationRepo)

	response, err := service.RunCorrelations(ctx, testUserID)
	if err != nil {
		t.Fatalf("Expected one failed pair to be skipped, not fatal: %v", err)
	}
	if response.TotalCorrelations != len(CorrelationPairs)-1 {
		t.Errorf("Expected %d persisted correlations, got %d", len(CorrelationPairs)-1, response.TotalCorrelations)
	}
}

func TestRunCorrelations_InvalidUserID(t *testing.T) {
	ctx := context.Background()

	collector := newTestCollector(nil, nil, nil, nil, nil)
	correlationRepo := newMockCorrelationRepository()
	service := NewCorrelationService(collector, correlationRepo)

	for _, userID := range []string{"", "not-a-uuid", "12345"} {
		_, err := service.RunCorrelations(ctx, userID)
		if !errors.Is(err, ErrInvalidUserID) {
			t.Errorf("Expected ErrInvalidUserID for %q, got %v", userID, err)
		}
	}
	if correlationRepo.upsertCalls != 0 {
		t.Errorf("Expected no writes on invalid input, got %d upserts", correlationRepo.upsertCalls)
	}
}

func TestGetTopCorrelations_InvalidUserID(t *testing.T) {
	ctx := context.Background()

	service := NewCorrelationService(newTestCollector(nil, nil, nil, nil, nil), newMockCorrelationRepository())

	_, err := service.GetTopCorrelations(ctx, "bogus", 10)
	if !errors.Is(err, ErrInvalidUserID) {
		t.Errorf("Expected ErrInvalidUserID, got %v", err)
	}
}

func TestInsightText_Bands(t *testing.T) {
	pair := models.CorrelationPair{MetricA: MetricSleepQuality, MetricB: MetricMood}

	tests := []struct {
		strength float64
		want     string
	}{
		{0.85, "strongly connected"},
		{-0.75, "the other tends to drop"},
		{0.5, "move together"},
		{-0.5, "tends to come with lower"},
		{0.25, "slight link"},
		{-0.25, "slight inverse link"},
		{0.1, "No clear relationship"},
		{-0.1, "No clear relationship"},
	}
	for _, tt := range tests {
		text := insightText(pair, tt.strength)
		if !strings.Contains(text, tt.want) {
			t.Errorf("strength %v: expected insight containing %q, got %q", tt.strength, tt.want, text)
		}
		if !strings.Contains(text, "sleep quality") || !strings.Contains(text, "mood") {
			t.Errorf("strength %v: expected both metric labels, got %q", tt.strength, text)
		}
	}
}

func TestRound3(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0.123456, 0.123},
		{0.9995, 1.0},
		{-0.4567, -0.457},
		{0, 0},
	}
	for _, tt := range tests {
		if got := round3(tt.in); got != tt.want {
			t.Errorf("round3(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
