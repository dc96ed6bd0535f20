package service

import (
	"context"
	"time"

	"github.com/psicologoai13-maker/my-mind-mirror-84-sub002/internal/logger"
	"github.com/psicologoai13-maker/my-mind-mirror-84-sub002/internal/models"
	"github.com/psicologoai13-maker/my-mind-mirror-84-sub002/internal/repository"
)

// DailySeries maps a "2006-01-02" date key to the metrics present on that
// day. Only days with at least one valid signal appear; a metric is either
// a valid measurement or absent, never a placeholder zero.
type DailySeries map[string]map[string]float64

// MetricCollector normalizes the heterogeneous source tables into one
// date-indexed table of named numeric signals
type MetricCollector struct {
	sessionRepo  repository.SessionRepository
	habitRepo    repository.HabitLogRepository
	psychRepo    repository.PsychologyScoreRepository
	lifeAreaRepo repository.LifeAreaRatingRepository
	healthRepo   repository.HealthMetricRepository
}

// NewMetricCollector creates a new metric collector
func NewMetricCollector(
	sessionRepo repository.SessionRepository,
	habitRepo repository.HabitLogRepository,
	psychRepo repository.PsychologyScoreRepository,
	lifeAreaRepo repository.LifeAreaRatingRepository,
	healthRepo repository.HealthMetricRepository,
) *MetricCollector {
	return &MetricCollector{
		sessionRepo:  sessionRepo,
		habitRepo:    habitRepo,
		psychRepo:    psychRepo,
		lifeAreaRepo: lifeAreaRepo,
		healthRepo:   healthRepo,
	}
}

// Collect fetches all source records for the lookback window and merges
// them into a dense date-to-metrics mapping. A missing or empty source is
// a normal state (new users) and contributes nothing; it is never an
// error. Within one day, later-merged sources overwrite earlier ones for
// the same metric key, and only valid values are merged at all, so a
// present value is never replaced by an absent one.
func (c *MetricCollector) Collect(ctx context.Context, userID string, lookbackDays int) (DailySeries, error) {
	log := logger.Ctx(ctx)
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -lookbackDays)

	series := make(DailySeries)

	sessions, err := c.sessionRepo.GetCompletedByUserIDAndDateRange(ctx, userID, startDate, endDate)
	if err != nil {
		log.Warn("collector: session source unavailable", logger.Err(err))
	}
	for _, session := range sessions {
		day := session.CompletedAt.Format(models.DateFormat)
		for _, sm := range sessionMetrics {
			setMetric(series, day, sm.Metric, sm.Value(session), false)
		}
	}

	scores, err := c.psychRepo.GetByUserIDAndDateRange(ctx, userID, startDate, endDate)
	if err != nil {
		log.Warn("collector: psychology source unavailable", logger.Err(err))
	}
	for _, score := range scores {
		metric, ok := psychologyMetrics[score.TestKey]
		if !ok {
			continue
		}
		setMetric(series, score.RecordedAt.Format(models.DateFormat), metric, score.Score, false)
	}

	ratings, err := c.lifeAreaRepo.GetByUserIDAndDateRange(ctx, userID, startDate, endDate)
	if err != nil {
		log.Warn("collector: life area source unavailable", logger.Err(err))
	}
	mergeLifeAreas(series, ratings)

	logs, err := c.habitRepo.GetByUserIDAndDateRange(ctx, userID, startDate, endDate)
	if err != nil {
		log.Warn("collector: habit source unavailable", logger.Err(err))
	}
	for _, habitLog := range logs {
		hm, ok := habitMetrics[habitLog.HabitKey]
		if !ok {
			continue
		}
		value := habitLog.Count
		if habitLog.HabitKind == models.HabitKindBuild && habitLog.DailyTarget > 0 {
			value = habitLog.Count / habitLog.DailyTarget
		}
		setMetric(series, habitLog.Date.Format(models.DateFormat), hm.Metric, value, hm.ZeroIsValid)
	}

	healthRows, err := c.healthRepo.GetByUserIDAndDateRange(ctx, userID, startDate, endDate)
	if err != nil {
		log.Warn("collector: health source unavailable", logger.Err(err))
	}
	for _, row := range healthRows {
		day := row.Date.Format(models.DateFormat)
		for _, hm := range healthMetricFields {
			setMetric(series, day, hm.Metric, hm.Value(row), false)
		}
	}

	return series, nil
}

// setMetric records one signal for one day. Sentinel zeros and negative
// values mean "not entered" in the storage layer and are dropped here,
// except a genuine zero for metrics on the abstain allowlist.
func setMetric(series DailySeries, day, metric string, value float64, zeroIsValid bool) {
	if value < 0 {
		return
	}
	if value == 0 && !zeroIsValid {
		return
	}
	if _, ok := series[day]; !ok {
		series[day] = make(map[string]float64)
	}
	series[day][metric] = value
}

// mergeLifeAreas records each allowlisted area rating and the derived
// per-day life_balance average over the areas rated that day
func mergeLifeAreas(series DailySeries, ratings []models.LifeAreaRating) {
	type balance struct {
		sum   float64
		count int
	}
	balances := make(map[string]*balance)

	for _, rating := range ratings {
		metric, ok := lifeAreaMetrics[rating.AreaKey]
		if !ok {
			continue
		}
		if rating.Rating <= 0 {
			continue
		}
		day := rating.Date.Format(models.DateFormat)
		setMetric(series, day, metric, rating.Rating, false)

		if _, ok := balances[day]; !ok {
			balances[day] = &balance{}
		}
		balances[day].sum += rating.Rating
		balances[day].count++
	}

	for day, b := range balances {
		setMetric(series, day, MetricLifeBalance, b.sum/float64(b.count), false)
	}
}
