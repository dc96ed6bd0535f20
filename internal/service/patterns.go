package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/psicologoai13-maker/my-mind-mirror-84-sub002/internal/logger"
	"github.com/psicologoai13-maker/my-mind-mirror-84-sub002/internal/models"
	"github.com/psicologoai13-maker/my-mind-mirror-84-sub002/internal/repository"
)

// Rule thresholds for the pattern battery. Each rule is independent and
// evaluated against the same sample set.
const (
	morningDipMinDiff     = 1.5
	morningDipMinBucket   = 5
	weekendBoostMinDiff   = 1.0
	weekendMinWeekday     = 10
	weekendMinWeekend     = 4
	mondayBluesMinDiff    = 1.2
	mondayBluesMinMonday  = 4
	mondayBluesMinMidweek = 10
	anxietySpikeShare     = 0.25
	anxietySpikeOffset    = 2.0
)

type patternService struct {
	sessionRepo repository.SessionRepository
	patternRepo repository.PatternRepository
}

// NewPatternService creates a new pattern service
func NewPatternService(sessionRepo repository.SessionRepository, patternRepo repository.PatternRepository) PatternService {
	return &patternService{
		sessionRepo: sessionRepo,
		patternRepo: patternRepo,
	}
}

// RunPatternDetection classifies the user's last 90 days of mood/anxiety
// samples against the rule battery and refreshes the pattern store. Each
// firing pattern type updates its existing active row or inserts a new
// one; types that do not fire are left untouched.
func (s *patternService) RunPatternDetection(ctx context.Context, userID string) (*models.PatternRunResponse, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}

	log := logger.Ctx(ctx)
	endDate := time.Now()
	startDate := endDate.AddDate(0, 0, -PatternLookbackDays)

	sessions, err := s.sessionRepo.GetCompletedByUserIDAndDateRange(ctx, userID, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("failed to get sessions: %w", err)
	}

	samples := make([]models.MoodSample, 0, len(sessions))
	for _, session := range sessions {
		if session.MoodScore <= 0 {
			continue
		}
		samples = append(samples, models.MoodSample{
			Timestamp: session.CompletedAt,
			Mood:      session.MoodScore,
			Anxiety:   session.AnxietyScore,
		})
	}

	detections := DetectPatterns(samples)

	response := &models.PatternRunResponse{Success: true, Patterns: []models.PatternSummary{}}

	for i := range detections {
		detection := &detections[i]
		detection.UserID = userID
		detection.IsActive = true
		detection.LastValidatedAt = endDate

		if err := s.persist(ctx, detection); err != nil {
			log.Warn("failed to persist pattern, skipping",
				logger.String("pattern_type", string(detection.PatternType)),
				logger.Err(err),
			)
			continue
		}

		recommendations := detection.Recommendations
		if len(recommendations) > 2 {
			recommendations = recommendations[:2]
		}
		response.PatternsDetected++
		response.Patterns = append(response.Patterns, models.PatternSummary{
			Type:            detection.PatternType,
			Description:     detection.Description,
			Confidence:      detection.Confidence,
			Recommendations: recommendations,
		})
	}

	return response, nil
}

// GetActivePatterns returns the user's stored active patterns
func (s *patternService) GetActivePatterns(ctx context.Context, userID string) ([]models.PatternDetection, error) {
	if err := validateUserID(userID); err != nil {
		return nil, err
	}
	return s.patternRepo.GetActiveByUserID(ctx, userID)
}

// persist updates the existing active row for the pattern type in place,
// or inserts one when none exists. Deactivation is an explicit external
// action, never done here.
func (s *patternService) persist(ctx context.Context, detection *models.PatternDetection) error {
	existing, err := s.patternRepo.GetActive(ctx, detection.UserID, detection.PatternType)
	if err != nil {
		return err
	}
	if existing != nil {
		return s.patternRepo.UpdateActive(ctx, detection)
	}
	return s.patternRepo.Insert(ctx, detection)
}

// DetectPatterns applies the full rule battery to a chronological sample
// set. Fewer than MinPatternSamples samples short-circuits to no patterns:
// the per-rule minimums would likely reject anyway, and a partial result
// over so little data would be ambiguous.
func DetectPatterns(samples []models.MoodSample) []models.PatternDetection {
	if len(samples) < MinPatternSamples {
		return nil
	}

	var detections []models.PatternDetection
	rules := []func([]models.MoodSample) *models.PatternDetection{
		detectMorningDip,
		detectWeekendBoost,
		detectMondayBlues,
		detectAnxietySpikes,
	}
	for _, rule := range rules {
		if detection := rule(samples); detection != nil {
			detections = append(detections, *detection)
		}
	}
	return detections
}

// detectMorningDip compares morning (05:00-11:59) against evening
// (17:00-22:59) mood
func detectMorningDip(samples []models.MoodSample) *models.PatternDetection {
	var morning, evening []float64
	for _, sample := range samples {
		hour := sample.Timestamp.Hour()
		switch {
		case hour >= 5 && hour < 12:
			morning = append(morning, sample.Mood)
		case hour >= 17 && hour < 23:
			evening = append(evening, sample.Mood)
		}
	}

	if len(morning) < morningDipMinBucket || len(evening) < morningDipMinBucket {
		return nil
	}

	morningAvg := mean(morning)
	eveningAvg := mean(evening)
	diff := eveningAvg - morningAvg
	if diff < morningDipMinDiff {
		return nil
	}

	confidence := math.Min(0.95, 0.5+diff/5+float64(len(morning))/50)

	return newDetection(models.PatternMorningDip,
		fmt.Sprintf("Your mood starts low in the morning (avg %.1f) and recovers by evening (avg %.1f).", morningAvg, eveningAvg),
		confidence, len(morning)+len(evening))
}

// detectWeekendBoost compares weekend against weekday mood
func detectWeekendBoost(samples []models.MoodSample) *models.PatternDetection {
	var weekday, weekend []float64
	for _, sample := range samples {
		switch sample.Timestamp.Weekday() {
		case time.Saturday, time.Sunday:
			weekend = append(weekend, sample.Mood)
		default:
			weekday = append(weekday, sample.Mood)
		}
	}

	if len(weekday) < weekendMinWeekday || len(weekend) < weekendMinWeekend {
		return nil
	}

	diff := mean(weekend) - mean(weekday)
	if diff < weekendBoostMinDiff {
		return nil
	}

	confidence := math.Min(0.9, 0.5+diff/4+float64(len(weekend))/30)

	return newDetection(models.PatternWeekendBoost,
		fmt.Sprintf("Your mood is noticeably better on weekends (avg %.1f) than on weekdays (avg %.1f).", mean(weekend), mean(weekday)),
		confidence, len(weekday)+len(weekend))
}

// detectMondayBlues compares Monday mood against Tuesday-Thursday mood
func detectMondayBlues(samples []models.MoodSample) *models.PatternDetection {
	var monday, midweek []float64
	for _, sample := range samples {
		switch sample.Timestamp.Weekday() {
		case time.Monday:
			monday = append(monday, sample.Mood)
		case time.Tuesday, time.Wednesday, time.Thursday:
			midweek = append(midweek, sample.Mood)
		}
	}

	if len(monday) < mondayBluesMinMonday || len(midweek) < mondayBluesMinMidweek {
		return nil
	}

	diff := mean(midweek) - mean(monday)
	if diff < mondayBluesMinDiff {
		return nil
	}

	confidence := math.Min(0.85, 0.4+diff/4+float64(len(monday))/20)

	return newDetection(models.PatternMondayBlues,
		fmt.Sprintf("Mondays pull your mood down (avg %.1f) compared to midweek days (avg %.1f).", mean(monday), mean(midweek)),
		confidence, len(monday)+len(midweek))
}

// detectAnxietySpikes fires when at least a quarter of samples sit two or
// more points above the user's mean anxiety. Confidence is fixed.
func detectAnxietySpikes(samples []models.MoodSample) *models.PatternDetection {
	anxieties := make([]float64, len(samples))
	for i, sample := range samples {
		anxieties[i] = sample.Anxiety
	}
	threshold := mean(anxieties) + anxietySpikeOffset

	spikes := 0
	for _, a := range anxieties {
		if a >= threshold {
			spikes++
		}
	}

	if float64(spikes) < anxietySpikeShare*float64(len(samples)) {
		return nil
	}

	return newDetection(models.PatternAnxietySpikes,
		fmt.Sprintf("Your anxiety spikes well above your usual level in %d of %d check-ins.", spikes, len(samples)),
		0.7, len(samples))
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func newDetection(patternType models.PatternType, description string, confidence float64, dataPoints int) *models.PatternDetection {
	content := patternContent[patternType]
	return &models.PatternDetection{
		PatternType:     patternType,
		Description:     description,
		Confidence:      confidence,
		DataPoints:      dataPoints,
		TriggerFactors:  content.Triggers,
		Recommendations: content.Recommendations,
	}
}

// patternContent is the static editorial text per pattern type. Fixed
// content, never computed.
var patternContent = map[models.PatternType]struct {
	Triggers        []string
	Recommendations []string
}{
	models.PatternMorningDip: {
		Triggers: []string{"poor sleep quality", "rushed mornings", "skipping breakfast"},
		Recommendations: []string{
			"Keep the first hour of your day slow and screen-free",
			"Get daylight within 30 minutes of waking",
			"Schedule demanding tasks for the afternoon",
		},
	},
	models.PatternWeekendBoost: {
		Triggers: []string{"work-related stress", "weekday overload", "lack of weekday downtime"},
		Recommendations: []string{
			"Plan one small weekend-style activity midweek",
			"Protect an evening break on workdays",
			"Review your weekday workload with someone you trust",
		},
	},
	models.PatternMondayBlues: {
		Triggers: []string{"Sunday night anticipation", "weekly planning pressure", "abrupt schedule change"},
		Recommendations: []string{
			"Prepare Monday's first task on Friday afternoon",
			"Keep Monday mornings light on meetings",
			"Add something you enjoy to every Monday",
		},
	},
	models.PatternAnxietySpikes: {
		Triggers: []string{"irregular sleep", "caffeine late in the day", "unresolved stressors"},
		Recommendations: []string{
			"Note what happened right before each spike",
			"Practice a short breathing exercise at the first sign of tension",
			"Discuss recurring spikes with a professional",
		},
	},
}
