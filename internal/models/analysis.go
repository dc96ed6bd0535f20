package models

import "time"

// MetricPoint is one named numeric signal on one calendar day.
// Ephemeral: recomputed per run, never persisted directly.
type MetricPoint struct {
	Date   time.Time `json:"date"`
	Metric string    `json:"metric"`
	Value  float64   `json:"value"`
}

// PairType names the curated relationship a correlation pair belongs to
type PairType string

const (
	PairTypeSleepMood          PairType = "sleep_mood"
	PairTypeExerciseMood       PairType = "exercise_mood"
	PairTypeExerciseAnxiety    PairType = "exercise_anxiety"
	PairTypeMeditationAnxiety  PairType = "meditation_anxiety"
	PairTypeActivityMood       PairType = "activity_mood"
	PairTypeSleepEnergy        PairType = "sleep_energy"
	PairTypeStressSleep        PairType = "stress_sleep"
	PairTypeLifeBalanceMood    PairType = "life_balance_mood"
)

// CorrelationPair is one entry of the static pair catalogue. Only pairs in
// the catalogue are ever evaluated; ad-hoc pairs are not explored.
type CorrelationPair struct {
	MetricA  string   `json:"metric_a"`
	MetricB  string   `json:"metric_b"`
	PairType PairType `json:"pair_type"`
}

// CorrelationResult is one persisted pairwise correlation for a user.
// Exactly one row exists per (user_id, metric_a, metric_b); recomputation
// overwrites it.
type CorrelationResult struct {
	ID            string    `json:"id,omitempty"`
	UserID        string    `json:"user_id"`
	MetricA       string    `json:"metric_a"`
	MetricB       string    `json:"metric_b"`
	PairType      PairType  `json:"pair_type"`
	Strength      float64   `json:"strength"`
	SampleSize    int       `json:"sample_size"`
	IsSignificant bool      `json:"is_significant"`
	InsightText   string    `json:"insight_text"`
	ComputedAt    time.Time `json:"computed_at"`
}

// PatternType names a rule-detected behavioral cycle
type PatternType string

const (
	PatternMorningDip    PatternType = "morning_dip"
	PatternWeekendBoost  PatternType = "weekend_boost"
	PatternMondayBlues   PatternType = "monday_blues"
	PatternAnxietySpikes PatternType = "anxiety_spikes"
)

// PatternDetection is one persisted behavioral pattern for a user.
// At most one active row exists per (user_id, pattern_type); re-detection
// updates the row in place.
type PatternDetection struct {
	ID              string      `json:"id,omitempty"`
	UserID          string      `json:"user_id"`
	PatternType     PatternType `json:"pattern_type"`
	Description     string      `json:"description"`
	Confidence      float64     `json:"confidence"`
	DataPoints      int         `json:"data_points"`
	TriggerFactors  []string    `json:"trigger_factors"`
	Recommendations []string    `json:"recommendations"`
	IsActive        bool        `json:"is_active"`
	LastValidatedAt time.Time   `json:"last_validated_at"`
}

// MoodSample is one timestamped mood/anxiety observation fed to the
// pattern detector, drawn from a completed session.
type MoodSample struct {
	Timestamp time.Time `json:"timestamp"`
	Mood      float64   `json:"mood"`
	Anxiety   float64   `json:"anxiety"`
}

// CorrelationRunResponse is the envelope returned by the correlation
// entry point. Always a success shape; empty results are a normal state.
type CorrelationRunResponse struct {
	Success                 bool     `json:"success"`
	TotalCorrelations       int      `json:"total_correlations"`
	SignificantCorrelations int      `json:"significant_correlations"`
	TopInsights             []string `json:"top_insights"`
}

// PatternSummary is the caller-facing view of one detected pattern
type PatternSummary struct {
	Type            PatternType `json:"type"`
	Description     string      `json:"description"`
	Confidence      float64     `json:"confidence"`
	Recommendations []string    `json:"recommendations"`
}

// PatternRunResponse is the envelope returned by the pattern entry point
type PatternRunResponse struct {
	Success          bool             `json:"success"`
	PatternsDetected int              `json:"patterns_detected"`
	Patterns         []PatternSummary `json:"patterns"`
}
