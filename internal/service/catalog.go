package service

import (
	"github.com/psicologoai13-maker/my-mind-mirror-84-sub002/internal/models"
)

// Lookback windows and analysis thresholds. The windows bound the wall
// clock of a run; the catalogues below bound its breadth.
const (
	CorrelationLookbackDays = 60
	PatternLookbackDays     = 90

	// MinAlignedSamples is the floor below which a pair is reported as
	// insufficient data (r=0, n=0) rather than a real correlation.
	MinAlignedSamples = 5

	// MinPatternSamples short-circuits the whole rule battery
	MinPatternSamples = 10

	// A correlation is significant iff |strength| >= SignificantStrength
	// and sample_size >= SignificantSampleSize.
	SignificantStrength   = 0.3
	SignificantSampleSize = 10

	// TopInsightsLimit caps the insight sentences surfaced per run
	TopInsightsLimit = 5
)

// Canonical metric keys. Sources map onto these; the pair catalogue and
// display labels refer to them.
const (
	MetricMood         = "mood"
	MetricAnxiety      = "anxiety"
	MetricSleepQuality = "sleep_quality"
	MetricEnergy       = "energy"

	MetricExercise   = "exercise"
	MetricMeditation = "meditation"
	MetricCigarettes = "cigarettes"

	MetricStress    = "stress_score"
	MetricWellbeing = "wellbeing_score"

	MetricLifeBalance = "life_balance"

	MetricSteps         = "steps"
	MetricSleepHours    = "sleep_hours"
	MetricActiveMinutes = "active_minutes"
	MetricRestingHR     = "resting_heart_rate"
)

// sessionMetric maps one session field onto a canonical metric
type sessionMetric struct {
	Metric string
	Value  func(models.SessionRecord) float64
}

var sessionMetrics = []sessionMetric{
	{MetricMood, func(s models.SessionRecord) float64 { return s.MoodScore }},
	{MetricAnxiety, func(s models.SessionRecord) float64 { return s.AnxietyScore }},
	{MetricSleepQuality, func(s models.SessionRecord) float64 { return s.SleepQuality }},
	{MetricEnergy, func(s models.SessionRecord) float64 { return s.EnergyLevel }},
}

// habitMetric declares how a habit key becomes a metric. Build habits are
// normalized to a ratio of their daily target so differently-scaled habits
// land on a comparable scale; abstain habits keep the raw count, and a
// genuine zero is a valid success value for them.
type habitMetric struct {
	Metric      string
	ZeroIsValid bool
}

var habitMetrics = map[string]habitMetric{
	"exercise":   {Metric: MetricExercise},
	"meditation": {Metric: MetricMeditation},
	"smoking":    {Metric: MetricCigarettes, ZeroIsValid: true},
}

// psychologyMetrics maps questionnaire test keys onto metrics
var psychologyMetrics = map[string]string{
	"pss":  MetricStress,
	"who5": MetricWellbeing,
}

// lifeAreaMetrics is the allowlist of rateable life areas. Each area also
// feeds the derived life_balance average.
var lifeAreaMetrics = map[string]string{
	"work":          "life_work",
	"relationships": "life_relationships",
	"health":        "life_health",
	"growth":        "life_growth",
	"leisure":       "life_leisure",
}

// healthMetric maps one device health field onto a canonical metric
type healthMetric struct {
	Metric string
	Value  func(models.HealthMetric) float64
}

var healthMetricFields = []healthMetric{
	{MetricSteps, func(h models.HealthMetric) float64 { return h.Steps }},
	{MetricSleepHours, func(h models.HealthMetric) float64 { return h.SleepHours }},
	{MetricActiveMinutes, func(h models.HealthMetric) float64 { return h.ActiveMinutes }},
	{MetricRestingHR, func(h models.HealthMetric) float64 { return h.RestingHeartRate }},
}

// CorrelationPairs is the fixed, hand-curated catalogue of pairs the
// engine is willing to evaluate. Ad-hoc pairs are never explored.
var CorrelationPairs = []models.CorrelationPair{
	{MetricA: MetricSleepQuality, MetricB: MetricMood, PairType: models.PairTypeSleepMood},
	{MetricA: MetricExercise, MetricB: MetricMood, PairType: models.PairTypeExerciseMood},
	{MetricA: MetricExercise, MetricB: MetricAnxiety, PairType: models.PairTypeExerciseAnxiety},
	{MetricA: MetricMeditation, MetricB: MetricAnxiety, PairType: models.PairTypeMeditationAnxiety},
	{MetricA: MetricSteps, MetricB: MetricMood, PairType: models.PairTypeActivityMood},
	{MetricA: MetricSleepHours, MetricB: MetricEnergy, PairType: models.PairTypeSleepEnergy},
	{MetricA: MetricStress, MetricB: MetricSleepQuality, PairType: models.PairTypeStressSleep},
	{MetricA: MetricLifeBalance, MetricB: MetricMood, PairType: models.PairTypeLifeBalanceMood},
}

// metricLabels holds the display label per metric key. Insight sentences
// are built from this table so adding a metric never touches sentence
// logic.
var metricLabels = map[string]string{
	MetricMood:           "mood",
	MetricAnxiety:        "anxiety",
	MetricSleepQuality:   "sleep quality",
	MetricEnergy:         "energy",
	MetricExercise:       "exercise",
	MetricMeditation:     "meditation",
	MetricCigarettes:     "cigarettes",
	MetricStress:         "stress",
	MetricWellbeing:      "wellbeing",
	MetricLifeBalance:    "life balance",
	MetricSteps:          "daily steps",
	MetricSleepHours:     "sleep duration",
	MetricActiveMinutes:  "active minutes",
	MetricRestingHR:      "resting heart rate",
	"life_work":          "work satisfaction",
	"life_relationships": "relationship satisfaction",
	"life_health":        "health satisfaction",
	"life_growth":        "personal growth",
	"life_leisure":       "leisure satisfaction",
}

// metricLabel returns the display label for a metric, falling back to the
// raw key for metrics added without a label.
func metricLabel(metric string) string {
	if label, ok := metricLabels[metric]; ok {
		return label
	}
	return metric
}
