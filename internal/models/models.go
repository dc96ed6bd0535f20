package models

import "time"

// DateFormat is the canonical day key used across the analysis engine.
// Source rows from different tables are merged per calendar day.
const DateFormat = "2006-01-02"

// User represents an authenticated Mind Mirror user
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionRecord is a completed check-in session. Scores are on a 0-10 scale
// where 0 means "not entered" (storage sentinel), never a real measurement.
type SessionRecord struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	CompletedAt  time.Time `json:"completed_at"`
	MoodScore    float64   `json:"mood_score"`
	AnxietyScore float64   `json:"anxiety_score"`
	SleepQuality float64   `json:"sleep_quality"`
	EnergyLevel  float64   `json:"energy_level"`
}

// HabitKind distinguishes habits you build up from habits you abstain from.
// For abstain habits a logged count of 0 is a genuine success signal.
type HabitKind string

const (
	HabitKindBuild   HabitKind = "build"
	HabitKindAbstain HabitKind = "abstain"
)

// HabitLog is one day's log for a single habit
type HabitLog struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Date        time.Time `json:"date"`
	HabitKey    string    `json:"habit_key"`
	Count       float64   `json:"count"`
	DailyTarget float64   `json:"daily_target"`
	HabitKind   HabitKind `json:"habit_kind"`
}

// PsychologyScore is a scored psychology questionnaire entry
type PsychologyScore struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	RecordedAt time.Time `json:"recorded_at"`
	TestKey    string    `json:"test_key"`
	Score      float64   `json:"score"`
}

// LifeAreaRating is a 0-10 satisfaction rating for one life area on one day
type LifeAreaRating struct {
	ID      string    `json:"id"`
	UserID  string    `json:"user_id"`
	Date    time.Time `json:"date"`
	AreaKey string    `json:"area_key"`
	Rating  float64   `json:"rating"`
}

// HealthMetric is one day of device health data synced from a wearable
type HealthMetric struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	Date             time.Time `json:"date"`
	Steps            float64   `json:"steps"`
	SleepHours       float64   `json:"sleep_hours"`
	RestingHeartRate float64   `json:"resting_heart_rate"`
	ActiveMinutes    float64   `json:"active_minutes"`
}

// LifeAreaScores is the per-user aggregate score per life area (0-10).
// Updated only through MergeLifeAreaScores, never mutated in place.
type LifeAreaScores struct {
	UserID        string    `json:"user_id"`
	Work          float64   `json:"work"`
	Relationships float64   `json:"relationships"`
	Health        float64   `json:"health"`
	Growth        float64   `json:"growth"`
	Leisure       float64   `json:"leisure"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// PartialLifeAreaScores carries only the areas a caller wants to change.
// Nil fields are left untouched by the merge.
type PartialLifeAreaScores struct {
	Work          *float64 `json:"work,omitempty"`
	Relationships *float64 `json:"relationships,omitempty"`
	Health        *float64 `json:"health,omitempty"`
	Growth        *float64 `json:"growth,omitempty"`
	Leisure       *float64 `json:"leisure,omitempty"`
}

// MergeLifeAreaScores returns a new LifeAreaScores with only the fields
// present in updates overwritten. The old value is never modified.
func MergeLifeAreaScores(old LifeAreaScores, updates PartialLifeAreaScores) LifeAreaScores {
	merged := old
	if updates.Work != nil {
		merged.Work = *updates.Work
	}
	if updates.Relationships != nil {
		merged.Relationships = *updates.Relationships
	}
	if updates.Health != nil {
		merged.Health = *updates.Health
	}
	if updates.Growth != nil {
		merged.Growth = *updates.Growth
	}
	if updates.Leisure != nil {
		merged.Leisure = *updates.Leisure
	}
	return merged
}
