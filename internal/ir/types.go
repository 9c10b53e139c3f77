package ir

import "time"

// HabitDefinition is one entry in the habit catalog.
type HabitDefinition struct {
	ID          string             `json:"id,omitempty" yaml:"id,omitempty"`
	Name        string             `json:"name" yaml:"name"`
	DisplayName string             `json:"display_name" yaml:"display_name"`
	Pool        Pool               `json:"pool" yaml:"pool"`
	Category    Category           `json:"category,omitempty" yaml:"category,omitempty"`
	InputType   InputType          `json:"input_type" yaml:"input_type"`
	Points      float64            `json:"points" yaml:"points"`
	Penalty     float64            `json:"penalty" yaml:"penalty"`
	PenaltyMode PenaltyMode        `json:"penalty_mode,omitempty" yaml:"penalty_mode,omitempty"`
	Options     map[string]float64 `json:"options,omitempty" yaml:"options,omitempty"`
	SortOrder   int                `json:"sort_order" yaml:"sort_order"`
	Active      bool               `json:"active" yaml:"active"`
	RetiredAt   *time.Time         `json:"retired_at,omitempty" yaml:"retired_at,omitempty"`
}

// OptionValue resolves a dropdown label. Unknown labels resolve to 0.
func (h HabitDefinition) OptionValue(label string) float64 {
	v, ok := h.Options[label]
	if !ok {
		return 0
	}
	return v
}

// ScoringConfig holds the singleton scoring tunables.
type ScoringConfig struct {
	MultiplierProductivity float64 `json:"multiplier_productivity" yaml:"multiplier_productivity"`
	MultiplierHealth       float64 `json:"multiplier_health" yaml:"multiplier_health"`
	MultiplierGrowth       float64 `json:"multiplier_growth" yaml:"multiplier_growth"`
	TargetFraction         float64 `json:"target_fraction" yaml:"target_fraction"`
	ViceCap                float64 `json:"vice_cap" yaml:"vice_cap"`
	StreakThreshold        float64 `json:"streak_threshold" yaml:"streak_threshold"`
	StreakBonusPerDay      float64 `json:"streak_bonus_per_day" yaml:"streak_bonus_per_day"`
	MaxStreakBonus         float64 `json:"max_streak_bonus" yaml:"max_streak_bonus"`
	PhoneT1Minutes         float64 `json:"phone_t1_min" yaml:"phone_t1_min"`
	PhoneT2Minutes         float64 `json:"phone_t2_min" yaml:"phone_t2_min"`
	PhoneT3Minutes         float64 `json:"phone_t3_min" yaml:"phone_t3_min"`
	PhoneT1Penalty         float64 `json:"phone_t1_penalty" yaml:"phone_t1_penalty"`
	PhoneT2Penalty         float64 `json:"phone_t2_penalty" yaml:"phone_t2_penalty"`
	PhoneT3Penalty         float64 `json:"phone_t3_penalty" yaml:"phone_t3_penalty"`
}

// Entry is the raw form submission for one date.
// Checkbox and number habits live in Values, dropdown habits in Labels.
type Entry struct {
	Values map[string]float64 `json:"values,omitempty" yaml:"values,omitempty"`
	Labels map[string]string  `json:"labels,omitempty" yaml:"labels,omitempty"`
}

// Value returns the raw number recorded for a habit, 0 when absent.
func (e Entry) Value(name string) float64 {
	return e.Values[name]
}

// Label returns the dropdown label recorded for a habit, "" when absent.
func (e Entry) Label(name string) string {
	return e.Labels[name]
}

// DailyLogRow is one stored calendar day.
// Score fields are nil until the day has been scored.
type DailyLogRow struct {
	Date          Date      `json:"date" yaml:"date"`
	Entry         Entry     `json:"entry" yaml:"entry"`
	PositiveScore *float64  `json:"positive_score" yaml:"positive_score"`
	VicePenalty   *float64  `json:"vice_penalty" yaml:"vice_penalty"`
	BaseScore     *float64  `json:"base_score" yaml:"base_score"`
	Streak        *int      `json:"streak" yaml:"streak"`
	FinalScore    *float64  `json:"final_score" yaml:"final_score"`
	LoggedAt      time.Time `json:"logged_at,omitzero" yaml:"-"`
	LastModified  time.Time `json:"last_modified,omitzero" yaml:"-"`
}

// HabitValue is one active good habit as seen by the scoring engine.
type HabitValue struct {
	Name     string   `json:"name" yaml:"name"`
	Value    float64  `json:"value" yaml:"value"`
	Points   float64  `json:"points" yaml:"points"`
	Category Category `json:"category" yaml:"category"`
}

// ViceValue is one active vice as seen by the scoring engine.
// Count is only meaningful for PenaltyPerInstance.
type ViceValue struct {
	Name         string      `json:"name" yaml:"name"`
	Triggered    bool        `json:"triggered" yaml:"triggered"`
	Count        int         `json:"count,omitempty" yaml:"count,omitempty"`
	PenaltyValue float64     `json:"penalty_value" yaml:"penalty_value"`
	PenaltyMode  PenaltyMode `json:"penalty_mode" yaml:"penalty_mode"`
}

// ScoringInput is everything the scoring engine needs for one day.
type ScoringInput struct {
	Habits         []HabitValue  `json:"habits" yaml:"habits"`
	Vices          []ViceValue   `json:"vices" yaml:"vices"`
	PhoneMinutes   float64       `json:"phone_minutes" yaml:"phone_minutes"`
	PreviousStreak int           `json:"previous_streak" yaml:"previous_streak"`
	Config         ScoringConfig `json:"config" yaml:"config"`
}

// ScoringOutput holds the five computed scores.
type ScoringOutput struct {
	PositiveScore float64 `json:"positive_score" yaml:"positive_score"`
	VicePenalty   float64 `json:"vice_penalty" yaml:"vice_penalty"`
	BaseScore     float64 `json:"base_score" yaml:"base_score"`
	Streak        int     `json:"streak" yaml:"streak"`
	FinalScore    float64 `json:"final_score" yaml:"final_score"`
}

// CascadeUpdate is one stored day whose scores must change.
// PositiveScore, VicePenalty and BaseScore are set only on the edited day.
type CascadeUpdate struct {
	Date          Date     `json:"date" yaml:"date"`
	PositiveScore *float64 `json:"positive_score,omitempty" yaml:"positive_score,omitempty"`
	VicePenalty   *float64 `json:"vice_penalty,omitempty" yaml:"vice_penalty,omitempty"`
	BaseScore     *float64 `json:"base_score,omitempty" yaml:"base_score,omitempty"`
	Streak        int      `json:"streak" yaml:"streak"`
	FinalScore    float64  `json:"final_score" yaml:"final_score"`
}

// Full reports whether the update carries all five scores.
func (u CascadeUpdate) Full() bool {
	return u.PositiveScore != nil && u.VicePenalty != nil && u.BaseScore != nil
}

// CorrelationResult is the Pearson correlation of one habit against final score.
// R is nil when there is not enough data.
type CorrelationResult struct {
	Habit string          `json:"habit" yaml:"habit"`
	R     *float64        `json:"r" yaml:"r"`
	N     int             `json:"n" yaml:"n"`
	Flag  CorrelationFlag `json:"flag,omitempty" yaml:"flag,omitempty"`
}

// Float returns a pointer to v. Used for the nullable score fields.
func Float(v float64) *float64 {
	return &v
}

// Int returns a pointer to v.
func Int(v int) *int {
	return &v
}
