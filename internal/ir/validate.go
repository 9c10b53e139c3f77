package ir

import (
	"fmt"
	"math"
)

// ValidationError represents a validation error with field path and message.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks a habit definition against the catalog data model.
// Returns all errors (not fail-fast).
func (h *HabitDefinition) Validate() []ValidationError {
	var errs []ValidationError
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: h.Name + "." + field, Message: fmt.Sprintf(format, args...)})
	}

	if h.Name == "" {
		errs = append(errs, ValidationError{Field: "name", Message: "name is required"})
	}
	if !h.Pool.Valid() {
		add("pool", "invalid pool %q", h.Pool)
	}
	if !h.InputType.Valid() {
		add("input_type", "invalid input type %q", h.InputType)
	}

	switch h.Pool {
	case PoolGood:
		if !h.Category.Valid() {
			add("category", "good habit needs a category, got %q", h.Category)
		}
		if h.Points < 1 || h.Points != math.Trunc(h.Points) {
			add("points", "good habit points must be a whole number >= 1, got %v", h.Points)
		}
		if h.Penalty != 0 {
			add("penalty", "good habit penalty must be 0, got %v", h.Penalty)
		}
	case PoolVice:
		if h.Category != CategoryNone {
			add("category", "vice must not have a category, got %q", h.Category)
		}
		if h.Points != 0 {
			add("points", "vice points must be 0, got %v", h.Points)
		}
		if h.Penalty < 0 || h.Penalty > 1 {
			add("penalty", "penalty must be in [0,1], got %v", h.Penalty)
		}
		if !h.PenaltyMode.Valid() {
			add("penalty_mode", "invalid penalty mode %q", h.PenaltyMode)
		}
	}

	if h.InputType == InputDropdown {
		zeros := 0
		for _, v := range h.Options {
			if v == 0 {
				zeros++
			}
		}
		if zeros != 1 {
			add("options", "dropdown needs exactly one option valued 0, found %d", zeros)
		}
	}

	return errs
}

// ValidateCatalog checks every definition plus the cross-habit rules:
// unique names, at most one active tiered vice, at least one active good habit.
func ValidateCatalog(habits []HabitDefinition) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]bool, len(habits))
	tiered, good := 0, 0

	for i := range habits {
		h := &habits[i]
		errs = append(errs, h.Validate()...)
		if seen[h.Name] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("habits[%d].name", i),
				Message: fmt.Sprintf("duplicate habit name %q", h.Name),
			})
		}
		seen[h.Name] = true
		if !h.Active {
			continue
		}
		if h.Pool == PoolVice && h.PenaltyMode == PenaltyTiered {
			tiered++
		}
		if h.Pool == PoolGood {
			good++
		}
	}

	if tiered > 1 {
		errs = append(errs, ValidationError{Field: "habits", Message: fmt.Sprintf("at most one active tiered vice allowed, found %d", tiered)})
	}
	if good == 0 {
		errs = append(errs, ValidationError{Field: "habits", Message: "at least one active good habit is required"})
	}
	return errs
}

// Validate checks config ranges and tier ordering.
func (c *ScoringConfig) Validate() []ValidationError {
	var errs []ValidationError
	unit := func(field string, v float64) {
		if v < 0 || v > 1 {
			errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf("must be in [0,1], got %v", v)})
		}
	}

	for _, f := range []struct {
		field string
		v     float64
	}{
		{"multiplier_productivity", c.MultiplierProductivity},
		{"multiplier_health", c.MultiplierHealth},
		{"multiplier_growth", c.MultiplierGrowth},
		{"streak_bonus_per_day", c.StreakBonusPerDay},
		{"max_streak_bonus", c.MaxStreakBonus},
	} {
		if f.v < 0 {
			errs = append(errs, ValidationError{Field: f.field, Message: fmt.Sprintf("must be >= 0, got %v", f.v)})
		}
	}
	if c.TargetFraction <= 0 || c.TargetFraction > 1 {
		errs = append(errs, ValidationError{Field: "target_fraction", Message: fmt.Sprintf("must be in (0,1], got %v", c.TargetFraction)})
	}
	unit("vice_cap", c.ViceCap)
	unit("streak_threshold", c.StreakThreshold)
	unit("phone_t1_penalty", c.PhoneT1Penalty)
	unit("phone_t2_penalty", c.PhoneT2Penalty)
	unit("phone_t3_penalty", c.PhoneT3Penalty)

	if !(c.PhoneT1Minutes < c.PhoneT2Minutes && c.PhoneT2Minutes < c.PhoneT3Minutes) {
		errs = append(errs, ValidationError{Field: "phone_t*_min", Message: "tier thresholds must be strictly increasing"})
	}
	if !(c.PhoneT1Penalty < c.PhoneT2Penalty && c.PhoneT2Penalty < c.PhoneT3Penalty) {
		errs = append(errs, ValidationError{Field: "phone_t*_penalty", Message: "tier penalties must be strictly increasing"})
	}
	return errs
}
