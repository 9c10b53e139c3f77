package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func goodHabit(name string) HabitDefinition {
	return HabitDefinition{
		Name: name, Pool: PoolGood, Category: CategoryHealth,
		InputType: InputCheckbox, Points: 1, Active: true,
	}
}

func viceHabit(name string, mode PenaltyMode) HabitDefinition {
	return HabitDefinition{
		Name: name, Pool: PoolVice, InputType: InputCheckbox,
		Penalty: 0.1, PenaltyMode: mode, Active: true,
	}
}

func TestHabitValidateValid(t *testing.T) {
	h := goodHabit("gym")
	assert.Empty(t, h.Validate())

	v := viceHabit("weed", PenaltyFlat)
	assert.Empty(t, v.Validate())
}

func TestHabitValidateRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(h *HabitDefinition)
		field  string
	}{
		{"bad pool", func(h *HabitDefinition) { h.Pool = "meh" }, "gym.pool"},
		{"bad input", func(h *HabitDefinition) { h.InputType = "slider" }, "gym.input_type"},
		{"good without category", func(h *HabitDefinition) { h.Category = CategoryNone }, "gym.category"},
		{"good with zero points", func(h *HabitDefinition) { h.Points = 0 }, "gym.points"},
		{"good with fractional points", func(h *HabitDefinition) { h.Points = 1.5 }, "gym.points"},
		{"good with penalty", func(h *HabitDefinition) { h.Penalty = 0.1 }, "gym.penalty"},
		{"dropdown without zero option", func(h *HabitDefinition) {
			h.InputType = InputDropdown
			h.Options = map[string]float64{"Good": 1, "Great": 2}
		}, "gym.options"},
		{"dropdown with two zero options", func(h *HabitDefinition) {
			h.InputType = InputDropdown
			h.Options = map[string]float64{"None": 0, "Nope": 0, "Great": 2}
		}, "gym.options"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := goodHabit("gym")
			tt.mutate(&h)
			errs := h.Validate()
			if assert.NotEmpty(t, errs) {
				assert.Equal(t, tt.field, errs[0].Field)
			}
		})
	}
}

func TestViceValidateRules(t *testing.T) {
	v := viceHabit("porn", PenaltyPerInstance)
	v.Points = 2
	v.Penalty = 1.5
	v.Category = CategoryHealth

	fields := make([]string, 0)
	for _, e := range v.Validate() {
		fields = append(fields, e.Field)
	}
	assert.ElementsMatch(t, []string{"porn.category", "porn.points", "porn.penalty"}, fields)

	bad := viceHabit("x", "sometimes")
	assert.NotEmpty(t, bad.Validate())
}

func TestValidateCatalog(t *testing.T) {
	ok := []HabitDefinition{goodHabit("gym"), viceHabit("phone_use", PenaltyTiered)}
	assert.Empty(t, ValidateCatalog(ok))

	twoTiered := append(ok, viceHabit("tv", PenaltyTiered))
	errs := ValidateCatalog(twoTiered)
	if assert.Len(t, errs, 1) {
		assert.Contains(t, errs[0].Message, "tiered")
	}

	retired := viceHabit("tv", PenaltyTiered)
	retired.Active = false
	assert.Empty(t, ValidateCatalog(append(ok, retired)), "retired tiered vice does not count")

	noGood := []HabitDefinition{viceHabit("weed", PenaltyFlat)}
	errs = ValidateCatalog(noGood)
	if assert.Len(t, errs, 1) {
		assert.Contains(t, errs[0].Message, "good habit")
	}

	dup := []HabitDefinition{goodHabit("gym"), goodHabit("gym")}
	errs = ValidateCatalog(dup)
	if assert.Len(t, errs, 1) {
		assert.Contains(t, errs[0].Message, "duplicate")
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := ScoringConfig{
		MultiplierProductivity: 1.5, MultiplierHealth: 1.3, MultiplierGrowth: 1,
		TargetFraction: 0.85, ViceCap: 0.4, StreakThreshold: 0.65,
		StreakBonusPerDay: 0.01, MaxStreakBonus: 0.1,
		PhoneT1Minutes: 61, PhoneT2Minutes: 181, PhoneT3Minutes: 301,
		PhoneT1Penalty: 0.03, PhoneT2Penalty: 0.07, PhoneT3Penalty: 0.12,
	}
	assert.Empty(t, cfg.Validate())

	bad := cfg
	bad.ViceCap = 1.2
	bad.PhoneT2Minutes = 400
	bad.TargetFraction = 0
	fields := make([]string, 0)
	for _, e := range bad.Validate() {
		fields = append(fields, e.Field)
	}
	assert.Equal(t, []string{"target_fraction", "vice_cap", "phone_t*_min"}, fields)
}
