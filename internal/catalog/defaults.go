package catalog

import "github.com/roach88/dayscore/internal/ir"

// DefaultConfig returns the built-in scoring tunables.
func DefaultConfig() ir.ScoringConfig {
	return ir.ScoringConfig{
		MultiplierProductivity: 1.5,
		MultiplierHealth:       1.3,
		MultiplierGrowth:       1.0,
		TargetFraction:         0.85,
		ViceCap:                0.40,
		StreakThreshold:        0.65,
		StreakBonusPerDay:      0.01,
		MaxStreakBonus:         0.10,
		PhoneT1Minutes:         61,
		PhoneT2Minutes:         181,
		PhoneT3Minutes:         301,
		PhoneT1Penalty:         0.03,
		PhoneT2Penalty:         0.07,
		PhoneT3Penalty:         0.12,
	}
}

func good(order int, name, display string, cat ir.Category, points float64) ir.HabitDefinition {
	return ir.HabitDefinition{
		Name:        name,
		DisplayName: display,
		Pool:        ir.PoolGood,
		Category:    cat,
		InputType:   ir.InputCheckbox,
		Points:      points,
		SortOrder:   order,
		Active:      true,
	}
}

func dropdown(order int, name, display string, cat ir.Category, points float64, options map[string]float64) ir.HabitDefinition {
	h := good(order, name, display, cat, points)
	h.InputType = ir.InputDropdown
	h.Options = options
	return h
}

func vice(order int, name, display string, input ir.InputType, mode ir.PenaltyMode, penalty float64) ir.HabitDefinition {
	return ir.HabitDefinition{
		Name:        name,
		DisplayName: display,
		Pool:        ir.PoolVice,
		InputType:   input,
		Penalty:     penalty,
		PenaltyMode: mode,
		SortOrder:   order,
		Active:      true,
	}
}

// DefaultHabits returns the built-in catalog: 13 good habits and 9 vices.
// A fresh slice is returned on every call.
func DefaultHabits() []ir.HabitDefinition {
	return []ir.HabitDefinition{
		good(1, "schoolwork", "Schoolwork", ir.CategoryProductivity, 3),
		good(2, "personal_project", "Personal Project", ir.CategoryProductivity, 3),
		good(3, "classes", "Classes", ir.CategoryProductivity, 2),
		good(4, "job_search", "Job Search", ir.CategoryProductivity, 2),
		good(5, "gym", "Gym", ir.CategoryHealth, 3),
		good(6, "sleep_7_9h", "Sleep 7-9h", ir.CategoryHealth, 2),
		good(7, "wake_8am", "Wake by 8am", ir.CategoryHealth, 1),
		good(8, "supplements", "Supplements", ir.CategoryHealth, 1),
		dropdown(9, "meal_quality", "Meal Quality", ir.CategoryHealth, 3, map[string]float64{
			"Poor": 0, "Okay": 1, "Good": 2, "Great": 3,
		}),
		good(10, "stretching", "Stretching", ir.CategoryHealth, 1),
		good(11, "meditate", "Meditate", ir.CategoryGrowth, 1),
		good(12, "read", "Read", ir.CategoryGrowth, 1),
		dropdown(13, "social", "Social", ir.CategoryGrowth, 2, map[string]float64{
			"None": 0, "Brief/Text": 0.5, "Casual Hangout": 1, "Meaningful Connection": 2,
		}),

		vice(1, "porn", "Porn", ir.InputNumber, ir.PenaltyPerInstance, 0.25),
		vice(2, "masturbate", "Masturbate", ir.InputCheckbox, ir.PenaltyFlat, 0.10),
		vice(3, "weed", "Weed", ir.InputCheckbox, ir.PenaltyFlat, 0.12),
		vice(4, "skip_class", "Skip Class", ir.InputCheckbox, ir.PenaltyFlat, 0.08),
		vice(5, "binged_content", "Binged Content", ir.InputCheckbox, ir.PenaltyFlat, 0.07),
		vice(6, "gaming_1h", "Gaming 1h+", ir.InputCheckbox, ir.PenaltyFlat, 0.06),
		vice(7, "past_12am", "Past 12am", ir.InputCheckbox, ir.PenaltyFlat, 0.05),
		vice(8, "late_wake", "Late Wake", ir.InputCheckbox, ir.PenaltyFlat, 0.03),
		vice(9, "phone_use", "Phone Use (min)", ir.InputNumber, ir.PenaltyTiered, 0),
	}
}
