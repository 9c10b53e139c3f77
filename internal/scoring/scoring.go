package scoring

import (
	"math"

	"github.com/roach88/dayscore/internal/ir"
)

// CategoryMultiplier returns the config multiplier for a good-habit category.
// Unknown categories fall back to the growth multiplier.
func CategoryMultiplier(c ir.Category, cfg ir.ScoringConfig) float64 {
	switch c {
	case ir.CategoryProductivity:
		return cfg.MultiplierProductivity
	case ir.CategoryHealth:
		return cfg.MultiplierHealth
	default:
		return cfg.MultiplierGrowth
	}
}

// MaxWeighted is the weighted sum the day would reach with every good habit
// at full points.
func MaxWeighted(habits []ir.HabitValue, cfg ir.ScoringConfig) float64 {
	sum := 0.0
	for _, h := range habits {
		sum += float64(h.Points * CategoryMultiplier(h.Category, cfg))
	}
	return sum
}

// WeightedSum is the day's achieved weighted sum.
func WeightedSum(habits []ir.HabitValue, cfg ir.ScoringConfig) float64 {
	sum := 0.0
	for _, h := range habits {
		sum += float64(h.Value * CategoryMultiplier(h.Category, cfg))
	}
	return sum
}

// PositiveScore is min(1, weighted / (max × target)), or 0 when the
// denominator is zero (no active good habits, or a zero target).
func PositiveScore(habits []ir.HabitValue, cfg ir.ScoringConfig) float64 {
	maxWeighted := MaxWeighted(habits, cfg)
	if maxWeighted == 0 {
		return 0
	}
	target := float64(maxWeighted * cfg.TargetFraction)
	if target == 0 {
		return 0
	}
	return math.Min(1, WeightedSum(habits, cfg)/target)
}

// PhoneTierPenalty returns the penalty of the highest tier reached.
// NaN and negative minutes count as zero.
func PhoneTierPenalty(minutes float64, cfg ir.ScoringConfig) float64 {
	if math.IsNaN(minutes) || minutes < 0 {
		minutes = 0
	}
	switch {
	case minutes >= cfg.PhoneT3Minutes:
		return cfg.PhoneT3Penalty
	case minutes >= cfg.PhoneT2Minutes:
		return cfg.PhoneT2Penalty
	case minutes >= cfg.PhoneT1Minutes:
		return cfg.PhoneT1Penalty
	}
	return 0
}

// RawVicePenalty sums every vice contribution plus the phone tier, uncapped.
func RawVicePenalty(vices []ir.ViceValue, phoneMinutes float64, cfg ir.ScoringConfig) float64 {
	sum := 0.0
	for _, v := range vices {
		switch v.PenaltyMode {
		case ir.PenaltyFlat:
			if v.Triggered {
				sum += v.PenaltyValue
			}
		case ir.PenaltyPerInstance:
			sum += float64(float64(v.Count) * v.PenaltyValue)
		case ir.PenaltyTiered:
			// derived from phoneMinutes below
		}
	}
	return sum + PhoneTierPenalty(phoneMinutes, cfg)
}

// VicePenalty is the raw penalty capped at vice_cap.
func VicePenalty(vices []ir.ViceValue, phoneMinutes float64, cfg ir.ScoringConfig) float64 {
	return math.Min(cfg.ViceCap, RawVicePenalty(vices, phoneMinutes, cfg))
}

// BaseScore is positive × (1 − vicePenalty).
func BaseScore(positive, vicePenalty float64) float64 {
	return float64(positive * (1 - vicePenalty))
}

// Qualifies reports whether a base score keeps the streak alive.
func Qualifies(base float64, cfg ir.ScoringConfig) bool {
	return base >= cfg.StreakThreshold
}

// NextStreak is previous+1 for a qualifying day and 0 otherwise.
// A first-ever day passes previous = -1, so it starts at 0.
func NextStreak(base float64, previous int, cfg ir.ScoringConfig) int {
	if Qualifies(base, cfg) {
		return previous + 1
	}
	return 0
}

// StreakBonus is min(streak × bonus_per_day, max_bonus).
func StreakBonus(streak int, cfg ir.ScoringConfig) float64 {
	return math.Min(float64(float64(streak)*cfg.StreakBonusPerDay), cfg.MaxStreakBonus)
}

// FinalScore is min(1, base × (1 + bonus)).
func FinalScore(base float64, streak int, cfg ir.ScoringConfig) float64 {
	return math.Min(1, float64(base*(1+StreakBonus(streak, cfg))))
}

// ComputeScores runs the whole pipeline for one day.
func ComputeScores(in ir.ScoringInput) ir.ScoringOutput {
	cfg := in.Config

	positive := PositiveScore(in.Habits, cfg)
	vice := VicePenalty(in.Vices, in.PhoneMinutes, cfg)
	base := BaseScore(positive, vice)
	streak := NextStreak(base, in.PreviousStreak, cfg)

	return ir.ScoringOutput{
		PositiveScore: positive,
		VicePenalty:   vice,
		BaseScore:     base,
		Streak:        streak,
		FinalScore:    FinalScore(base, streak, cfg),
	}
}

// Rescore recomputes only streak and final score from an already-stored base.
// The cascade uses this for every day after the edited one.
func Rescore(base float64, previous int, cfg ir.ScoringConfig) (streak int, final float64) {
	streak = NextStreak(base, previous, cfg)
	return streak, FinalScore(base, streak, cfg)
}
