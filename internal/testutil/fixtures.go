package testutil

import (
	"github.com/roach88/dayscore/internal/catalog"
	"github.com/roach88/dayscore/internal/ir"
)

// SeedInput builds a scoring input over the default catalog.
//
// good maps habit name to its resolved value (e.g. "schoolwork": 3); habits
// not named score 0. vices maps vice name to a count: flat vices trigger on
// any positive count, per-instance vices use it as the instance count.
func SeedInput(good map[string]float64, vices map[string]int, phoneMinutes float64, previousStreak int) ir.ScoringInput {
	in := ir.ScoringInput{
		Habits:         []ir.HabitValue{},
		Vices:          []ir.ViceValue{},
		PhoneMinutes:   phoneMinutes,
		PreviousStreak: previousStreak,
		Config:         catalog.DefaultConfig(),
	}
	for _, h := range catalog.DefaultHabits() {
		switch h.Pool {
		case ir.PoolGood:
			in.Habits = append(in.Habits, ir.HabitValue{
				Name: h.Name, Value: good[h.Name], Points: h.Points, Category: h.Category,
			})
		case ir.PoolVice:
			v := ir.ViceValue{Name: h.Name, PenaltyValue: h.Penalty, PenaltyMode: h.PenaltyMode}
			n := vices[h.Name]
			switch h.PenaltyMode {
			case ir.PenaltyFlat:
				v.Triggered = n > 0
			case ir.PenaltyPerInstance:
				v.Triggered = n > 0
				v.Count = n
			}
			in.Vices = append(in.Vices, v)
		}
	}
	return in
}

// AllGoodAtMax maps every default good habit to its full points.
func AllGoodAtMax() map[string]float64 {
	out := make(map[string]float64)
	for _, h := range catalog.DefaultHabits() {
		if h.Pool == ir.PoolGood {
			out[h.Name] = h.Points
		}
	}
	return out
}

// AllVices triggers every default flat vice once and sets porn to one instance.
func AllVices() map[string]int {
	out := make(map[string]int)
	for _, h := range catalog.DefaultHabits() {
		if h.Pool == ir.PoolVice && h.PenaltyMode != ir.PenaltyTiered {
			out[h.Name] = 1
		}
	}
	return out
}

// ScoredRow is a stored row carrying only the cascade-relevant scores.
func ScoredRow(date string, base float64, streak int, final float64) ir.DailyLogRow {
	return ir.DailyLogRow{
		Date:          ir.MustParseDate(date),
		PositiveScore: ir.Float(base),
		VicePenalty:   ir.Float(0),
		BaseScore:     ir.Float(base),
		Streak:        ir.Int(streak),
		FinalScore:    ir.Float(final),
	}
}

// UnscoredRow is a stored row that has never been scored.
func UnscoredRow(date string) ir.DailyLogRow {
	return ir.DailyLogRow{Date: ir.MustParseDate(date)}
}

// FixedInput returns an InputBuilder-shaped func that ignores the row and
// yields an input whose base score is exactly base: one good habit worth
// base × target of its points, no vices.
func FixedInput(base float64) func(ir.DailyLogRow, int) ir.ScoringInput {
	cfg := catalog.DefaultConfig()
	cfg.MultiplierGrowth = 1
	cfg.TargetFraction = 1
	return func(_ ir.DailyLogRow, previousStreak int) ir.ScoringInput {
		return ir.ScoringInput{
			Habits:         []ir.HabitValue{{Name: "h", Value: base, Points: 1, Category: ir.CategoryGrowth}},
			Vices:          []ir.ViceValue{},
			PreviousStreak: previousStreak,
			Config:         cfg,
		}
	}
}

// FullEntry is a raw form with every default good habit at its maximum and
// no vices. It scores 1.0 across the board.
func FullEntry() ir.Entry {
	e := ir.Entry{Values: map[string]float64{}, Labels: map[string]string{}}
	for _, h := range catalog.DefaultHabits() {
		if h.Pool != ir.PoolGood {
			continue
		}
		switch h.InputType {
		case ir.InputDropdown:
			best, bestValue := "", -1.0
			for label, v := range h.Options {
				if v > bestValue || (v == bestValue && label < best) {
					best, bestValue = label, v
				}
			}
			e.Labels[h.Name] = best
		default:
			e.Values[h.Name] = 1
		}
	}
	return e
}

// EmptyEntry is a raw form with nothing recorded. It scores 0.
func EmptyEntry() ir.Entry {
	return ir.Entry{Values: map[string]float64{}, Labels: map[string]string{}}
}
