package harness

import (
	"fmt"
	"math"

	"github.com/roach88/dayscore/internal/analytics"
	"github.com/roach88/dayscore/internal/cascade"
	"github.com/roach88/dayscore/internal/catalog"
	"github.com/roach88/dayscore/internal/ir"
	"github.com/roach88/dayscore/internal/scoring"
)

// snapshotPrecision is the rounding applied to floats in the snapshot, so
// golden files do not pin the last bits of a computation.
const snapshotPrecision = 1e6

// baseHabit is the single habit of the cascade builder. Its value is the
// day's base score.
const baseHabit = "base"

// correlationEpoch is the date of the first row in a correlation case.
var correlationEpoch = ir.MustParseDate("2026-01-01")

// RunSuite executes every case of a validated suite.
// Mismatches are recorded on the result; an error means the suite could not
// be run at all.
func RunSuite(s *Suite) (*Result, error) {
	result := NewResult(s.Name)
	tol := s.tolerance()

	cases := make(ir.IRArray, 0, len(s.Cases))
	for i := range s.Cases {
		c := &s.Cases[i]
		cfg, err := resolveConfig(s.Config, c.Config)
		if err != nil {
			return nil, fmt.Errorf("case %s: config: %w", c.Name, err)
		}

		var output ir.IRValue
		switch s.Kind {
		case KindScoring:
			output = runScoringCase(c, cfg, tol, result)
		case KindCascade:
			output, err = runCascadeCase(c, cfg, tol, result)
		case KindCorrelation:
			output = runCorrelationCase(c, tol, result)
		default:
			err = fmt.Errorf("unknown kind %q", s.Kind)
		}
		if err != nil {
			return nil, fmt.Errorf("case %s: %w", c.Name, err)
		}

		cases = append(cases, ir.IRObject{
			"name":   ir.IRString(c.Name),
			"output": output,
		})
	}

	snapshot := ir.IRObject{
		"suite": ir.IRString(s.Name),
		"kind":  ir.IRString(string(s.Kind)),
		"cases": cases,
	}
	out, err := ir.MarshalCanonical(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	result.Output = out
	result.OutputHash = ir.OutputHash(out)
	return result, nil
}

// ScoringInput resolves a scoring case into engine input. An entry is built
// against the default catalog; a raw input is used as given. Either way the
// case config and previous streak replace whatever the input carried.
func (c *Case) ScoringInput(cfg ir.ScoringConfig) ir.ScoringInput {
	var in ir.ScoringInput
	if c.Entry != nil {
		in = catalog.NewBuilder(catalog.DefaultHabits(), cfg).Build(*c.Entry, c.PreviousStreak)
	} else {
		in = *c.Input
	}
	in.Config = cfg
	in.PreviousStreak = c.PreviousStreak
	return in
}

// Score runs the scoring engine on a single case outside any suite. The case
// needs an entry or an input; its expectations are ignored.
func Score(c *Case) (ir.ScoringOutput, error) {
	if (c.Entry == nil) == (c.Input == nil) {
		return ir.ScoringOutput{}, fmt.Errorf("exactly one of entry and input is required")
	}
	cfg, err := resolveConfig(c.Config)
	if err != nil {
		return ir.ScoringOutput{}, fmt.Errorf("config: %w", err)
	}
	return scoring.ComputeScores(c.ScoringInput(cfg)), nil
}

func runScoringCase(c *Case, cfg ir.ScoringConfig, tol float64, result *Result) ir.IRValue {
	out := scoring.ComputeScores(c.ScoringInput(cfg))

	exp := c.Expect
	checkFloat(result, c.Name, "positive_score", exp.PositiveScore, out.PositiveScore, tol)
	checkFloat(result, c.Name, "vice_penalty", exp.VicePenalty, out.VicePenalty, tol)
	checkFloat(result, c.Name, "base_score", exp.BaseScore, out.BaseScore, tol)
	if exp.Streak != nil && *exp.Streak != out.Streak {
		result.addMismatch(c.Name, "streak", *exp.Streak, out.Streak)
	}
	checkFloat(result, c.Name, "final_score", exp.FinalScore, out.FinalScore, tol)

	return ir.IRObject{
		"positive_score": snapFloat(out.PositiveScore),
		"vice_penalty":   snapFloat(out.VicePenalty),
		"base_score":     snapFloat(out.BaseScore),
		"streak":         ir.IRInt(out.Streak),
		"final_score":    snapFloat(out.FinalScore),
	}
}

func runCascadeCase(c *Case, cfg ir.ScoringConfig, tol float64, result *Result) (ir.IRValue, error) {
	history := make([]ir.DailyLogRow, len(c.History))
	for i, day := range c.History {
		history[i] = storedRow(day)
		if day.Date == c.Edit.Date {
			history[i].Entry = baseEntry(c.Edit.Base)
		}
	}

	updates, err := cascade.Compute(c.Edit.Date, history, cfg, baseBuilder(cfg))
	if err != nil {
		return nil, err
	}

	expected := *c.Updates
	if len(expected) != len(updates) {
		result.addMismatch(c.Name, "updates", fmt.Sprintf("%d rows", len(expected)), fmt.Sprintf("%d rows", len(updates)))
	}
	for i := 0; i < len(expected) && i < len(updates); i++ {
		exp, act := expected[i], updates[i]
		field := fmt.Sprintf("updates[%d]", i)
		if exp.Date != act.Date {
			result.addMismatch(c.Name, field+".date", exp.Date, act.Date)
			continue
		}
		if exp.Streak != act.Streak {
			result.addMismatch(c.Name, field+".streak", exp.Streak, act.Streak)
		}
		checkFloat(result, c.Name, field+".final_score", &exp.FinalScore, act.FinalScore, tol)
		if exp.BaseScore != nil {
			if !act.Full() {
				result.addMismatch(c.Name, field+".base_score", *exp.BaseScore, "none")
				continue
			}
			checkFloat(result, c.Name, field+".base_score", exp.BaseScore, *act.BaseScore, tol)
		}
	}

	rows := make(ir.IRArray, len(updates))
	for i, u := range updates {
		obj := ir.IRObject{
			"date":        ir.IRString(u.Date.String()),
			"streak":      ir.IRInt(u.Streak),
			"final_score": snapFloat(u.FinalScore),
		}
		if u.Full() {
			obj["positive_score"] = snapFloat(*u.PositiveScore)
			obj["vice_penalty"] = snapFloat(*u.VicePenalty)
			obj["base_score"] = snapFloat(*u.BaseScore)
		}
		rows[i] = obj
	}
	return rows, nil
}

// baseBuilder scores a row to exactly its base habit value: one growth habit
// worth one point against a full target, and no vices.
func baseBuilder(cfg ir.ScoringConfig) cascade.InputBuilder {
	inCfg := cfg
	inCfg.MultiplierGrowth = 1
	inCfg.TargetFraction = 1
	return func(row ir.DailyLogRow, previousStreak int) ir.ScoringInput {
		return ir.ScoringInput{
			Habits: []ir.HabitValue{{
				Name:     baseHabit,
				Value:    row.Entry.Value(baseHabit),
				Points:   1,
				Category: ir.CategoryGrowth,
			}},
			Vices:          []ir.ViceValue{},
			PreviousStreak: previousStreak,
			Config:         inCfg,
		}
	}
}

func baseEntry(base float64) ir.Entry {
	return ir.Entry{Values: map[string]float64{baseHabit: base}}
}

func storedRow(day StoredDay) ir.DailyLogRow {
	row := ir.DailyLogRow{Date: day.Date}
	if day.Base == nil {
		return row
	}
	row.Entry = baseEntry(*day.Base)
	row.PositiveScore = ir.Float(*day.Base)
	row.VicePenalty = ir.Float(0)
	row.BaseScore = ir.Float(*day.Base)
	row.Streak = ir.Int(*day.Streak)
	row.FinalScore = ir.Float(*day.Final)
	return row
}

func runCorrelationCase(c *Case, tol float64, result *Result) ir.IRValue {
	habit := ir.HabitDefinition{
		Name:      "x",
		Pool:      ir.PoolGood,
		Category:  ir.CategoryGrowth,
		InputType: ir.InputNumber,
		Points:    1,
		Active:    true,
	}
	rows := make([]ir.DailyLogRow, len(c.X))
	for i, x := range c.X {
		rows[i] = ir.DailyLogRow{
			Date:       correlationEpoch.AddDays(i),
			Entry:      ir.Entry{Values: map[string]float64{habit.Name: x}},
			FinalScore: c.Y[i],
		}
	}

	res := analytics.Correlations(rows, []ir.HabitDefinition{habit})[0]

	exp := c.Correlation
	if exp.R != nil {
		if res.R == nil {
			result.addMismatch(c.Name, "r", *exp.R, "null")
		} else {
			checkFloat(result, c.Name, "r", exp.R, *res.R, tol)
		}
	}
	if exp.N != nil && *exp.N != res.N {
		result.addMismatch(c.Name, "n", *exp.N, res.N)
	}
	if exp.Flag != nil && *exp.Flag != res.Flag {
		result.addMismatch(c.Name, "flag", fmt.Sprintf("%q", *exp.Flag), fmt.Sprintf("%q", res.Flag))
	}

	obj := ir.IRObject{
		"n": ir.IRInt(res.N),
		"r": ir.IRNull{},
	}
	if res.R != nil {
		obj["r"] = snapFloat(*res.R)
	}
	if res.Flag != ir.FlagNone {
		obj["flag"] = ir.IRString(string(res.Flag))
	}
	return obj
}

func checkFloat(result *Result, caseName, field string, expected *float64, actual, tol float64) {
	if expected == nil {
		return
	}
	if math.Abs(actual-*expected) > tol {
		result.addMismatch(caseName, field, *expected, actual)
	}
}

// snapFloat rounds f to the snapshot precision.
func snapFloat(f float64) ir.IRFloat {
	return ir.IRFloat(math.Round(f*snapshotPrecision) / snapshotPrecision)
}
