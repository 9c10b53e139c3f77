package cascade

import (
	"slices"

	"github.com/roach88/dayscore/internal/ir"
	"github.com/roach88/dayscore/internal/scoring"
)

// InputBuilder resolves a stored row into scoring input.
// Compute calls it exactly once, for the edited row.
type InputBuilder func(row ir.DailyLogRow, previousStreak int) ir.ScoringInput

// Compute rescores the edited date and walks forward until the streak chain
// reconverges. history may be in any order and is not modified.
//
// The edited day is scored with the config the builder stamps into its input;
// downstream days are rescored with cfg. Callers pass the same snapshot to both.
//
// Returns an empty (non-nil) slice when the edit changes nothing, and a
// NOT_FOUND *Error when edited is not in history.
func Compute(edited ir.Date, history []ir.DailyLogRow, cfg ir.ScoringConfig, build InputBuilder) ([]ir.CascadeUpdate, error) {
	rows := sortByDate(history)

	idx := slices.IndexFunc(rows, func(r ir.DailyLogRow) bool { return r.Date == edited })
	if idx < 0 {
		return nil, NewNotFoundError(edited)
	}

	row := rows[idx]
	out := scoring.ComputeScores(build(row, PreviousStreak(rows, idx)))
	if matchesStored(row, out) {
		return []ir.CascadeUpdate{}, nil
	}

	first := ir.CascadeUpdate{
		Date:          row.Date,
		PositiveScore: ir.Float(out.PositiveScore),
		VicePenalty:   ir.Float(out.VicePenalty),
		BaseScore:     ir.Float(out.BaseScore),
		Streak:        out.Streak,
		FinalScore:    out.FinalScore,
	}
	return Walk(rows[idx+1:], row.Date, out.Streak, cfg, []ir.CascadeUpdate{first}), nil
}

// PreviousStreak is the streak fed into rows[idx]: -1 with no earlier row,
// the earlier row's stored streak (0 if nil) when it is exactly one day
// before, and 0 after a gap. rows must be sorted ascending.
func PreviousStreak(rows []ir.DailyLogRow, idx int) int {
	if idx == 0 {
		return -1
	}
	prev := rows[idx-1]
	if !rows[idx].Date.IsDayAfter(prev.Date) || prev.Streak == nil {
		return 0
	}
	return *prev.Streak
}

// walkState is the fold accumulator.
type walkState struct {
	carry    int
	prevDate ir.Date
	updates  []ir.CascadeUpdate
}

// step folds one stored row into the state. done reports that the walk halts
// at this row, which then contributes no update.
func step(st walkState, row ir.DailyLogRow, cfg ir.ScoringConfig) (next walkState, done bool) {
	if row.BaseScore == nil {
		return st, true
	}

	previous := 0
	if row.Date.IsDayAfter(st.prevDate) {
		previous = st.carry
	}

	streak, final := scoring.Rescore(*row.BaseScore, previous, cfg)
	if row.Streak != nil && *row.Streak == streak && row.FinalScore != nil && *row.FinalScore == final {
		return st, true
	}

	return walkState{
		carry:    streak,
		prevDate: row.Date,
		updates:  append(st.updates, ir.CascadeUpdate{Date: row.Date, Streak: streak, FinalScore: final}),
	}, false
}

// Walk folds forward over rows, which must be sorted ascending and start
// after anchor. anchorStreak is the freshly computed streak of the anchor day.
// The returned slice is updates with any downstream changes appended.
func Walk(rows []ir.DailyLogRow, anchor ir.Date, anchorStreak int, cfg ir.ScoringConfig, updates []ir.CascadeUpdate) []ir.CascadeUpdate {
	st := walkState{carry: anchorStreak, prevDate: anchor, updates: updates}
	for _, row := range rows {
		next, done := step(st, row, cfg)
		if done {
			break
		}
		st = next
	}
	return st.updates
}

// matchesStored reports whether all five computed scores equal the stored
// ones exactly. A nil stored score never matches.
func matchesStored(row ir.DailyLogRow, out ir.ScoringOutput) bool {
	return row.PositiveScore != nil && *row.PositiveScore == out.PositiveScore &&
		row.VicePenalty != nil && *row.VicePenalty == out.VicePenalty &&
		row.BaseScore != nil && *row.BaseScore == out.BaseScore &&
		row.Streak != nil && *row.Streak == out.Streak &&
		row.FinalScore != nil && *row.FinalScore == out.FinalScore
}

// sortByDate returns a copy of rows sorted ascending by date.
func sortByDate(rows []ir.DailyLogRow) []ir.DailyLogRow {
	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, func(a, b ir.DailyLogRow) int {
		return a.Date.Compare(b.Date)
	})
	return sorted
}
