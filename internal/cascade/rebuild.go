package cascade

import (
	"github.com/roach88/dayscore/internal/ir"
	"github.com/roach88/dayscore/internal/scoring"
)

// Rebuild rescores every row on or after from with freshly built inputs and
// returns a full update for each row whose stored scores differ.
//
// This is the explicit recompute path used after a catalog or config change.
// Unlike Compute it calls build for every visited row and never stops early,
// since a config change can move every day independently.
func Rebuild(from ir.Date, history []ir.DailyLogRow, build InputBuilder) []ir.CascadeUpdate {
	rows := sortByDate(history)
	updates := []ir.CascadeUpdate{}

	carry, prevDate, started := 0, ir.Date{}, false
	for i, row := range rows {
		if row.Date.Before(from) {
			continue
		}

		previous := PreviousStreak(rows, i)
		if started {
			previous = 0
			if row.Date.IsDayAfter(prevDate) {
				previous = carry
			}
		}

		out := scoring.ComputeScores(build(row, previous))
		if !matchesStored(row, out) {
			updates = append(updates, ir.CascadeUpdate{
				Date:          row.Date,
				PositiveScore: ir.Float(out.PositiveScore),
				VicePenalty:   ir.Float(out.VicePenalty),
				BaseScore:     ir.Float(out.BaseScore),
				Streak:        out.Streak,
				FinalScore:    out.FinalScore,
			})
		}
		carry, prevDate, started = out.Streak, row.Date, true
	}
	return updates
}
