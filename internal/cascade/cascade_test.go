package cascade

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/dayscore/internal/catalog"
	"github.com/roach88/dayscore/internal/ir"
	"github.com/roach88/dayscore/internal/scoring"
	"github.com/roach88/dayscore/internal/testutil"
)

type day struct {
	date string
	base float64
}

// storedHistory builds rows whose stored streak and final score are exactly
// what the scoring formulas produce, honoring day-one and gap rules.
func storedHistory(days ...day) []ir.DailyLogRow {
	cfg := catalog.DefaultConfig()
	rows := make([]ir.DailyLogRow, 0, len(days))
	for i, d := range days {
		date := ir.MustParseDate(d.date)
		previous := -1
		if i > 0 {
			previous = 0
			if date.IsDayAfter(rows[i-1].Date) {
				previous = *rows[i-1].Streak
			}
		}
		streak, final := scoring.Rescore(d.base, previous, cfg)
		rows = append(rows, testutil.ScoredRow(d.date, d.base, streak, final))
	}
	return rows
}

func streaks(rows []ir.DailyLogRow) []int {
	out := make([]int, len(rows))
	for i, r := range rows {
		out[i] = *r.Streak
	}
	return out
}

func dates(updates []ir.CascadeUpdate) []string {
	out := make([]string, len(updates))
	for i, u := range updates {
		out[i] = u.Date.String()
	}
	return out
}

func TestCompute_EditBreaksChain(t *testing.T) {
	history := storedHistory(
		day{"2026-02-01", 0.70},
		day{"2026-02-02", 0.70},
		day{"2026-02-03", 0.70},
		day{"2026-02-04", 0.72},
		day{"2026-02-05", 0.68},
	)
	require.Equal(t, []int{0, 1, 2, 3, 4}, streaks(history))
	assert.InDelta(t, 0.7416, *history[3].FinalScore, 1e-9)
	assert.InDelta(t, 0.7072, *history[4].FinalScore, 1e-9)

	cfg := catalog.DefaultConfig()
	updates, err := Compute(ir.MustParseDate("2026-02-03"), history, cfg, testutil.FixedInput(0.60))
	require.NoError(t, err)
	require.Equal(t, []string{"2026-02-03", "2026-02-04", "2026-02-05"}, dates(updates))

	edited := updates[0]
	require.True(t, edited.Full())
	assert.Equal(t, 0.60, *edited.PositiveScore)
	assert.Equal(t, 0.0, *edited.VicePenalty)
	assert.Equal(t, 0.60, *edited.BaseScore)
	assert.Equal(t, 0, edited.Streak)
	assert.InDelta(t, 0.60, edited.FinalScore, 1e-9)

	assert.False(t, updates[1].Full(), "downstream days carry only streak and final")
	assert.Equal(t, 1, updates[1].Streak)
	assert.InDelta(t, 0.7272, updates[1].FinalScore, 1e-9)
	assert.Equal(t, 2, updates[2].Streak)
	assert.InDelta(t, 0.6936, updates[2].FinalScore, 1e-9)
}

func TestCompute_EditRestoresChain(t *testing.T) {
	history := storedHistory(
		day{"2026-02-01", 0.75},
		day{"2026-02-02", 0.60},
		day{"2026-02-03", 0.70},
		day{"2026-02-04", 0.72},
		day{"2026-02-05", 0.68},
	)
	require.Equal(t, []int{0, 0, 1, 2, 3}, streaks(history), "a non-qualifying day resets, the next one starts at 1")

	updates, err := Compute(ir.MustParseDate("2026-02-02"), history, catalog.DefaultConfig(), testutil.FixedInput(0.75))
	require.NoError(t, err)
	require.Len(t, updates, 4)

	want := []struct {
		streak int
		final  float64
	}{{1, 0.7575}, {2, 0.714}, {3, 0.7416}, {4, 0.7072}}
	for i, w := range want {
		assert.Equal(t, w.streak, updates[i].Streak, "update %d", i)
		assert.InDelta(t, w.final, updates[i].FinalScore, 1e-9, "update %d", i)
	}
}

func TestCompute_NoChangeIsEmpty(t *testing.T) {
	history := storedHistory(
		day{"2026-02-01", 0.70},
		day{"2026-02-02", 0.70},
		day{"2026-02-03", 0.70},
	)

	updates, err := Compute(ir.MustParseDate("2026-02-02"), history, catalog.DefaultConfig(), testutil.FixedInput(0.70))
	require.NoError(t, err)
	assert.NotNil(t, updates)
	assert.Empty(t, updates)
}

func TestCompute_NotFound(t *testing.T) {
	history := storedHistory(day{"2026-02-01", 0.70})

	_, err := Compute(ir.MustParseDate("2026-03-01"), history, catalog.DefaultConfig(), testutil.FixedInput(0.9))
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.True(t, IsNotFound(fmt.Errorf("apply edit: %w", err)), "wrapped errors still match")
	assert.Contains(t, err.Error(), "2026-03-01")
	assert.False(t, IsNotFound(fmt.Errorf("other")))
}

func TestCompute_GapIsolatesDownstream(t *testing.T) {
	history := storedHistory(
		day{"2026-02-01", 0.70},
		day{"2026-02-02", 0.70},
		day{"2026-02-03", 0.70},
		day{"2026-02-06", 0.70},
		day{"2026-02-07", 0.70},
	)
	require.Equal(t, []int{0, 1, 2, 1, 2}, streaks(history), "gap resets to zero, then qualifies")

	updates, err := Compute(ir.MustParseDate("2026-02-03"), history, catalog.DefaultConfig(), testutil.FixedInput(0.60))
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-02-03"}, dates(updates), "first row after the gap already converges")
}

func TestCompute_NonQualifyingDayStopsWalk(t *testing.T) {
	history := storedHistory(
		day{"2026-02-01", 0.70},
		day{"2026-02-02", 0.70},
		day{"2026-02-03", 0.70},
		day{"2026-02-04", 0.50},
		day{"2026-02-05", 0.70},
	)
	require.Equal(t, []int{0, 1, 2, 0, 1}, streaks(history))

	updates, err := Compute(ir.MustParseDate("2026-02-02"), history, catalog.DefaultConfig(), testutil.FixedInput(0.60))
	require.NoError(t, err)
	// 2026-02-04 stays at streak 0 whatever precedes it, so the walk stops there.
	require.Equal(t, []string{"2026-02-02", "2026-02-03"}, dates(updates))
	assert.Equal(t, 0, updates[0].Streak)
	assert.Equal(t, 1, updates[1].Streak)
	assert.InDelta(t, 0.707, updates[1].FinalScore, 1e-9)
}

func TestCompute_UnscoredDayHaltsWalk(t *testing.T) {
	history := storedHistory(
		day{"2026-02-01", 0.70},
		day{"2026-02-02", 0.70},
		day{"2026-02-03", 0.70},
	)
	history = append(history, testutil.UnscoredRow("2026-02-04"))
	history = append(history, testutil.ScoredRow("2026-02-05", 0.70, 3, 0.721))

	updates, err := Compute(ir.MustParseDate("2026-02-02"), history, catalog.DefaultConfig(), testutil.FixedInput(0.60))
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-02-02", "2026-02-03"}, dates(updates))
}

func TestCompute_PreviousStreakRules(t *testing.T) {
	cfg := catalog.DefaultConfig()

	t.Run("first day uses minus one", func(t *testing.T) {
		history := []ir.DailyLogRow{testutil.UnscoredRow("2026-02-01")}
		updates, err := Compute(ir.MustParseDate("2026-02-01"), history, cfg, testutil.FixedInput(0.9))
		require.NoError(t, err)
		require.Len(t, updates, 1)
		assert.Equal(t, 0, updates[0].Streak)
	})

	t.Run("predecessor without streak counts as zero", func(t *testing.T) {
		history := []ir.DailyLogRow{testutil.UnscoredRow("2026-02-01"), testutil.UnscoredRow("2026-02-02")}
		updates, err := Compute(ir.MustParseDate("2026-02-02"), history, cfg, testutil.FixedInput(0.9))
		require.NoError(t, err)
		require.Len(t, updates, 1)
		assert.Equal(t, 1, updates[0].Streak)
	})

	t.Run("gap before edited day counts as zero", func(t *testing.T) {
		history := storedHistory(day{"2026-02-01", 0.9}, day{"2026-02-02", 0.9})
		history = append(history, testutil.UnscoredRow("2026-02-05"))
		updates, err := Compute(ir.MustParseDate("2026-02-05"), history, cfg, testutil.FixedInput(0.9))
		require.NoError(t, err)
		require.Len(t, updates, 1)
		assert.Equal(t, 1, updates[0].Streak)
	})

	t.Run("consecutive predecessor passes its stored streak", func(t *testing.T) {
		history := storedHistory(day{"2026-02-01", 0.9}, day{"2026-02-02", 0.9}, day{"2026-02-03", 0.9})
		history = append(history, testutil.UnscoredRow("2026-02-04"))
		updates, err := Compute(ir.MustParseDate("2026-02-04"), history, cfg, testutil.FixedInput(0.9))
		require.NoError(t, err)
		require.Len(t, updates, 1)
		assert.Equal(t, 3, updates[0].Streak)
	})
}

func TestCompute_BuildsOnlyTheEditedRow(t *testing.T) {
	history := storedHistory(
		day{"2026-02-01", 0.70},
		day{"2026-02-02", 0.70},
		day{"2026-02-03", 0.70},
		day{"2026-02-04", 0.70},
	)

	calls := 0
	var seen []string
	build := func(row ir.DailyLogRow, previous int) ir.ScoringInput {
		calls++
		seen = append(seen, row.Date.String())
		return testutil.FixedInput(0.2)(row, previous)
	}

	updates, err := Compute(ir.MustParseDate("2026-02-02"), history, catalog.DefaultConfig(), build)
	require.NoError(t, err)
	require.Equal(t, []string{"2026-02-02", "2026-02-03", "2026-02-04"}, dates(updates))
	assert.Equal(t, []int{1, 2}, []int{updates[1].Streak, updates[2].Streak})
	assert.Equal(t, 1, calls)
	assert.Equal(t, []string{"2026-02-02"}, seen)
}

func TestCompute_ReusesStoredBaseDownstream(t *testing.T) {
	history := storedHistory(
		day{"2026-02-01", 0.70},
		day{"2026-02-02", 0.70},
		day{"2026-02-03", 0.80},
	)

	// The builder would score day three differently now, but its stored base
	// must still be what drives its new final score.
	build := func(row ir.DailyLogRow, previous int) ir.ScoringInput {
		if row.Date.String() == "2026-02-03" {
			t.Fatalf("builder called for a downstream row")
		}
		return testutil.FixedInput(0.1)(row, previous)
	}

	updates, err := Compute(ir.MustParseDate("2026-02-02"), history, catalog.DefaultConfig(), build)
	require.NoError(t, err)
	require.Len(t, updates, 2)
	assert.Equal(t, 1, updates[1].Streak)
	assert.InDelta(t, 0.80*1.01, updates[1].FinalScore, 1e-12)
}

func TestCompute_UnsortedInputIsNotMutated(t *testing.T) {
	history := storedHistory(
		day{"2026-02-01", 0.70},
		day{"2026-02-02", 0.70},
		day{"2026-02-03", 0.70},
	)
	shuffled := []ir.DailyLogRow{history[2], history[0], history[1]}
	before := append([]ir.DailyLogRow(nil), shuffled...)

	updates, err := Compute(ir.MustParseDate("2026-02-02"), shuffled, catalog.DefaultConfig(), testutil.FixedInput(0.5))
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-02-02", "2026-02-03"}, dates(updates))
	assert.Equal(t, before, shuffled)
	assert.Equal(t, 2, *shuffled[0].Streak, "stored values untouched")
}

func TestCompute_LongRunNeverReconverges(t *testing.T) {
	days := make([]day, 0, 100)
	start := ir.MustParseDate("2026-01-01")
	for i := 0; i < 100; i++ {
		days = append(days, day{start.AddDays(i).String(), 0.9})
	}
	history := storedHistory(days...)

	// Streak counts after the edit are all shifted, so the walk reaches the end.
	updates, err := Compute(start.AddDays(49), history, catalog.DefaultConfig(), testutil.FixedInput(0.5))
	require.NoError(t, err)
	require.Len(t, updates, 51)
	assert.Equal(t, 0, updates[0].Streak)
	assert.Equal(t, 50, updates[50].Streak)
}

func TestCompute_AppliedUpdatesAreIdempotent(t *testing.T) {
	history := storedHistory(
		day{"2026-02-01", 0.70},
		day{"2026-02-02", 0.70},
		day{"2026-02-03", 0.70},
		day{"2026-02-04", 0.72},
		day{"2026-02-05", 0.68},
	)
	cfg := catalog.DefaultConfig()
	edited := ir.MustParseDate("2026-02-03")

	updates, err := Compute(edited, history, cfg, testutil.FixedInput(0.60))
	require.NoError(t, err)

	applied := applyUpdates(history, updates)
	again, err := Compute(edited, applied, cfg, testutil.FixedInput(0.60))
	require.NoError(t, err)
	assert.Empty(t, again, "re-running the same edit against persisted results is a no-op")
}

func applyUpdates(history []ir.DailyLogRow, updates []ir.CascadeUpdate) []ir.DailyLogRow {
	out := make([]ir.DailyLogRow, len(history))
	copy(out, history)
	for _, u := range updates {
		for i := range out {
			if out[i].Date != u.Date {
				continue
			}
			if u.Full() {
				out[i].PositiveScore = u.PositiveScore
				out[i].VicePenalty = u.VicePenalty
				out[i].BaseScore = u.BaseScore
			}
			out[i].Streak = ir.Int(u.Streak)
			out[i].FinalScore = ir.Float(u.FinalScore)
		}
	}
	return out
}

func TestRebuild_RescoresEveryRowFromDate(t *testing.T) {
	history := storedHistory(
		day{"2026-02-01", 0.70},
		day{"2026-02-02", 0.70},
		day{"2026-02-03", 0.70},
		day{"2026-02-04", 0.70},
	)

	// Same entries, but everything now scores 0.9 (e.g. a catalog change).
	calls := 0
	build := func(row ir.DailyLogRow, previous int) ir.ScoringInput {
		calls++
		return testutil.FixedInput(0.9)(row, previous)
	}

	updates := Rebuild(ir.MustParseDate("2026-02-02"), history, build)
	assert.Equal(t, 3, calls)
	require.Equal(t, []string{"2026-02-02", "2026-02-03", "2026-02-04"}, dates(updates))
	for i, u := range updates {
		assert.True(t, u.Full())
		assert.Equal(t, i+1, u.Streak, "carry starts from the stored streak of 2026-02-01")
		assert.Equal(t, 0.9, *u.BaseScore)
	}
}

func TestRebuild_UnchangedRowsProduceNoUpdates(t *testing.T) {
	history := storedHistory(
		day{"2026-02-01", 0.70},
		day{"2026-02-02", 0.70},
	)
	updates := Rebuild(ir.MustParseDate("2026-01-01"), history, testutil.FixedInput(0.70))
	assert.NotNil(t, updates)
	assert.Empty(t, updates)
}
