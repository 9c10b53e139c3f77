package engine

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/dayscore/internal/catalog"
	"github.com/roach88/dayscore/internal/ir"
	"github.com/roach88/dayscore/internal/store"
	"github.com/roach88/dayscore/internal/testutil"
)

func setupTestStore(t *testing.T) (*store.Store, *testutil.FixedClock) {
	t.Helper()
	clock := testutil.NewFixedClockAt("2026-03-01")
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"), store.WithClock(clock))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, clock
}

func setupEngine(t *testing.T) *Engine {
	t.Helper()
	s, clock := setupTestStore(t)
	e := New(s,
		WithClock(clock),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	require.NoError(t, e.Init(context.Background()))
	return e
}

func day(s string) ir.Date {
	return ir.MustParseDate(s)
}

func TestNew_Defaults(t *testing.T) {
	s, _ := setupTestStore(t)
	e := New(s)

	assert.NotNil(t, e.clock)
	assert.NotNil(t, e.logger)
	assert.NotNil(t, e.Metrics())
}

func TestSnapshot_BeforeInit(t *testing.T) {
	s, clock := setupTestStore(t)
	e := New(s, WithClock(clock))

	_, err := e.Snapshot(context.Background())
	require.Error(t, err)
	assert.True(t, IsCatalogError(err))

	_, err = e.SaveLog(context.Background(), day("2026-02-01"), testutil.FullEntry())
	assert.True(t, IsCatalogError(err))
}

func TestSnapshot_HashTracksCatalog(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()

	before, err := e.Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, before.Hash, 64)

	require.NoError(t, e.RetireHabit(ctx, "weed"))
	after, err := e.Snapshot(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, before.Hash, after.Hash)
}

func TestSaveLog_ScoresAndCascades(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()

	for _, d := range []string{"2026-02-01", "2026-02-02", "2026-02-03"} {
		_, err := e.SaveLog(ctx, day(d), testutil.FullEntry())
		require.NoError(t, err)
	}

	res, err := e.SaveLog(ctx, day("2026-02-02"), testutil.EmptyEntry())
	require.NoError(t, err)
	require.Len(t, res.Updates, 2)
	assert.True(t, res.Updates[0].Full())
	assert.Equal(t, 0, res.Updates[0].Streak)
	assert.Equal(t, 0.0, res.Updates[0].FinalScore)
	assert.Equal(t, day("2026-02-03"), res.Updates[1].Date)
	assert.Equal(t, 1, res.Updates[1].Streak)

	row, err := e.GetLog(ctx, day("2026-02-03"))
	require.NoError(t, err)
	assert.Equal(t, 1, *row.Streak)
}

func TestSaveLog_StampsCatalogHash(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()

	_, err := e.SaveLog(ctx, day("2026-02-01"), testutil.FullEntry())
	require.NoError(t, err)

	snap, err := e.Snapshot(ctx)
	require.NoError(t, err)
	h, err := e.store.CatalogHash(ctx, day("2026-02-01"))
	require.NoError(t, err)
	assert.Equal(t, snap.Hash, h)
}

func TestSaveLog_RejectsFutureDate(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()

	_, err := e.SaveLog(ctx, day("2026-03-02"), testutil.FullEntry())
	require.Error(t, err)
	assert.True(t, IsInvalidDate(err))

	// Today itself is allowed.
	_, err = e.SaveLog(ctx, day("2026-03-01"), testutil.FullEntry())
	assert.NoError(t, err)
}

func TestSaveLog_RejectsZeroDate(t *testing.T) {
	e := setupEngine(t)

	_, err := e.SaveLog(context.Background(), ir.Date{}, testutil.FullEntry())
	assert.True(t, IsInvalidDate(err))
}

func TestSaveLog_RejectsInvalidEntry(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()

	entry := ir.Entry{Values: map[string]float64{"flying": 1}}
	_, err := e.SaveLog(ctx, day("2026-02-01"), entry)
	require.Error(t, err)
	assert.True(t, IsInvalidEntry(err))

	_, err = e.GetLog(ctx, day("2026-02-01"))
	assert.True(t, IsNotFound(err), "rejected entry must not be stored")
}

func TestSaveLog_RetiredHabitRejected(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()
	require.NoError(t, e.RetireHabit(ctx, "gym"))

	_, err := e.SaveLog(ctx, day("2026-02-01"), ir.Entry{Values: map[string]float64{"gym": 1}})
	assert.True(t, IsInvalidEntry(err))
}

func TestSaveLog_CountsMetrics(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()

	_, err := e.SaveLog(ctx, day("2026-02-01"), testutil.FullEntry())
	require.NoError(t, err)
	_, err = e.SaveLog(ctx, day("2026-03-05"), testutil.FullEntry())
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "m.prom")
	require.NoError(t, e.Metrics().WriteToTextfile(path))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	data := string(raw)
	assert.Contains(t, data, `dayscore_engine_saves_total{result="ok"} 1`)
	assert.Contains(t, data, `dayscore_engine_saves_total{result="error"} 1`)
}

func TestValidateEntry(t *testing.T) {
	habits := catalog.DefaultHabits()
	d := day("2026-02-01")

	tests := []struct {
		name    string
		entry   ir.Entry
		wantErr string
	}{
		{"empty", ir.Entry{}, ""},
		{"full", testutil.FullEntry(), ""},
		{"number", ir.Entry{Values: map[string]float64{"porn": 3, "phone_use": 240}}, ""},
		{"unknown habit", ir.Entry{Values: map[string]float64{"flying": 1}}, "flying: not an active habit"},
		{"checkbox range", ir.Entry{Values: map[string]float64{"gym": 2}}, "gym: checkbox value must be 0 or 1"},
		{"negative", ir.Entry{Values: map[string]float64{"phone_use": -5}}, "phone_use: value -5 out of range"},
		{"fractional instances", ir.Entry{Values: map[string]float64{"porn": 0.5}}, "porn: instance count must be a whole number, got 0.5"},
		{"fractional instances above one", ir.Entry{Values: map[string]float64{"porn": 1.5}}, "porn: instance count must be a whole number"},
		{"fractional minutes", ir.Entry{Values: map[string]float64{"phone_use": 90.5}}, ""},
		{"dropdown as value", ir.Entry{Values: map[string]float64{"social": 1}}, "social: dropdown habits take a label"},
		{"unknown label", ir.Entry{Labels: map[string]string{"social": "Party"}}, `social: unknown option "Party"`},
		{"label on checkbox", ir.Entry{Labels: map[string]string{"gym": "yes"}}, "gym: only dropdown habits take a label"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEntry(d, tt.entry, habits)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, IsInvalidEntry(err))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateEntry_ReportsAllProblemsSorted(t *testing.T) {
	entry := ir.Entry{Values: map[string]float64{"zzz": 1, "aaa": 1}}
	err := ValidateEntry(day("2026-02-01"), entry, catalog.DefaultHabits())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "aaa: not an active habit; zzz: not an active habit")
}

func TestGetLog_NotFound(t *testing.T) {
	e := setupEngine(t)

	_, err := e.GetLog(context.Background(), day("2026-02-01"))
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRecompute_AppliesConfigChange(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()

	for _, d := range []string{"2026-02-01", "2026-02-02", "2026-02-03"} {
		_, err := e.SaveLog(ctx, day(d), testutil.FullEntry())
		require.NoError(t, err)
	}

	cfg := catalog.DefaultConfig()
	cfg.StreakThreshold = 1.0
	cfg.TargetFraction = 1.0
	require.NoError(t, e.SaveConfig(ctx, cfg))

	// Saving the config alone leaves history untouched.
	row, err := e.GetLog(ctx, day("2026-02-03"))
	require.NoError(t, err)
	assert.Equal(t, 2, *row.Streak)

	updates, err := e.Recompute(ctx, ir.Date{})
	require.NoError(t, err)
	assert.Empty(t, updates, "full days still score 1 and qualify at threshold 1")

	// Bring the target above what a full day can reach.
	require.NoError(t, e.ImportCatalog(ctx, withExtraHabit(cfg)))
	updates, err = e.Recompute(ctx, ir.Date{})
	require.NoError(t, err)
	require.Len(t, updates, 3)
	for _, u := range updates {
		assert.Equal(t, 0, u.Streak)
		assert.Less(t, u.FinalScore, 1.0)
	}
}

func withExtraHabit(cfg ir.ScoringConfig) *catalog.Document {
	habits := append(catalog.DefaultHabits(), ir.HabitDefinition{
		Name:        "extra",
		DisplayName: "Extra",
		Pool:        ir.PoolGood,
		Category:    ir.CategoryGrowth,
		InputType:   ir.InputCheckbox,
		Points:      1,
		SortOrder:   14,
		Active:      true,
	})
	return &catalog.Document{Habits: habits, Config: cfg}
}

func TestImportCatalog_RejectsInvalid(t *testing.T) {
	e := setupEngine(t)

	doc := catalog.Default()
	doc.Config.ViceCap = 2
	err := e.ImportCatalog(context.Background(), doc)
	require.Error(t, err)
	assert.True(t, IsCatalogError(err))
}

func TestRetireHabit_Errors(t *testing.T) {
	e := setupEngine(t)
	ctx := context.Background()

	assert.True(t, IsNotFound(e.RetireHabit(ctx, "nope")))

	var goods []string
	for _, h := range catalog.DefaultHabits() {
		if h.Pool == ir.PoolGood {
			goods = append(goods, h.Name)
		}
	}
	for _, name := range goods[:len(goods)-1] {
		require.NoError(t, e.RetireHabit(ctx, name))
	}
	err := e.RetireHabit(ctx, goods[len(goods)-1])
	assert.True(t, IsCatalogError(err))
	assert.ErrorIs(t, err, store.ErrLastGoodHabit)
}

func TestSaveConfig_RejectsInvalid(t *testing.T) {
	e := setupEngine(t)

	cfg := catalog.DefaultConfig()
	cfg.TargetFraction = 0
	err := e.SaveConfig(context.Background(), cfg)
	assert.True(t, IsCatalogError(err))
}

func TestError_Format(t *testing.T) {
	err := &Error{Code: ErrCodeInvalidDate, Message: "bad", Date: day("2026-02-01")}
	assert.Equal(t, "INVALID_DATE: bad (date=2026-02-01)", err.Error())

	err = &Error{Code: ErrCodeCatalog, Message: "bad", Err: store.ErrNotFound}
	assert.Equal(t, "CATALOG: bad: not found", err.Error())
}
