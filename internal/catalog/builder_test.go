package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/dayscore/internal/ir"
	"github.com/roach88/dayscore/internal/scoring"
)

func habitByName(t *testing.T, name string) ir.HabitDefinition {
	t.Helper()
	for _, h := range DefaultHabits() {
		if h.Name == name {
			return h
		}
	}
	t.Fatalf("no default habit %q", name)
	return ir.HabitDefinition{}
}

func TestGoodValue(t *testing.T) {
	gym := habitByName(t, "gym")
	meal := habitByName(t, "meal_quality")
	hours := ir.HabitDefinition{Name: "study_hours", Pool: ir.PoolGood, Category: ir.CategoryProductivity, InputType: ir.InputNumber, Points: 3}

	tests := []struct {
		name  string
		habit ir.HabitDefinition
		entry ir.Entry
		want  float64
	}{
		{"checkbox done", gym, ir.Entry{Values: map[string]float64{"gym": 1}}, 3},
		{"checkbox above one", gym, ir.Entry{Values: map[string]float64{"gym": 2}}, 3},
		{"checkbox partial", gym, ir.Entry{Values: map[string]float64{"gym": 0.5}}, 0},
		{"checkbox missing", gym, ir.Entry{}, 0},
		{"dropdown label", meal, ir.Entry{Labels: map[string]string{"meal_quality": "Good"}}, 2},
		{"dropdown unknown label", meal, ir.Entry{Labels: map[string]string{"meal_quality": "Excellent"}}, 0},
		{"dropdown missing", meal, ir.Entry{}, 0},
		{"number in range", hours, ir.Entry{Values: map[string]float64{"study_hours": 2.5}}, 2.5},
		{"number clamped high", hours, ir.Entry{Values: map[string]float64{"study_hours": 5}}, 3},
		{"number clamped low", hours, ir.Entry{Values: map[string]float64{"study_hours": -1}}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GoodValue(tt.habit, tt.entry))
		})
	}
}

func TestViceValue(t *testing.T) {
	weed := habitByName(t, "weed")
	porn := habitByName(t, "porn")
	phone := habitByName(t, "phone_use")

	tests := []struct {
		name  string
		habit ir.HabitDefinition
		raw   float64
		want  ir.ViceValue
	}{
		{"flat triggered", weed, 1, ir.ViceValue{Name: "weed", Triggered: true, PenaltyValue: 0.12, PenaltyMode: ir.PenaltyFlat}},
		{"flat below one", weed, 0.5, ir.ViceValue{Name: "weed", PenaltyValue: 0.12, PenaltyMode: ir.PenaltyFlat}},
		{"per instance", porn, 2, ir.ViceValue{Name: "porn", Triggered: true, Count: 2, PenaltyValue: 0.25, PenaltyMode: ir.PenaltyPerInstance}},
		{"per instance truncates", porn, 2.7, ir.ViceValue{Name: "porn", Triggered: true, Count: 2, PenaltyValue: 0.25, PenaltyMode: ir.PenaltyPerInstance}},
		{"per instance negative", porn, -1, ir.ViceValue{Name: "porn", PenaltyValue: 0.25, PenaltyMode: ir.PenaltyPerInstance}},
		{"tiered never triggers", phone, 400, ir.ViceValue{Name: "phone_use", PenaltyMode: ir.PenaltyTiered}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := ir.Entry{Values: map[string]float64{tt.habit.Name: tt.raw}}
			assert.Equal(t, tt.want, ViceValue(tt.habit, e))
		})
	}
}

func TestViceValue_UnknownModeNeverPenalizes(t *testing.T) {
	h := ir.HabitDefinition{Name: "mystery", Pool: ir.PoolVice, InputType: ir.InputCheckbox, Penalty: 0.5, PenaltyMode: "exponential"}
	v := ViceValue(h, ir.Entry{Values: map[string]float64{"mystery": 1}})
	assert.Equal(t, ir.PenaltyFlat, v.PenaltyMode)
	assert.Equal(t, 0.0, v.PenaltyValue)
	assert.False(t, v.Triggered)
}

func TestNewBuilder_OrdersAndFilters(t *testing.T) {
	habits := []ir.HabitDefinition{
		{Name: "weed", Pool: ir.PoolVice, PenaltyMode: ir.PenaltyFlat, SortOrder: 1, Active: true},
		{Name: "zeta", Pool: ir.PoolGood, SortOrder: 2, Active: true},
		{Name: "alpha", Pool: ir.PoolGood, SortOrder: 2, Active: true},
		{Name: "first", Pool: ir.PoolGood, SortOrder: 1, Active: true},
		{Name: "gone", Pool: ir.PoolGood, SortOrder: 0, Active: false},
	}

	b := NewBuilder(habits, DefaultConfig())
	names := []string{}
	for _, h := range b.Habits() {
		names = append(names, h.Name)
	}
	assert.Equal(t, []string{"first", "alpha", "zeta", "weed"}, names)
	assert.Equal(t, "weed", habits[0].Name, "caller slice untouched")
}

func TestBuilder_Build(t *testing.T) {
	b := NewBuilder(DefaultHabits(), DefaultConfig())

	in := b.Build(ir.Entry{
		Values: map[string]float64{"gym": 1, "porn": 2, "phone_use": 95},
		Labels: map[string]string{"social": "Casual Hangout"},
	}, 4)

	require.Len(t, in.Habits, 13)
	require.Len(t, in.Vices, 9)
	assert.Equal(t, 4, in.PreviousStreak)
	assert.Equal(t, 95.0, in.PhoneMinutes)
	assert.Equal(t, DefaultConfig(), in.Config)

	assert.Equal(t, "schoolwork", in.Habits[0].Name)
	assert.Equal(t, "porn", in.Vices[0].Name)
	assert.Equal(t, 2, in.Vices[0].Count)

	for _, h := range in.Habits {
		switch h.Name {
		case "gym":
			assert.Equal(t, 3.0, h.Value)
		case "social":
			assert.Equal(t, 1.0, h.Value)
		default:
			assert.Equal(t, 0.0, h.Value, h.Name)
		}
	}
}

func TestBuilder_BuildRowUsesEntry(t *testing.T) {
	b := NewBuilder(DefaultHabits(), DefaultConfig())
	row := ir.DailyLogRow{
		Date:  ir.MustParseDate("2026-02-01"),
		Entry: ir.Entry{Values: map[string]float64{"gym": 1}},
	}
	assert.Equal(t, b.Build(row.Entry, -1), b.BuildRow(row, -1))
}

func TestBuilder_AllGoodAtMaxScoresOne(t *testing.T) {
	b := NewBuilder(DefaultHabits(), DefaultConfig())
	e := ir.Entry{Values: map[string]float64{}, Labels: map[string]string{
		"meal_quality": "Great",
		"social":       "Meaningful Connection",
	}}
	for _, h := range DefaultHabits() {
		if h.Pool == ir.PoolGood && h.InputType == ir.InputCheckbox {
			e.Values[h.Name] = 1
		}
	}

	out := scoring.ComputeScores(b.Build(e, -1))
	assert.Equal(t, 1.0, out.PositiveScore)
	assert.Equal(t, 0.0, out.VicePenalty)
	assert.Equal(t, 1.0, out.BaseScore)
	assert.Equal(t, 0, out.Streak)
	assert.Equal(t, 1.0, out.FinalScore)
}

func TestBuilder_AllVicesHitTheCap(t *testing.T) {
	b := NewBuilder(DefaultHabits(), DefaultConfig())
	e := ir.Entry{Values: map[string]float64{"phone_use": 400}}
	for _, h := range DefaultHabits() {
		if h.Pool == ir.PoolVice && h.PenaltyMode != ir.PenaltyTiered {
			e.Values[h.Name] = 1
		}
	}

	in := b.Build(e, 0)
	assert.InDelta(t, 0.88, scoring.RawVicePenalty(in.Vices, in.PhoneMinutes, in.Config), 1e-9)
	assert.Equal(t, 0.40, scoring.ComputeScores(in).VicePenalty)
}
