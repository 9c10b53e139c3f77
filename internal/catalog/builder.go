package catalog

import (
	"cmp"
	"math"
	"slices"

	"github.com/roach88/dayscore/internal/ir"
)

// Builder maps raw entries to scoring input against one catalog snapshot.
// It is the only place that knows how each input type is resolved, so every
// caller (save, recompute, vectors) scores the same entry the same way.
//
// Thread-safety: a Builder is read-only after construction.
type Builder struct {
	habits []ir.HabitDefinition
	cfg    ir.ScoringConfig
}

// NewBuilder keeps the active habits, ordered good before vice, then by
// sort order, then by name.
func NewBuilder(habits []ir.HabitDefinition, cfg ir.ScoringConfig) *Builder {
	active := make([]ir.HabitDefinition, 0, len(habits))
	for _, h := range habits {
		if h.Active {
			active = append(active, h)
		}
	}
	SortHabits(active)
	return &Builder{habits: active, cfg: cfg}
}

// SortHabits orders habits good pool first, then sort order, then name.
func SortHabits(habits []ir.HabitDefinition) {
	slices.SortStableFunc(habits, func(a, b ir.HabitDefinition) int {
		if a.Pool != b.Pool {
			if a.Pool == ir.PoolGood {
				return -1
			}
			return 1
		}
		if c := cmp.Compare(a.SortOrder, b.SortOrder); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
}

// Habits returns the active habits in scoring order.
func (b *Builder) Habits() []ir.HabitDefinition {
	return slices.Clone(b.habits)
}

// Config returns the config snapshot the builder stamps into every input.
func (b *Builder) Config() ir.ScoringConfig {
	return b.cfg
}

// RawValue is the number recorded for a habit: the option value for a
// dropdown (0 for an unknown label), the stored number otherwise.
func RawValue(h ir.HabitDefinition, e ir.Entry) float64 {
	if h.InputType == ir.InputDropdown {
		return h.OptionValue(e.Label(h.Name))
	}
	return e.Value(h.Name)
}

// GoodValue resolves a good habit to the value the scoring engine sums.
func GoodValue(h ir.HabitDefinition, e ir.Entry) float64 {
	raw := RawValue(h, e)
	switch h.InputType {
	case ir.InputCheckbox:
		if raw >= 1 {
			return h.Points
		}
		return 0
	case ir.InputDropdown:
		return raw
	case ir.InputNumber:
		return math.Max(0, math.Min(raw, h.Points))
	}
	return 0
}

// ViceValue resolves a vice to the engine's view of it.
// Tiered vices always come out untriggered with no penalty; the scoring
// engine derives their penalty from phone minutes.
func ViceValue(h ir.HabitDefinition, e ir.Entry) ir.ViceValue {
	raw := RawValue(h, e)
	v := ir.ViceValue{
		Name:         h.Name,
		PenaltyValue: h.Penalty,
		PenaltyMode:  h.PenaltyMode,
	}
	switch h.PenaltyMode {
	case ir.PenaltyFlat:
		v.Triggered = raw >= 1
	case ir.PenaltyPerInstance:
		v.Triggered = raw > 0
		if raw > 0 {
			v.Count = int(raw)
		}
	case ir.PenaltyTiered:
		v.PenaltyValue = 0
	default:
		// unknown modes never penalize
		v.PenaltyMode = ir.PenaltyFlat
		v.PenaltyValue = 0
	}
	return v
}

// Build resolves one entry. previousStreak is passed through unchanged.
func (b *Builder) Build(e ir.Entry, previousStreak int) ir.ScoringInput {
	in := ir.ScoringInput{
		Habits:         make([]ir.HabitValue, 0, len(b.habits)),
		Vices:          make([]ir.ViceValue, 0),
		PreviousStreak: previousStreak,
		Config:         b.cfg,
	}
	phoneSeen := false

	for _, h := range b.habits {
		switch h.Pool {
		case ir.PoolGood:
			in.Habits = append(in.Habits, ir.HabitValue{
				Name:     h.Name,
				Value:    GoodValue(h, e),
				Points:   h.Points,
				Category: h.Category,
			})
		case ir.PoolVice:
			in.Vices = append(in.Vices, ViceValue(h, e))
			if h.PenaltyMode == ir.PenaltyTiered && !phoneSeen {
				in.PhoneMinutes = RawValue(h, e)
				phoneSeen = true
			}
		}
	}
	return in
}

// BuildRow resolves a stored row. Its signature matches cascade.InputBuilder.
func (b *Builder) BuildRow(row ir.DailyLogRow, previousStreak int) ir.ScoringInput {
	return b.Build(row.Entry, previousStreak)
}
