package analytics

import (
	"cmp"
	"math"
	"slices"

	"github.com/roach88/dayscore/internal/catalog"
	"github.com/roach88/dayscore/internal/ir"
)

// MinCorrelationSamples is the smallest paired sample that yields an r value.
const MinCorrelationSamples = 7

// Correlations computes the Pearson correlation of every active habit, good
// and vice alike, against the stored final score.
//
// Rows without a final score are skipped. Results are sorted by descending
// |r| with nil r values last; ties keep catalog order.
func Correlations(rows []ir.DailyLogRow, habits []ir.HabitDefinition) []ir.CorrelationResult {
	scored := scoredRows(rows)

	active := activeHabits(habits)
	results := make([]ir.CorrelationResult, 0, len(active))
	for _, h := range active {
		xs := make([]float64, len(scored))
		ys := make([]float64, len(scored))
		for i, row := range scored {
			xs[i] = catalog.RawValue(h, row.Entry)
			ys[i] = *row.FinalScore
		}
		results = append(results, correlate(h.Name, xs, ys))
	}

	slices.SortStableFunc(results, compareByStrength)
	return results
}

func correlate(name string, xs, ys []float64) ir.CorrelationResult {
	n := len(xs)
	res := ir.CorrelationResult{Habit: name, N: n}
	if n < MinCorrelationSamples {
		res.Flag = ir.FlagInsufficientData
		return res
	}

	r, ok := Pearson(xs, ys)
	if !ok {
		res.R = ir.Float(0)
		res.Flag = ir.FlagZeroVariance
		return res
	}
	res.R = ir.Float(r)
	return res
}

// Pearson returns the sample correlation coefficient of two equal-length
// series. ok is false when either series is constant (or shorter than two),
// in which case r is undefined.
//
// Constancy is decided on the raw values: a constant 0.1 series has a mean
// that is off by one ulp, so the centered sums are tiny but not zero.
func Pearson(xs, ys []float64) (r float64, ok bool) {
	n := len(xs)
	if n < 2 || n != len(ys) || constant(xs) || constant(ys) {
		return 0, false
	}

	meanX, meanY := mean(xs), mean(ys)
	var sxy, sxx, syy float64
	for i := range xs {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		sxy += float64(dx * dy)
		sxx += float64(dx * dx)
		syy += float64(dy * dy)
	}
	if sxx == 0 || syy == 0 {
		return 0, false
	}

	r = sxy / math.Sqrt(float64(sxx*syy))
	// rounding can push |r| a hair past 1
	return math.Max(-1, math.Min(1, r)), true
}

func constant(xs []float64) bool {
	for _, x := range xs[1:] {
		if x != xs[0] {
			return false
		}
	}
	return true
}

func mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func compareByStrength(a, b ir.CorrelationResult) int {
	switch {
	case a.R == nil && b.R == nil:
		return 0
	case a.R == nil:
		return 1
	case b.R == nil:
		return -1
	}
	return cmp.Compare(math.Abs(*b.R), math.Abs(*a.R))
}

// scoredRows returns the rows with a final score, sorted by date.
func scoredRows(rows []ir.DailyLogRow) []ir.DailyLogRow {
	out := make([]ir.DailyLogRow, 0, len(rows))
	for _, r := range rows {
		if r.FinalScore != nil {
			out = append(out, r)
		}
	}
	sortByDate(out)
	return out
}

func sortByDate(rows []ir.DailyLogRow) {
	slices.SortStableFunc(rows, func(a, b ir.DailyLogRow) int {
		return a.Date.Compare(b.Date)
	})
}

// activeHabits keeps active habits in catalog scoring order.
func activeHabits(habits []ir.HabitDefinition) []ir.HabitDefinition {
	out := make([]ir.HabitDefinition, 0, len(habits))
	for _, h := range habits {
		if h.Active {
			out = append(out, h)
		}
	}
	catalog.SortHabits(out)
	return out
}
