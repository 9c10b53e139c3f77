package analytics

import (
	"slices"
	"time"

	"github.com/roach88/dayscore/internal/catalog"
	"github.com/roach88/dayscore/internal/ir"
)

// MovingAverageWindow is the number of scored days in a trend moving average.
const MovingAverageWindow = 7

// TrendPoint is one scored day in a score trend.
type TrendPoint struct {
	Date        ir.Date  `json:"date"`
	FinalScore  float64  `json:"final_score"`
	BaseScore   float64  `json:"base_score"`
	Streak      int      `json:"streak"`
	MovingAvg7d *float64 `json:"moving_avg_7d"`
}

// ScoreTrend lists every scored day in date order. The moving average covers
// the last seven scored days and is nil until seven are available; gaps in
// the calendar are not filled.
func ScoreTrend(rows []ir.DailyLogRow) []TrendPoint {
	scored := scoredRows(rows)
	out := make([]TrendPoint, 0, len(scored))
	for i, row := range scored {
		p := TrendPoint{Date: row.Date, FinalScore: *row.FinalScore}
		if row.BaseScore != nil {
			p.BaseScore = *row.BaseScore
		}
		if row.Streak != nil {
			p.Streak = *row.Streak
		}
		if i >= MovingAverageWindow-1 {
			var sum float64
			for _, w := range scored[i-MovingAverageWindow+1 : i+1] {
				sum += *w.FinalScore
			}
			p.MovingAvg7d = ir.Float(sum / MovingAverageWindow)
		}
		out = append(out, p)
	}
	return out
}

// HabitRate is how often one good habit was done over the logged days.
type HabitRate struct {
	Habit         string      `json:"habit"`
	DisplayName   string      `json:"display_name"`
	Category      ir.Category `json:"category"`
	Rate          float64     `json:"rate"`
	DaysCompleted int         `json:"days_completed"`
	TotalDays     int         `json:"total_days"`
}

// HabitCompletion reports, per active good habit, the share of logged days
// on which it was done. A numeric habit is done when its value is positive; a
// dropdown is done when any label other than "None" was picked, even one
// worth zero points. Unscored days count as logged.
func HabitCompletion(rows []ir.DailyLogRow, habits []ir.HabitDefinition) []HabitRate {
	if len(rows) == 0 {
		return []HabitRate{}
	}

	out := []HabitRate{}
	for _, h := range activeHabits(habits) {
		if h.Pool != ir.PoolGood {
			continue
		}
		done := 0
		for _, row := range rows {
			if completed(h, row.Entry) {
				done++
			}
		}
		out = append(out, HabitRate{
			Habit:         h.Name,
			DisplayName:   h.DisplayName,
			Category:      h.Category,
			Rate:          float64(done) / float64(len(rows)),
			DaysCompleted: done,
			TotalDays:     len(rows),
		})
	}
	return out
}

// NoneLabel is the dropdown label recorded when nothing was picked.
const NoneLabel = "None"

func completed(h ir.HabitDefinition, e ir.Entry) bool {
	if h.InputType == ir.InputDropdown {
		label := e.Label(h.Name)
		return label != "" && label != NoneLabel
	}
	return catalog.RawValue(h, e) > 0
}

// ViceCount is how often one vice occurred over the logged days.
type ViceCount struct {
	Vice        string         `json:"vice"`
	DisplayName string         `json:"display_name"`
	Mode        ir.PenaltyMode `json:"penalty_mode"`
	Days        int            `json:"days"`
	Instances   int            `json:"instances,omitempty"`
	TotalDays   int            `json:"total_days"`
}

// ViceFrequency counts, per active vice, the days it occurred (not the
// instances). Per-instance vices also report their instance total. A tiered
// vice occurs on days at or above the first tier threshold in cfg.
func ViceFrequency(rows []ir.DailyLogRow, habits []ir.HabitDefinition, cfg ir.ScoringConfig) []ViceCount {
	if len(rows) == 0 {
		return []ViceCount{}
	}

	out := []ViceCount{}
	for _, h := range activeHabits(habits) {
		if h.Pool != ir.PoolVice {
			continue
		}
		vc := ViceCount{Vice: h.Name, DisplayName: h.DisplayName, Mode: h.PenaltyMode, TotalDays: len(rows)}
		for _, row := range rows {
			raw := catalog.RawValue(h, row.Entry)
			switch h.PenaltyMode {
			case ir.PenaltyTiered:
				if raw >= cfg.PhoneT1Minutes {
					vc.Days++
				}
			case ir.PenaltyPerInstance:
				if raw > 0 {
					vc.Days++
					vc.Instances += int(raw)
				}
			default:
				if raw >= 1 {
					vc.Days++
				}
			}
		}
		out = append(out, vc)
	}
	return out
}

// WeekdayAverage is the mean final score of one day of the week.
type WeekdayAverage struct {
	Day     time.Weekday `json:"day"`
	Name    string       `json:"name"`
	Average *float64     `json:"average"`
	Count   int          `json:"count"`
}

var mondayFirst = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// DayOfWeek averages final scores per weekday, Monday first. All seven days
// are always present; a day with no scored rows has a nil average.
func DayOfWeek(rows []ir.DailyLogRow) []WeekdayAverage {
	var sums [7]float64
	var counts [7]int
	for _, row := range scoredRows(rows) {
		wd := row.Date.Weekday()
		sums[wd] += *row.FinalScore
		counts[wd]++
	}

	out := make([]WeekdayAverage, 0, len(mondayFirst))
	for _, wd := range mondayFirst {
		avg := WeekdayAverage{Day: wd, Name: wd.String(), Count: counts[wd]}
		if counts[wd] > 0 {
			avg.Average = ir.Float(sums[wd] / float64(counts[wd]))
		}
		out = append(out, avg)
	}
	return out
}

// Window returns the rows dated within [from, to]. A zero bound is open.
// The result is sorted by date and shares no backing array with rows.
func Window(rows []ir.DailyLogRow, from, to ir.Date) []ir.DailyLogRow {
	out := make([]ir.DailyLogRow, 0, len(rows))
	for _, r := range rows {
		if !from.IsZero() && r.Date.Before(from) {
			continue
		}
		if !to.IsZero() && r.Date.After(to) {
			continue
		}
		out = append(out, r)
	}
	sortByDate(out)
	return slices.Clip(out)
}
