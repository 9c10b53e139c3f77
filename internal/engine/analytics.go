package engine

import (
	"context"
	"fmt"

	"github.com/roach88/dayscore/internal/analytics"
	"github.com/roach88/dayscore/internal/ir"
)

// window loads the rows dated within [from, to]; zero bounds are open.
func (e *Engine) window(ctx context.Context, from, to ir.Date) ([]ir.DailyLogRow, error) {
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		return nil, &Error{Code: ErrCodeInvalidDate, Message: fmt.Sprintf("window starts after it ends (%s > %s)", from, to), Date: from}
	}
	rows, err := e.store.ListLogs(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("load window: %w", err)
	}
	return rows, nil
}

// Correlations correlates every active good habit and vice with final score
// over the window. Read-only.
func (e *Engine) Correlations(ctx context.Context, from, to ir.Date) ([]ir.CorrelationResult, error) {
	rows, err := e.window(ctx, from, to)
	if err != nil {
		return nil, err
	}
	habits, err := e.store.ListHabits(ctx, true)
	if err != nil {
		return nil, err
	}
	results := analytics.Correlations(rows, habits)
	e.logger.Debug("correlations computed", "rows", len(rows), "habits", len(results))
	return results, nil
}

// Trend returns the score trend over the window.
func (e *Engine) Trend(ctx context.Context, from, to ir.Date) ([]analytics.TrendPoint, error) {
	rows, err := e.window(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return analytics.ScoreTrend(rows), nil
}

// HabitCompletion returns per-habit completion rates over the window.
func (e *Engine) HabitCompletion(ctx context.Context, from, to ir.Date) ([]analytics.HabitRate, error) {
	rows, err := e.window(ctx, from, to)
	if err != nil {
		return nil, err
	}
	habits, err := e.store.ListHabits(ctx, true)
	if err != nil {
		return nil, err
	}
	return analytics.HabitCompletion(rows, habits), nil
}

// ViceFrequency returns per-vice trigger counts over the window.
func (e *Engine) ViceFrequency(ctx context.Context, from, to ir.Date) ([]analytics.ViceCount, error) {
	rows, err := e.window(ctx, from, to)
	if err != nil {
		return nil, err
	}
	snap, err := e.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return analytics.ViceFrequency(rows, snap.Habits, snap.Config), nil
}

// DayOfWeek returns the average final score per weekday over the window.
func (e *Engine) DayOfWeek(ctx context.Context, from, to ir.Date) ([]analytics.WeekdayAverage, error) {
	rows, err := e.window(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return analytics.DayOfWeek(rows), nil
}
