package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/dayscore/internal/ir"
)

// ListHabits returns the catalog ordered good before vice, then by sort
// order, then by name. Returns an empty slice (not nil) for an empty catalog.
func (s *Store) ListHabits(ctx context.Context, activeOnly bool) ([]ir.HabitDefinition, error) {
	habits, err := listHabits(ctx, s.db, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list habits: %w", err)
	}
	return habits, nil
}

func listHabits(ctx context.Context, q querier, activeOnly bool) ([]ir.HabitDefinition, error) {
	query := `
		SELECT id, name, display_name, pool, category, input_type, points, penalty,
		       penalty_mode, options, sort_order, active, retired_at
		FROM habits`
	if activeOnly {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY CASE pool WHEN 'good' THEN 0 ELSE 1 END, sort_order ASC, name COLLATE BINARY ASC`

	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query habits: %w", err)
	}
	defer rows.Close()

	habits := []ir.HabitDefinition{}
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate habits: %w", err)
	}
	return habits, nil
}

func scanHabit(rows *sql.Rows) (ir.HabitDefinition, error) {
	var (
		h                                  ir.HabitDefinition
		pool, category, inputType, penMode string
		options                            string
		retiredAt                          sql.NullString
	)
	err := rows.Scan(&h.ID, &h.Name, &h.DisplayName, &pool, &category, &inputType,
		&h.Points, &h.Penalty, &penMode, &options, &h.SortOrder, &h.Active, &retiredAt)
	if err != nil {
		return ir.HabitDefinition{}, fmt.Errorf("scan habit: %w", err)
	}

	h.Pool = ir.Pool(pool)
	h.Category = ir.Category(category)
	h.InputType = ir.InputType(inputType)
	h.PenaltyMode = ir.PenaltyMode(penMode)
	if h.Options, err = unmarshalOptions(options); err != nil {
		return ir.HabitDefinition{}, fmt.Errorf("scan habit %s: %w", h.Name, err)
	}
	if retiredAt.Valid {
		t, err := parseTime(retiredAt.String)
		if err != nil {
			return ir.HabitDefinition{}, fmt.Errorf("scan habit %s: %w", h.Name, err)
		}
		h.RetiredAt = &t
	}
	return h, nil
}

// LoadConfig returns the stored scoring config.
// Returns an error wrapping ErrNotFound before the first SaveConfig.
func (s *Store) LoadConfig(ctx context.Context) (ir.ScoringConfig, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT config FROM app_config WHERE id = 'default'`).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return ir.ScoringConfig{}, fmt.Errorf("load config: %w", ErrNotFound)
	}
	if err != nil {
		return ir.ScoringConfig{}, fmt.Errorf("load config: %w", err)
	}
	cfg, err := unmarshalConfig(data)
	if err != nil {
		return ir.ScoringConfig{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

const logColumns = `date, entry, positive_score, vice_penalty, base_score, streak, final_score, logged_at, last_modified`

// GetLog returns the row for one date.
// Returns an error wrapping ErrNotFound if the date was never logged.
func (s *Store) GetLog(ctx context.Context, date ir.Date) (ir.DailyLogRow, error) {
	row, err := getLog(ctx, s.db, date)
	if err != nil {
		return ir.DailyLogRow{}, err
	}
	return row, nil
}

func getLog(ctx context.Context, q querier, date ir.Date) (ir.DailyLogRow, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+logColumns+` FROM daily_log WHERE date = ?`, date.String())
	if err != nil {
		return ir.DailyLogRow{}, fmt.Errorf("read daily log %s: %w", date, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return ir.DailyLogRow{}, fmt.Errorf("read daily log %s: %w", date, err)
		}
		return ir.DailyLogRow{}, fmt.Errorf("read daily log %s: %w", date, ErrNotFound)
	}
	return scanLog(rows)
}

// ListLogs returns rows dated within [from, to] in ascending date order.
// A zero bound is open. Returns an empty slice (not nil) if none match.
func (s *Store) ListLogs(ctx context.Context, from, to ir.Date) ([]ir.DailyLogRow, error) {
	return listLogs(ctx, s.db, from, to)
}

// History returns every stored row in ascending date order.
func (s *Store) History(ctx context.Context) ([]ir.DailyLogRow, error) {
	return listLogs(ctx, s.db, ir.Date{}, ir.Date{})
}

func listLogs(ctx context.Context, q querier, from, to ir.Date) ([]ir.DailyLogRow, error) {
	var where []string
	var args []any
	if !from.IsZero() {
		where = append(where, "date >= ?")
		args = append(args, from.String())
	}
	if !to.IsZero() {
		where = append(where, "date <= ?")
		args = append(args, to.String())
	}

	query := `SELECT ` + logColumns + ` FROM daily_log`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	// ISO dates sort correctly as text.
	query += ` ORDER BY date ASC`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query daily log: %w", err)
	}
	defer rows.Close()

	out := []ir.DailyLogRow{}
	for rows.Next() {
		row, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate daily log: %w", err)
	}
	return out, nil
}

func scanLog(rows *sql.Rows) (ir.DailyLogRow, error) {
	var (
		date, entry            string
		positive, vice, base   sql.NullFloat64
		final                  sql.NullFloat64
		streak                 sql.NullInt64
		loggedAt, lastModified string
	)
	if err := rows.Scan(&date, &entry, &positive, &vice, &base, &streak, &final, &loggedAt, &lastModified); err != nil {
		return ir.DailyLogRow{}, fmt.Errorf("scan daily log: %w", err)
	}

	d, err := ir.ParseDate(date)
	if err != nil {
		return ir.DailyLogRow{}, fmt.Errorf("scan daily log: %w", err)
	}
	e, err := unmarshalEntry(entry)
	if err != nil {
		return ir.DailyLogRow{}, fmt.Errorf("scan daily log %s: %w", date, err)
	}
	logged, err := parseTime(loggedAt)
	if err != nil {
		return ir.DailyLogRow{}, fmt.Errorf("scan daily log %s: %w", date, err)
	}
	modified, err := parseTime(lastModified)
	if err != nil {
		return ir.DailyLogRow{}, fmt.Errorf("scan daily log %s: %w", date, err)
	}

	return ir.DailyLogRow{
		Date:          d,
		Entry:         e,
		PositiveScore: floatPtr(positive),
		VicePenalty:   floatPtr(vice),
		BaseScore:     floatPtr(base),
		Streak:        intPtr(streak),
		FinalScore:    floatPtr(final),
		LoggedAt:      logged,
		LastModified:  modified,
	}, nil
}

// CatalogHash returns the catalog hash stamped on a date's last full scoring.
// Empty when the row was never scored.
func (s *Store) CatalogHash(ctx context.Context, date ir.Date) (string, error) {
	var h sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT catalog_hash FROM daily_log WHERE date = ?`, date.String()).Scan(&h)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("read catalog hash %s: %w", date, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("read catalog hash %s: %w", date, err)
	}
	return h.String, nil
}
