package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/dayscore/internal/cascade"
	"github.com/roach88/dayscore/internal/catalog"
	"github.com/roach88/dayscore/internal/ir"
)

// ReplaceCatalog imports a full catalog and config in one transaction.
//
// Habits are matched by name: existing rows keep their ID and are updated in
// place, new habits get a UUIDv7, and stored habits missing from the import
// are retired rather than deleted. habits is not modified.
func (s *Store) ReplaceCatalog(ctx context.Context, habits []ir.HabitDefinition, cfg ir.ScoringConfig) error {
	now := s.now()
	return s.withTx(ctx, func(tx *sql.Tx) error {
		existing, err := listHabits(ctx, tx, false)
		if err != nil {
			return fmt.Errorf("replace catalog: %w", err)
		}
		ids := make(map[string]string, len(existing))
		for _, h := range existing {
			ids[h.Name] = h.ID
		}

		incoming := make([]ir.HabitDefinition, len(habits))
		copy(incoming, habits)
		keep := make(map[string]bool, len(incoming))
		for i := range incoming {
			if id, ok := ids[incoming[i].Name]; ok {
				incoming[i].ID = id
			}
			keep[incoming[i].Name] = true
		}
		if err := catalog.AssignIDs(incoming); err != nil {
			return fmt.Errorf("replace catalog: %w", err)
		}

		for _, h := range incoming {
			if err := upsertHabit(ctx, tx, h, now); err != nil {
				return fmt.Errorf("replace catalog: %w", err)
			}
		}
		for _, h := range existing {
			if keep[h.Name] || !h.Active {
				continue
			}
			if _, err := tx.ExecContext(ctx,
				`UPDATE habits SET active = 0, retired_at = ? WHERE id = ?`, now, h.ID); err != nil {
				return fmt.Errorf("replace catalog: retire %s: %w", h.Name, err)
			}
		}

		if err := saveConfig(ctx, tx, cfg, now); err != nil {
			return fmt.Errorf("replace catalog: %w", err)
		}
		return nil
	})
}

func upsertHabit(ctx context.Context, q querier, h ir.HabitDefinition, now string) error {
	opts, err := marshalOptions(h.Options)
	if err != nil {
		return err
	}

	var retiredAt sql.NullString
	switch {
	case h.RetiredAt != nil:
		retiredAt = sql.NullString{String: formatTime(*h.RetiredAt), Valid: true}
	case !h.Active:
		retiredAt = sql.NullString{String: now, Valid: true}
	}

	_, err = q.ExecContext(ctx, `
		INSERT INTO habits
		(id, name, display_name, pool, category, input_type, points, penalty, penalty_mode, options, sort_order, active, retired_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			display_name = excluded.display_name,
			pool = excluded.pool,
			category = excluded.category,
			input_type = excluded.input_type,
			points = excluded.points,
			penalty = excluded.penalty,
			penalty_mode = excluded.penalty_mode,
			options = excluded.options,
			sort_order = excluded.sort_order,
			active = excluded.active,
			retired_at = excluded.retired_at
	`,
		h.ID,
		h.Name,
		h.DisplayName,
		string(h.Pool),
		string(h.Category),
		string(h.InputType),
		h.Points,
		h.Penalty,
		string(h.PenaltyMode),
		opts,
		h.SortOrder,
		h.Active,
		retiredAt,
	)
	if err != nil {
		return fmt.Errorf("write habit %s: %w", h.Name, err)
	}
	return nil
}

// RetireHabit marks a habit inactive. Retiring an already retired habit is a
// no-op. Returns ErrNotFound for an unknown name and ErrLastGoodHabit when it
// is the only active good habit left.
func (s *Store) RetireHabit(ctx context.Context, name string) error {
	now := s.now()
	return s.withTx(ctx, func(tx *sql.Tx) error {
		var pool string
		var active bool
		err := tx.QueryRowContext(ctx, `SELECT pool, active FROM habits WHERE name = ?`, name).Scan(&pool, &active)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("retire habit %s: %w", name, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("retire habit %s: %w", name, err)
		}
		if !active {
			return nil
		}

		if ir.Pool(pool) == ir.PoolGood {
			var remaining int
			if err := tx.QueryRowContext(ctx,
				`SELECT COUNT(*) FROM habits WHERE pool = 'good' AND active = 1`).Scan(&remaining); err != nil {
				return fmt.Errorf("retire habit %s: %w", name, err)
			}
			if remaining <= 1 {
				return fmt.Errorf("retire habit %s: %w", name, ErrLastGoodHabit)
			}
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE habits SET active = 0, retired_at = ? WHERE name = ?`, now, name); err != nil {
			return fmt.Errorf("retire habit %s: %w", name, err)
		}
		return nil
	})
}

// SaveConfig replaces the singleton scoring config. Stored rows are not
// rescored; see Recompute.
func (s *Store) SaveConfig(ctx context.Context, cfg ir.ScoringConfig) error {
	if err := saveConfig(ctx, s.db, cfg, s.now()); err != nil {
		return fmt.Errorf("save config: %w", err)
	}
	return nil
}

func saveConfig(ctx context.Context, q querier, cfg ir.ScoringConfig, now string) error {
	data, err := marshalConfig(cfg)
	if err != nil {
		return err
	}
	_, err = q.ExecContext(ctx, `
		INSERT INTO app_config (id, config, updated_at) VALUES ('default', ?, ?)
		ON CONFLICT(id) DO UPDATE SET config = excluded.config, updated_at = excluded.updated_at
	`, data, now)
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// EditResult is the outcome of ApplyEdit.
type EditResult struct {
	// Row is the saved row with its committed scores.
	Row ir.DailyLogRow

	// Updates lists every row whose scores changed, edited date first.
	Updates []ir.CascadeUpdate
}

// ApplyEdit saves the raw entry for date and applies its cascade atomically.
//
// Inside one IMMEDIATE transaction it upserts the entry (logged_at is kept
// on overwrite, last_modified is set from the store clock), runs the cascade
// over the post-upsert history, and writes every returned update. build and
// cfg must come from the same catalog snapshot; catalogHash identifies that
// snapshot and is stamped onto the edited row.
func (s *Store) ApplyEdit(ctx context.Context, date ir.Date, entry ir.Entry, build cascade.InputBuilder, cfg ir.ScoringConfig, catalogHash string) (EditResult, error) {
	s.editMu.Lock()
	defer s.editMu.Unlock()

	entryJSON, err := marshalEntry(entry)
	if err != nil {
		return EditResult{}, fmt.Errorf("apply edit: %w", err)
	}
	entryHash, err := ir.EntryHash(date, entry)
	if err != nil {
		return EditResult{}, fmt.Errorf("apply edit: %w", err)
	}

	var result EditResult
	now := s.now()
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO daily_log (date, entry, entry_hash, logged_at, last_modified)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(date) DO UPDATE SET
				entry = excluded.entry,
				entry_hash = excluded.entry_hash,
				last_modified = excluded.last_modified
		`, date.String(), entryJSON, entryHash, now, now)
		if err != nil {
			return fmt.Errorf("write daily log: %w", err)
		}

		history, err := listLogs(ctx, tx, ir.Date{}, ir.Date{})
		if err != nil {
			return err
		}

		updates, err := cascade.Compute(date, history, cfg, build)
		if err != nil {
			return err
		}
		if err := writeUpdates(ctx, tx, updates, catalogHash); err != nil {
			return err
		}

		row, err := getLog(ctx, tx, date)
		if err != nil {
			return err
		}
		result = EditResult{Row: row, Updates: updates}
		return nil
	})
	if err != nil {
		return EditResult{}, fmt.Errorf("apply edit %s: %w", date, err)
	}
	return result, nil
}

// Recompute rescores every stored row on or after from with fresh inputs and
// writes the differences atomically. It is the explicit path for applying a
// catalog or config change to history.
func (s *Store) Recompute(ctx context.Context, from ir.Date, build cascade.InputBuilder, catalogHash string) ([]ir.CascadeUpdate, error) {
	s.editMu.Lock()
	defer s.editMu.Unlock()

	var updates []ir.CascadeUpdate
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		history, err := listLogs(ctx, tx, ir.Date{}, ir.Date{})
		if err != nil {
			return err
		}
		updates = cascade.Rebuild(from, history, build)
		return writeUpdates(ctx, tx, updates, catalogHash)
	})
	if err != nil {
		return nil, fmt.Errorf("recompute from %s: %w", from, err)
	}
	return updates, nil
}

// writeUpdates persists cascade updates. Full updates also stamp catalogHash.
func writeUpdates(ctx context.Context, q querier, updates []ir.CascadeUpdate, catalogHash string) error {
	for _, u := range updates {
		var err error
		if u.Full() {
			_, err = q.ExecContext(ctx, `
				UPDATE daily_log SET
					positive_score = ?, vice_penalty = ?, base_score = ?,
					streak = ?, final_score = ?, catalog_hash = ?
				WHERE date = ?
			`, *u.PositiveScore, *u.VicePenalty, *u.BaseScore, u.Streak, u.FinalScore, catalogHash, u.Date.String())
		} else {
			_, err = q.ExecContext(ctx, `
				UPDATE daily_log SET streak = ?, final_score = ? WHERE date = ?
			`, u.Streak, u.FinalScore, u.Date.String())
		}
		if err != nil {
			return fmt.Errorf("write cascade update %s: %w", u.Date, err)
		}
	}
	return nil
}
