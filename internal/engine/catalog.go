package engine

import (
	"context"
	"errors"

	"github.com/roach88/dayscore/internal/catalog"
	"github.com/roach88/dayscore/internal/ir"
	"github.com/roach88/dayscore/internal/store"
)

// Init imports the built-in catalog and config.
func (e *Engine) Init(ctx context.Context) error {
	return e.ImportCatalog(ctx, catalog.Default())
}

// ImportCatalog validates doc and replaces the stored catalog and config.
// Stored scores are not touched; run Recompute to apply the change to history.
func (e *Engine) ImportCatalog(ctx context.Context, doc *catalog.Document) error {
	if err := doc.Validate(); err != nil {
		return catalogError("invalid catalog", err)
	}
	if err := e.store.ReplaceCatalog(ctx, doc.Habits, doc.Config); err != nil {
		return err
	}

	good, vices := 0, 0
	for _, h := range doc.Habits {
		if !h.Active {
			continue
		}
		if h.Pool == ir.PoolGood {
			good++
		} else {
			vices++
		}
	}
	e.logger.Info("catalog imported", "good", good, "vices", vices)
	return nil
}

// Habits lists the catalog. See store.ListHabits for ordering.
func (e *Engine) Habits(ctx context.Context, activeOnly bool) ([]ir.HabitDefinition, error) {
	return e.store.ListHabits(ctx, activeOnly)
}

// RetireHabit deactivates a habit by name.
func (e *Engine) RetireHabit(ctx context.Context, name string) error {
	err := e.store.RetireHabit(ctx, name)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return notFound(ir.Date{}, "unknown habit "+name, err)
	case errors.Is(err, store.ErrLastGoodHabit):
		return catalogError("cannot retire "+name, err)
	case err != nil:
		return err
	}
	e.logger.Info("habit retired", "habit", name)
	return nil
}

// Config returns the stored scoring config.
func (e *Engine) Config(ctx context.Context) (ir.ScoringConfig, error) {
	snap, err := e.Snapshot(ctx)
	if err != nil {
		return ir.ScoringConfig{}, err
	}
	return snap.Config, nil
}

// SaveConfig validates and stores a new scoring config. The change applies
// to future saves; run Recompute to apply it to history.
func (e *Engine) SaveConfig(ctx context.Context, cfg ir.ScoringConfig) error {
	if errs := cfg.Validate(); len(errs) > 0 {
		return catalogError("invalid config", joinValidation(errs))
	}
	if err := e.store.SaveConfig(ctx, cfg); err != nil {
		return err
	}
	e.logger.Info("config saved")
	return nil
}

func joinValidation(errs []ir.ValidationError) error {
	out := make([]error, len(errs))
	for i, err := range errs {
		out[i] = err
	}
	return errors.Join(out...)
}
