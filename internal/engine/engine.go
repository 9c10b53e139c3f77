package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/roach88/dayscore/internal/catalog"
	"github.com/roach88/dayscore/internal/ir"
	"github.com/roach88/dayscore/internal/metrics"
	"github.com/roach88/dayscore/internal/store"
)

// Engine runs dayscore commands against a store.
//
// Thread-safety model:
//   - SaveLog and Recompute: safe from any goroutine (the store serializes them)
//   - read commands: safe from any goroutine
type Engine struct {
	store   *store.Store
	clock   Clock
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the clock that decides today's date.
func WithClock(c Clock) Option {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithMetrics sets the metrics sink. Defaults to a private registry.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// New creates an Engine over st.
func New(st *store.Store, opts ...Option) *Engine {
	e := &Engine{
		store:  st,
		clock:  SystemClock{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.metrics == nil {
		e.metrics = metrics.New()
	}
	return e
}

// Metrics returns the engine's metrics sink.
func (e *Engine) Metrics() *metrics.Metrics {
	return e.metrics
}

// Today returns the current calendar date according to the engine clock.
func (e *Engine) Today() ir.Date {
	return ir.DateOf(e.clock.Now())
}

// Snapshot is the catalog and config an edit is scored with.
type Snapshot struct {
	// Habits is the full catalog, retired habits included.
	Habits []ir.HabitDefinition

	Config ir.ScoringConfig

	// Hash identifies the active catalog and config.
	Hash string
}

// Builder returns an input builder over the snapshot's active habits.
func (s *Snapshot) Builder() *catalog.Builder {
	return catalog.NewBuilder(s.Habits, s.Config)
}

// Snapshot loads the current catalog and config.
// Returns a CATALOG error if nothing has been imported yet.
func (e *Engine) Snapshot(ctx context.Context) (*Snapshot, error) {
	cfg, err := e.store.LoadConfig(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return nil, catalogError("no catalog imported; run init first", nil)
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	habits, err := e.store.ListHabits(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	hash, err := ir.CatalogHash(habits, cfg)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return &Snapshot{Habits: habits, Config: cfg, Hash: hash}, nil
}

// SaveLog stores the raw entry for date and applies its cascade.
//
// The date may not be after today. Every habit the entry names must be
// active, checkbox values must be 0 or 1, and dropdown labels must be
// options of their habit.
func (e *Engine) SaveLog(ctx context.Context, date ir.Date, entry ir.Entry) (store.EditResult, error) {
	editID := uuid.NewString()
	logger := e.logger.With("edit", editID, "date", date.String())

	res, err := e.saveLog(ctx, logger, date, entry)
	if err != nil {
		e.metrics.ObserveSaveError()
		logger.Warn("save rejected", "error", err)
		return store.EditResult{}, err
	}

	e.metrics.ObserveSave(len(res.Updates))
	logger.Info("cascade applied", "updates", len(res.Updates))
	return res, nil
}

func (e *Engine) saveLog(ctx context.Context, logger *slog.Logger, date ir.Date, entry ir.Entry) (store.EditResult, error) {
	if date.IsZero() {
		return store.EditResult{}, &Error{Code: ErrCodeInvalidDate, Message: "missing date"}
	}
	if today := e.Today(); date.After(today) {
		return store.EditResult{}, &Error{
			Code:    ErrCodeInvalidDate,
			Message: fmt.Sprintf("cannot log a future date (today is %s)", today),
			Date:    date,
		}
	}

	snap, err := e.Snapshot(ctx)
	if err != nil {
		return store.EditResult{}, err
	}
	if err := ValidateEntry(date, entry, snap.Habits); err != nil {
		return store.EditResult{}, err
	}

	logger.Debug("applying edit", "catalog", snap.Hash[:12],
		"values", len(entry.Values), "labels", len(entry.Labels))

	b := snap.Builder()
	res, err := e.store.ApplyEdit(ctx, date, entry, b.BuildRow, snap.Config, snap.Hash)
	if err != nil {
		return store.EditResult{}, err
	}
	for _, u := range res.Updates {
		logger.Debug("row rescored", "row", u.Date.String(), "streak", u.Streak, "final", u.FinalScore)
	}
	return res, nil
}

// ValidateEntry checks a raw entry against the catalog.
// All problems are reported together, sorted by habit name.
func ValidateEntry(date ir.Date, entry ir.Entry, habits []ir.HabitDefinition) error {
	active := make(map[string]ir.HabitDefinition, len(habits))
	for _, h := range habits {
		if h.Active {
			active[h.Name] = h
		}
	}

	var problems []string
	for name, v := range entry.Values {
		h, ok := active[name]
		switch {
		case !ok:
			problems = append(problems, fmt.Sprintf("%s: not an active habit", name))
		case h.InputType == ir.InputDropdown:
			problems = append(problems, fmt.Sprintf("%s: dropdown habits take a label", name))
		case math.IsNaN(v) || math.IsInf(v, 0) || v < 0:
			problems = append(problems, fmt.Sprintf("%s: value %v out of range", name, v))
		case h.InputType == ir.InputCheckbox && v != 0 && v != 1:
			problems = append(problems, fmt.Sprintf("%s: checkbox value must be 0 or 1, got %v", name, v))
		case h.PenaltyMode == ir.PenaltyPerInstance && v != math.Trunc(v):
			problems = append(problems, fmt.Sprintf("%s: instance count must be a whole number, got %v", name, v))
		}
	}
	for name, label := range entry.Labels {
		h, ok := active[name]
		switch {
		case !ok:
			problems = append(problems, fmt.Sprintf("%s: not an active habit", name))
		case h.InputType != ir.InputDropdown:
			problems = append(problems, fmt.Sprintf("%s: only dropdown habits take a label", name))
		default:
			if _, known := h.Options[label]; !known {
				problems = append(problems, fmt.Sprintf("%s: unknown option %q", name, label))
			}
		}
	}
	if len(problems) == 0 {
		return nil
	}
	sort.Strings(problems)
	return invalidEntry(date, strings.Join(problems, "; "))
}

// GetLog returns the stored row for date.
func (e *Engine) GetLog(ctx context.Context, date ir.Date) (ir.DailyLogRow, error) {
	row, err := e.store.GetLog(ctx, date)
	if errors.Is(err, store.ErrNotFound) {
		return ir.DailyLogRow{}, notFound(date, "nothing logged", err)
	}
	return row, err
}

// Recompute rescores every stored row on or after from with the current
// catalog and config. A zero from rescores all history.
func (e *Engine) Recompute(ctx context.Context, from ir.Date) ([]ir.CascadeUpdate, error) {
	snap, err := e.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	b := snap.Builder()
	updates, err := e.store.Recompute(ctx, from, b.BuildRow, snap.Hash)
	if err != nil {
		return nil, err
	}

	e.metrics.ObserveRecompute(len(updates))
	e.logger.Info("history recomputed", "from", from.String(), "updates", len(updates))
	return updates, nil
}
