package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/dayscore/internal/engine"
	"github.com/roach88/dayscore/internal/ir"
	"github.com/roach88/dayscore/internal/metrics"
	"github.com/roach88/dayscore/internal/store"
)

// session is an open database and the engine over it, for one command.
type session struct {
	opts    *RootOptions
	store   *store.Store
	engine  *engine.Engine
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// openSession sets up logging, opens the database and builds the engine.
// Callers must Close the session.
func openSession(cmd *cobra.Command, opts *RootOptions) (*session, error) {
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	})
	logger := slog.New(handler)

	path := opts.Database
	if path == "" {
		path = defaultDatabase()
	}

	var clock engine.Clock = engine.SystemClock{}
	if opts.Clock != nil {
		clock = opts.Clock
	}

	logger.Debug("opening database", "path", path)
	st, err := store.Open(path, store.WithClock(clock))
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}

	m := metrics.New()
	eng := engine.New(st,
		engine.WithClock(clock),
		engine.WithLogger(logger),
		engine.WithMetrics(m),
	)
	return &session{opts: opts, store: st, engine: eng, metrics: m, logger: logger}, nil
}

// Close writes the metrics file, if one was asked for, and closes the
// database. Failures are logged.
func (s *session) Close() {
	if s.opts.MetricsFile != "" {
		if err := s.metrics.WriteToTextfile(s.opts.MetricsFile); err != nil {
			s.logger.Error("error writing metrics", "error", err)
		}
	}
	if err := s.store.Close(); err != nil {
		s.logger.Error("error closing database", "error", err)
	}
}

// withSession runs fn against a fresh session.
func withSession(cmd *cobra.Command, opts *RootOptions, fn func(ctx context.Context, s *session) error) error {
	s, err := openSession(cmd, opts)
	if err != nil {
		return err
	}
	defer s.Close()
	return fn(cmd.Context(), s)
}

// parseDate accepts YYYY-MM-DD, "today" or "yesterday".
func parseDate(s string, today ir.Date) (ir.Date, error) {
	switch strings.ToLower(s) {
	case "today":
		return today, nil
	case "yesterday":
		return today.AddDays(-1), nil
	}
	return ir.ParseDate(s)
}

// parseOptionalDate is parseDate with "" meaning an open bound.
func parseOptionalDate(s string, today ir.Date) (ir.Date, error) {
	if s == "" {
		return ir.Date{}, nil
	}
	return parseDate(s, today)
}

// usageError reports a bad argument and returns the matching exit error.
func usageError(f *OutputFormatter, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if f.Format == "json" {
		_ = f.Error(ErrCodeUsage, msg, nil)
	}
	return NewExitError(ExitCommandError, msg)
}
