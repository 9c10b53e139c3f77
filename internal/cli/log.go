package cli

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/dayscore/internal/ir"
)

// LogOptions holds flags for the log command.
type LogOptions struct {
	*RootOptions
	Set   []string // name=value
	Label []string // name=label
}

// LogResult is the JSON payload of the log command.
type LogResult struct {
	Row     ir.DailyLogRow     `json:"row"`
	Updates []ir.CascadeUpdate `json:"updates"`
}

// NewLogCommand creates the log command.
func NewLogCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LogOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "log <date>",
		Short: "Save the entry for a day",
		Long: `Save the raw entry for a day and cascade the change forward.

The entry replaces whatever was stored for the date. Habits that are not
set count as not done. The date is YYYY-MM-DD, "today" or "yesterday" and
may not be in the future.

Examples:
  dayscore log today --set gym=1 --set read=1 --label meal_quality=Good
  dayscore log 2026-02-03 --set phone_use=200 --set porn=2
  dayscore log yesterday --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLog(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringArrayVar(&opts.Set, "set", nil, "record a checkbox or number habit (name=value)")
	cmd.Flags().StringArrayVar(&opts.Label, "label", nil, "record a dropdown habit (name=label)")

	return cmd
}

// parseEntry builds an entry from --set and --label pairs.
func parseEntry(sets, labels []string) (ir.Entry, error) {
	entry := ir.Entry{}
	for _, kv := range sets {
		name, raw, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			return ir.Entry{}, fmt.Errorf("--set %q: expected name=value", kv)
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return ir.Entry{}, fmt.Errorf("--set %q: %w", kv, err)
		}
		if entry.Values == nil {
			entry.Values = make(map[string]float64)
		}
		entry.Values[name] = v
	}
	for _, kv := range labels {
		name, label, ok := strings.Cut(kv, "=")
		if !ok || name == "" {
			return ir.Entry{}, fmt.Errorf("--label %q: expected name=label", kv)
		}
		if entry.Labels == nil {
			entry.Labels = make(map[string]string)
		}
		entry.Labels[name] = label
	}
	return entry, nil
}

func runLog(cmd *cobra.Command, opts *LogOptions, dateArg string) error {
	f := opts.formatter(cmd)
	entry, err := parseEntry(opts.Set, opts.Label)
	if err != nil {
		return usageError(f, "%v", err)
	}

	return withSession(cmd, opts.RootOptions, func(ctx context.Context, s *session) error {
		date, err := parseDate(dateArg, s.engine.Today())
		if err != nil {
			return usageError(f, "%v", err)
		}

		res, err := s.engine.SaveLog(ctx, date, entry)
		if err != nil {
			return f.Fail("failed to save log", err)
		}
		return f.Render(LogResult{Row: res.Row, Updates: res.Updates}, func(w io.Writer) {
			writeScores(w, res.Row)
			if len(res.Updates) > 1 {
				fmt.Fprintf(w, "Cascade rescored %d later days:\n", len(res.Updates)-1)
				for _, u := range res.Updates[1:] {
					fmt.Fprintf(w, "  %s  final %.3f  streak %d\n", u.Date, u.FinalScore, u.Streak)
				}
			}
		})
	})
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show <date>",
		Short:         "Print the stored entry and scores for a day",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd, rootOpts, args[0])
		},
	}
}

func runShow(cmd *cobra.Command, opts *RootOptions, dateArg string) error {
	f := opts.formatter(cmd)
	return withSession(cmd, opts, func(ctx context.Context, s *session) error {
		date, err := parseDate(dateArg, s.engine.Today())
		if err != nil {
			return usageError(f, "%v", err)
		}

		row, err := s.engine.GetLog(ctx, date)
		if err != nil {
			return f.Fail("failed to read log", err)
		}
		return f.Render(row, func(w io.Writer) {
			writeScores(w, row)
			writeEntry(w, row.Entry)
		})
	})
}

func writeScores(w io.Writer, row ir.DailyLogRow) {
	if row.FinalScore == nil {
		fmt.Fprintf(w, "%s  not scored\n", row.Date)
		return
	}
	fmt.Fprintf(w, "%s  final %.3f  base %.3f  positive %.3f  vices %.3f  streak %d\n",
		row.Date, *row.FinalScore, deref(row.BaseScore), deref(row.PositiveScore), deref(row.VicePenalty), derefInt(row.Streak))
}

func writeEntry(w io.Writer, e ir.Entry) {
	if len(e.Values) == 0 && len(e.Labels) == 0 {
		fmt.Fprintln(w, "  (empty entry)")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, name := range sortedKeys(e.Values) {
		fmt.Fprintf(tw, "  %s\t%g\n", name, e.Values[name])
	}
	for _, name := range sortedKeys(e.Labels) {
		fmt.Fprintf(tw, "  %s\t%s\n", name, e.Labels[name])
	}
	tw.Flush()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
