package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/dayscore/internal/analytics"
	"github.com/roach88/dayscore/internal/ir"
)

// WindowOptions holds the date window flags shared by analytics commands.
type WindowOptions struct {
	*RootOptions
	From string
	To   string
}

func (o *WindowOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.From, "from", "", "first date of the window (YYYY-MM-DD)")
	cmd.Flags().StringVar(&o.To, "to", "", "last date of the window (YYYY-MM-DD)")
}

func (o *WindowOptions) window(f *OutputFormatter, today ir.Date) (from, to ir.Date, err error) {
	if from, err = parseOptionalDate(o.From, today); err != nil {
		return ir.Date{}, ir.Date{}, usageError(f, "--from: %v", err)
	}
	if to, err = parseOptionalDate(o.To, today); err != nil {
		return ir.Date{}, ir.Date{}, usageError(f, "--to: %v", err)
	}
	return from, to, nil
}

// NewCorrelateCommand creates the correlate command.
func NewCorrelateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WindowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "correlate",
		Short: "Correlate each habit with the final score",
		Long: `Compute the Pearson correlation of every active habit and vice with the
daily final score over the window. Strongest correlations come first.
With fewer than 7 scored days there is no r; a habit that never varies
reports r = 0 with a zero_variance note.

Examples:
  dayscore correlate
  dayscore correlate --from 2026-01-01 --to 2026-03-31 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCorrelate(cmd, opts)
		},
	}
	opts.addFlags(cmd)

	return cmd
}

func runCorrelate(cmd *cobra.Command, opts *WindowOptions) error {
	f := opts.formatter(cmd)
	return withSession(cmd, opts.RootOptions, func(ctx context.Context, s *session) error {
		from, to, err := opts.window(f, s.engine.Today())
		if err != nil {
			return err
		}
		results, err := s.engine.Correlations(ctx, from, to)
		if err != nil {
			return f.Fail("failed to correlate", err)
		}
		return f.Render(results, func(w io.Writer) {
			tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "HABIT\tR\tN\tNOTE")
			for _, r := range results {
				rs := "-"
				if r.R != nil {
					rs = fmt.Sprintf("%+.3f", *r.R)
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", r.Habit, rs, r.N, r.Flag)
			}
			tw.Flush()
		})
	})
}

// Trend groupings.
const (
	TrendByDate    = "date"
	TrendByHabit   = "habit"
	TrendByVice    = "vice"
	TrendByWeekday = "weekday"
)

// TrendOptions holds flags for the trend command.
type TrendOptions struct {
	WindowOptions
	By string
}

// NewTrendCommand creates the trend command.
func NewTrendCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TrendOptions{WindowOptions: WindowOptions{RootOptions: rootOpts}}

	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Summarize scores over a window",
		Long: `Summarize stored scores over the window.

  --by date     final score per day with a 7-day moving average (default)
  --by habit    completion rate per good habit
  --by vice     days each vice occurred
  --by weekday  average final score per day of the week

Examples:
  dayscore trend --from 2026-02-01
  dayscore trend --by weekday --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrend(cmd, opts)
		},
	}
	opts.addFlags(cmd)
	cmd.Flags().StringVar(&opts.By, "by", TrendByDate, "grouping (date|habit|vice|weekday)")

	return cmd
}

func runTrend(cmd *cobra.Command, opts *TrendOptions) error {
	f := opts.formatter(cmd)
	switch opts.By {
	case TrendByDate, TrendByHabit, TrendByVice, TrendByWeekday:
	default:
		return usageError(f, "invalid --by %q: must be one of date, habit, vice, weekday", opts.By)
	}

	return withSession(cmd, opts.RootOptions, func(ctx context.Context, s *session) error {
		from, to, err := opts.window(f, s.engine.Today())
		if err != nil {
			return err
		}

		switch opts.By {
		case TrendByHabit:
			rates, err := s.engine.HabitCompletion(ctx, from, to)
			if err != nil {
				return f.Fail("failed to compute completion", err)
			}
			return f.Render(rates, func(w io.Writer) { writeHabitRates(w, rates) })
		case TrendByVice:
			counts, err := s.engine.ViceFrequency(ctx, from, to)
			if err != nil {
				return f.Fail("failed to compute vice frequency", err)
			}
			return f.Render(counts, func(w io.Writer) { writeViceCounts(w, counts) })
		case TrendByWeekday:
			days, err := s.engine.DayOfWeek(ctx, from, to)
			if err != nil {
				return f.Fail("failed to compute weekday averages", err)
			}
			return f.Render(days, func(w io.Writer) { writeWeekdays(w, days) })
		default:
			points, err := s.engine.Trend(ctx, from, to)
			if err != nil {
				return f.Fail("failed to compute trend", err)
			}
			return f.Render(points, func(w io.Writer) { writeTrend(w, points) })
		}
	})
}

func writeTrend(w io.Writer, points []analytics.TrendPoint) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tFINAL\tBASE\tSTREAK\tAVG7")
	for _, p := range points {
		avg := "-"
		if p.MovingAvg7d != nil {
			avg = fmt.Sprintf("%.3f", *p.MovingAvg7d)
		}
		fmt.Fprintf(tw, "%s\t%.3f\t%.3f\t%d\t%s\n", p.Date, p.FinalScore, p.BaseScore, p.Streak, avg)
	}
	tw.Flush()
}

func writeHabitRates(w io.Writer, rates []analytics.HabitRate) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "HABIT\tCATEGORY\tDONE\tRATE")
	for _, r := range rates {
		fmt.Fprintf(tw, "%s\t%s\t%d/%d\t%.0f%%\n", r.Habit, r.Category, r.DaysCompleted, r.TotalDays, r.Rate*100)
	}
	tw.Flush()
}

func writeViceCounts(w io.Writer, counts []analytics.ViceCount) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "VICE\tMODE\tDAYS\tINSTANCES")
	for _, c := range counts {
		inst := "-"
		if c.Mode == ir.PenaltyPerInstance {
			inst = fmt.Sprintf("%d", c.Instances)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d/%d\t%s\n", c.Vice, c.Mode, c.Days, c.TotalDays, inst)
	}
	tw.Flush()
}

func writeWeekdays(w io.Writer, days []analytics.WeekdayAverage) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DAY\tAVERAGE\tDAYS")
	for _, d := range days {
		avg := "-"
		if d.Average != nil {
			avg = fmt.Sprintf("%.3f", *d.Average)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\n", d.Name, avg, d.Count)
	}
	tw.Flush()
}
