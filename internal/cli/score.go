package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/dayscore/internal/harness"
	"github.com/roach88/dayscore/internal/ir"
)

// NewScoreCommand creates the score command.
func NewScoreCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "score <file>",
		Short: "Score one day from a YAML file without a database",
		Long: `Run the scoring engine on a single case. The file holds either an entry
scored against the built-in catalog, or a raw scoring input, plus an
optional previous_streak and config overrides. Nothing is stored.

Example file:
  previous_streak: 3
  config: { vice_cap: 0.3 }
  entry:
    values: { gym: 1, read: 1, phone_use: 200 }
    labels: { meal_quality: Good }`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(cmd, rootOpts, args[0])
		},
	}
}

// loadScoreCase decodes a single scoring case. Unknown fields are errors.
func loadScoreCase(path string) (*harness.Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}
	var c harness.Case
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &c, nil
}

func runScore(cmd *cobra.Command, opts *RootOptions, path string) error {
	f := opts.formatter(cmd)
	c, err := loadScoreCase(path)
	if err != nil {
		return usageError(f, "%v", err)
	}
	out, err := harness.Score(c)
	if err != nil {
		return usageError(f, "%s: %v", path, err)
	}
	return f.Render(out, func(w io.Writer) {
		writeOutput(w, out)
	})
}

func writeOutput(w io.Writer, out ir.ScoringOutput) {
	fmt.Fprintf(w, "positive_score  %.4f\n", out.PositiveScore)
	fmt.Fprintf(w, "vice_penalty    %.4f\n", out.VicePenalty)
	fmt.Fprintf(w, "base_score      %.4f\n", out.BaseScore)
	fmt.Fprintf(w, "streak          %d\n", out.Streak)
	fmt.Fprintf(w, "final_score     %.4f\n", out.FinalScore)
}

// RecomputeOptions holds flags for the recompute command.
type RecomputeOptions struct {
	*RootOptions
	From string
}

// NewRecomputeCommand creates the recompute command.
func NewRecomputeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RecomputeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "recompute",
		Short: "Rescore stored history with the current config",
		Long: `Rescore every stored day on or after --from (all history when unset)
with the current catalog and scoring config. Config changes only reach
history through this command.

Examples:
  dayscore recompute
  dayscore recompute --from 2026-01-01`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecompute(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.From, "from", "", "first date to rescore (YYYY-MM-DD)")

	return cmd
}

func runRecompute(cmd *cobra.Command, opts *RecomputeOptions) error {
	f := opts.formatter(cmd)
	return withSession(cmd, opts.RootOptions, func(ctx context.Context, s *session) error {
		from, err := parseOptionalDate(opts.From, s.engine.Today())
		if err != nil {
			return usageError(f, "--from: %v", err)
		}

		updates, err := s.engine.Recompute(ctx, from)
		if err != nil {
			return f.Fail("failed to recompute", err)
		}
		return f.Render(updates, func(w io.Writer) {
			fmt.Fprintf(w, "Rescored %d days.\n", len(updates))
			for _, u := range updates {
				f.VerboseLog("  %s  final %.3f  streak %d", u.Date, u.FinalScore, u.Streak)
			}
		})
	})
}
