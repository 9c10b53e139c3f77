package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/dayscore/internal/catalog"
	"github.com/roach88/dayscore/internal/engine"
	"github.com/roach88/dayscore/internal/ir"
)

// InitOptions holds flags for the init command.
type InitOptions struct {
	*RootOptions
	Force bool
}

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InitOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the database with the built-in catalog",
		Long: `Create the database and import the built-in habit catalog and scoring
config. Refuses to touch a database that already has a catalog unless
--force is given; stored scores are never changed.

Examples:
  dayscore init
  dayscore --db ~/habits.db init --force`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Force, "force", false, "replace an existing catalog")

	return cmd
}

func runInit(cmd *cobra.Command, opts *InitOptions) error {
	f := opts.formatter(cmd)
	return withSession(cmd, opts.RootOptions, func(ctx context.Context, s *session) error {
		_, err := s.engine.Snapshot(ctx)
		switch {
		case err == nil && !opts.Force:
			return usageError(f, "database %s already has a catalog (use --force to replace it)", opts.Database)
		case err != nil && !engine.IsCatalogError(err):
			return f.Fail("failed to read catalog", err)
		}

		if err := s.engine.Init(ctx); err != nil {
			return f.Fail("failed to import catalog", err)
		}
		doc := catalog.Default()
		return f.Render(map[string]any{
			"database": opts.Database,
			"habits":   len(doc.Habits),
		}, func(w io.Writer) {
			fmt.Fprintf(w, "Initialized %s with %d habits.\n", opts.Database, len(doc.Habits))
		})
	})
}

// HabitsOptions holds flags for the habits commands.
type HabitsOptions struct {
	*RootOptions
	All bool
}

// NewHabitsCommand creates the habits command group.
func NewHabitsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HabitsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "habits",
		Short: "List and retire catalog habits",
	}

	list := &cobra.Command{
		Use:           "list",
		Short:         "List the habit catalog",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHabitsList(cmd, opts)
		},
	}
	list.Flags().BoolVar(&opts.All, "all", false, "include retired habits")

	retire := &cobra.Command{
		Use:   "retire <name>",
		Short: "Retire a habit",
		Long: `Retire a habit. It stops counting toward future scores; stored scores
and history are kept. The last active good habit cannot be retired.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHabitsRetire(cmd, opts, args[0])
		},
	}

	cmd.AddCommand(list, retire)
	return cmd
}

func runHabitsList(cmd *cobra.Command, opts *HabitsOptions) error {
	f := opts.formatter(cmd)
	return withSession(cmd, opts.RootOptions, func(ctx context.Context, s *session) error {
		habits, err := s.engine.Habits(ctx, !opts.All)
		if err != nil {
			return f.Fail("failed to list habits", err)
		}
		return f.Render(habits, func(w io.Writer) {
			writeHabits(w, habits)
		})
	})
}

func writeHabits(w io.Writer, habits []ir.HabitDefinition) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tPOOL\tCATEGORY\tINPUT\tWEIGHT\tSTATUS")
	for _, h := range habits {
		weight := fmt.Sprintf("%g", h.Points)
		if h.Pool == ir.PoolVice {
			weight = fmt.Sprintf("-%g", h.Penalty)
			if h.PenaltyMode == ir.PenaltyTiered {
				weight = "tiered"
			}
		}
		status := "active"
		if !h.Active {
			status = "retired"
		}
		category := string(h.Category)
		if category == "" {
			category = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", h.Name, h.Pool, category, h.InputType, weight, status)
	}
	tw.Flush()
}

func runHabitsRetire(cmd *cobra.Command, opts *HabitsOptions, name string) error {
	f := opts.formatter(cmd)
	return withSession(cmd, opts.RootOptions, func(ctx context.Context, s *session) error {
		if err := s.engine.RetireHabit(ctx, name); err != nil {
			return f.Fail("failed to retire habit", err)
		}
		return f.Render(map[string]string{"retired": name}, func(w io.Writer) {
			fmt.Fprintf(w, "Retired %s.\n", name)
		})
	})
}

// NewConfigCommand creates the config command group.
func NewConfigCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or load the catalog and scoring config",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the catalog and scoring config",
		Long: `Print the full catalog and scoring config. The text form is YAML that
config load accepts back.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(cmd, rootOpts)
		},
	}

	load := &cobra.Command{
		Use:   "load <file>",
		Short: "Replace the catalog and scoring config",
		Long: `Replace the catalog and scoring config from a .cue file, a directory of
.cue files, or a .yaml file. Stored scores are not changed; run recompute
to apply the new config to history.

Examples:
  dayscore config load habits.cue
  dayscore config show > habits.yaml && dayscore config load habits.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigLoad(cmd, rootOpts, args[0])
		},
	}

	cmd.AddCommand(show, load)
	return cmd
}

func runConfigShow(cmd *cobra.Command, opts *RootOptions) error {
	f := opts.formatter(cmd)
	return withSession(cmd, opts, func(ctx context.Context, s *session) error {
		snap, err := s.engine.Snapshot(ctx)
		if err != nil {
			return f.Fail("failed to read catalog", err)
		}
		doc := &catalog.Document{Habits: snap.Habits, Config: snap.Config}
		if f.Format == "json" {
			return f.Success(doc)
		}
		return catalog.EncodeYAML(f.Writer, doc)
	})
}

func runConfigLoad(cmd *cobra.Command, opts *RootOptions, path string) error {
	f := opts.formatter(cmd)
	doc, err := catalog.Load(path)
	if err != nil {
		return f.Fail("failed to load catalog", err)
	}
	f.VerboseLog("Loaded %d habits from %s", len(doc.Habits), path)

	return withSession(cmd, opts, func(ctx context.Context, s *session) error {
		if err := s.engine.ImportCatalog(ctx, doc); err != nil {
			return f.Fail("failed to import catalog", err)
		}
		return f.Render(map[string]any{
			"path":   path,
			"habits": len(doc.Habits),
		}, func(w io.Writer) {
			fmt.Fprintf(w, "Loaded %d habits from %s. Run recompute to rescore history.\n", len(doc.Habits), path)
		})
	})
}
