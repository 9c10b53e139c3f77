package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/dayscore/internal/harness"
)

// VectorsOptions holds flags for the vectors command.
type VectorsOptions struct {
	*RootOptions
	Update bool   // regenerate golden files
	Filter string // suite filter (glob pattern)
	Jobs   int    // suites run at once
}

// SuiteResult holds the result of a single suite file.
type SuiteResult struct {
	Name   string   `json:"name"`
	Path   string   `json:"path"`
	Pass   bool     `json:"pass"`
	Errors []string `json:"errors,omitempty"`
	Hash   string   `json:"output_hash,omitempty"`
}

// VectorsResult holds the overall vectors result.
type VectorsResult struct {
	Suites []SuiteResult `json:"suites"`
	Passed int           `json:"passed"`
	Failed int           `json:"failed"`
	Total  int           `json:"total"`
}

// NewVectorsCommand creates the vectors command.
func NewVectorsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &VectorsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "vectors <dir>",
		Short: "Run cross-validation vector suites",
		Long: `Run the cross-validation vectors: every YAML suite under a directory
goes through the scoring, cascade or correlation engine and its expected
values are checked within the suite's tolerance. When a golden file
exists beside the suite directory (../golden/<suite>.golden) the canonical
output must match it too.

Exit codes:
  0 - All suites passed
  1 - One or more suites failed
  2 - Command error (invalid paths, etc.)

Examples:
  dayscore vectors internal/harness/testdata/vectors
  dayscore vectors ./vectors --filter "c*"
  dayscore vectors ./vectors --update
  dayscore vectors ./vectors --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVectors(cmd, opts, args[0])
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter suites by glob pattern")
	cmd.Flags().IntVarP(&opts.Jobs, "jobs", "j", 4, "suites to run at once (0 = unlimited)")

	return cmd
}

func runVectors(cmd *cobra.Command, opts *VectorsOptions, dir string) error {
	// Validate directory
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return NewExitError(ExitCommandError, fmt.Sprintf("vectors directory not found: %s", dir))
	}

	paths, err := harness.FindSuites(dir, opts.Filter)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to find suites", err)
	}

	if len(paths) == 0 {
		if opts.Format == "json" {
			return outputVectorsJSON(cmd, VectorsResult{Suites: []SuiteResult{}})
		}
		fmt.Fprintln(cmd.OutOrStdout(), "No suites found.")
		return nil
	}

	results, err := harness.RunAll(cmd.Context(), paths, opts.Jobs)
	if err != nil {
		return WrapExitError(ExitCommandError, "vector run interrupted", err)
	}

	result := VectorsResult{
		Suites: make([]SuiteResult, 0, len(results)),
		Total:  len(results),
	}
	for _, res := range results {
		sr := checkSuite(cmd.OutOrStdout(), opts, res)
		result.Suites = append(result.Suites, sr)
		if sr.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	// Output results
	if opts.Format == "json" {
		return outputVectorsJSON(cmd, result)
	}
	return outputVectorsText(cmd, result)
}

// checkSuite applies the golden file step to a suite result and reports it.
func checkSuite(w io.Writer, opts *VectorsOptions, res *harness.Result) SuiteResult {
	sr := SuiteResult{Name: res.Suite, Path: res.Path, Pass: res.Pass, Errors: res.Errors, Hash: res.OutputHash}
	text := opts.Format != "json"

	// A suite that did not run has no output to pin.
	if res.Pass && res.Output != nil {
		if opts.Update {
			if err := harness.WriteGolden(res); err != nil {
				sr.Pass = false
				sr.Errors = append(sr.Errors, fmt.Sprintf("failed to update golden file: %v", err))
			} else if text {
				fmt.Fprintf(w, "✓ %s (golden updated)\n", res.Suite)
				return sr
			}
		} else {
			match, found, err := harness.CompareGolden(res)
			switch {
			case err != nil:
				sr.Pass = false
				sr.Errors = append(sr.Errors, fmt.Sprintf("golden comparison failed: %v", err))
			case found && !match:
				sr.Pass = false
				sr.Errors = append(sr.Errors, "output does not match golden file (run with --update to regenerate)")
			}
		}
	}

	if text {
		if sr.Pass {
			fmt.Fprintf(w, "✓ %s\n", res.Suite)
		} else {
			fmt.Fprintf(w, "✗ %s\n", res.Suite)
			for _, e := range sr.Errors {
				fmt.Fprintf(w, "  %s\n", e)
			}
		}
	}
	return sr
}

// outputVectorsJSON outputs the vectors result as JSON.
func outputVectorsJSON(cmd *cobra.Command, result VectorsResult) error {
	status := "ok"
	if result.Failed > 0 {
		status = "error"
	}

	response := CLIResponse{
		Status: status,
		Data:   result,
	}
	if result.Failed > 0 {
		response.Error = &CLIError{
			Code:    "E_VECTORS_FAILED",
			Message: fmt.Sprintf("%d suite(s) failed", result.Failed),
		}
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(response); err != nil {
		return err
	}

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d suite(s) failed", result.Failed))
	}
	return nil
}

// outputVectorsText outputs the vectors summary as text.
func outputVectorsText(cmd *cobra.Command, result VectorsResult) error {
	w := cmd.OutOrStdout()

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Vector Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d suite(s) failed", result.Failed))
	}

	fmt.Fprintln(w, "✓ All suites passed")
	return nil
}
