package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// AssertGolden compares a result's snapshot against
// testdata/golden/{name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func AssertGolden(t *testing.T, name string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, result.Output)
}

// GoldenPath returns the golden file for a suite file: a golden directory
// beside the directory holding the suite, keyed by the suite file name.
// testdata/vectors/scoring.yaml pins testdata/golden/scoring.golden.
func GoldenPath(suitePath string) string {
	root := filepath.Dir(filepath.Dir(suitePath))
	return filepath.Join(root, "golden", SuiteName(suitePath)+".golden")
}

// WriteGolden writes the result snapshot to its golden file.
func WriteGolden(result *Result) error {
	path := GoldenPath(result.Path)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create golden directory: %w", err)
	}
	if err := os.WriteFile(path, result.Output, 0644); err != nil {
		return fmt.Errorf("failed to write golden file: %w", err)
	}
	return nil
}

// CompareGolden reports whether the result snapshot matches its golden file.
// found is false when no golden file exists.
func CompareGolden(result *Result) (match, found bool, err error) {
	data, err := os.ReadFile(GoldenPath(result.Path))
	if os.IsNotExist(err) {
		return false, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("failed to read golden file: %w", err)
	}
	return bytes.Equal(data, result.Output), true, nil
}
