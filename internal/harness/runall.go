package harness

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"
)

// FindSuites returns every .yaml and .yml file under dir, sorted.
// A non-empty filter is a glob matched against the file name without its
// extension.
func FindSuites(dir, filter string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}
		if filter != "" {
			matched, err := filepath.Match(filter, strings.TrimSuffix(d.Name(), ext))
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(files)
	return files, nil
}

// RunAll loads and runs each suite file, at most limit at a time (no limit
// when limit <= 0). Results come back in path order.
//
// A file that fails to load or run yields a failed result carrying the error;
// RunAll itself only fails when ctx is cancelled.
func RunAll(ctx context.Context, paths []string, limit int) ([]*Result, error) {
	results := make([]*Result, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = runFile(path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func runFile(path string) *Result {
	name := SuiteName(path)

	suite, err := LoadSuite(path)
	if err != nil {
		res := NewResult(name)
		res.Path = path
		res.AddError(fmt.Sprintf("failed to load suite: %v", err))
		return res
	}

	res, err := RunSuite(suite)
	if err != nil {
		res = NewResult(suite.Name)
		res.AddError(fmt.Sprintf("execution failed: %v", err))
	}
	res.Path = path
	return res
}

// SuiteName is the file name of a suite without its extension. Golden files
// are keyed by it.
func SuiteName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
