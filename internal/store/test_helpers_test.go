package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/roach88/dayscore/internal/catalog"
	"github.com/roach88/dayscore/internal/ir"
	"github.com/roach88/dayscore/internal/testutil"
)

// createTestStore creates a new store in a temp dir with a fixed clock.
func createTestStore(t *testing.T) (*Store, *testutil.FixedClock) {
	t.Helper()
	clock := testutil.NewFixedClockAt("2026-03-01")
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, WithClock(clock))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s, clock
}

// createSeededStore creates a store holding the default catalog and config.
func createSeededStore(t *testing.T) (*Store, *testutil.FixedClock) {
	t.Helper()
	s, clock := createTestStore(t)
	if err := s.ReplaceCatalog(context.Background(), catalog.DefaultHabits(), catalog.DefaultConfig()); err != nil {
		t.Fatalf("ReplaceCatalog() failed: %v", err)
	}
	return s, clock
}

// saveDay applies an edit using the store's current catalog and config.
func saveDay(t *testing.T, s *Store, date string, e ir.Entry) EditResult {
	t.Helper()
	ctx := context.Background()
	habits, err := s.ListHabits(ctx, true)
	if err != nil {
		t.Fatalf("ListHabits() failed: %v", err)
	}
	cfg, err := s.LoadConfig(ctx)
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}
	b := catalog.NewBuilder(habits, cfg)
	res, err := s.ApplyEdit(ctx, ir.MustParseDate(date), e, b.BuildRow, cfg, "test-catalog")
	if err != nil {
		t.Fatalf("ApplyEdit(%s) failed: %v", date, err)
	}
	return res
}

// getTableIndexes returns the names of all indexes on a table.
func getTableIndexes(t *testing.T, db *sql.DB, table string) []string {
	t.Helper()
	rows, err := db.Query("SELECT name FROM sqlite_master WHERE type='index' AND tbl_name=?", table)
	if err != nil {
		t.Fatalf("query indexes: %v", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("scan index: %v", err)
		}
		names = append(names, name)
	}
	return names
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
