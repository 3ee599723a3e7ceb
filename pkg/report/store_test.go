package report

import (
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenStore(filepath.Join(t.TempDir(), "results.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreSaveAndHistory(t *testing.T) {
	s := openTestStore(t)
	results := scoredFixture()

	if err := s.SaveRun("run_001", results); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveRun("run_002", results); err != nil {
		t.Fatal(err)
	}

	runs, err := s.History(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].RunID != "run_002" {
		t.Errorf("newest run first, got %s", runs[0].RunID)
	}
	if runs[0].Winner != results[0].Database {
		t.Errorf("winner = %s, want %s", runs[0].Winner, results[0].Database)
	}
	if runs[0].Margin <= 0 {
		t.Errorf("margin = %v, want > 0", runs[0].Margin)
	}
}

func TestStoreRejectsDuplicateRunID(t *testing.T) {
	s := openTestStore(t)
	results := scoredFixture()

	if err := s.SaveRun("run_001", results); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveRun("run_001", results); err == nil {
		t.Error("expected primary key violation for duplicate run id")
	}
}

func TestStorePrune(t *testing.T) {
	s := openTestStore(t)
	results := scoredFixture()

	for _, id := range []string{"run_001", "run_002", "run_003"} {
		if err := s.SaveRun(id, results); err != nil {
			t.Fatal(err)
		}
	}

	deleted, err := s.Prune(1)
	if err != nil {
		t.Fatal(err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2", deleted)
	}

	runs, err := s.History(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].RunID != "run_003" {
		t.Errorf("expected only the newest run to survive, got %+v", runs)
	}
}
