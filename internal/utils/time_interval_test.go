package utils

import (
	"testing"
	"time"
)

func TestNewTimeIntervalRejectsInvertedRange(t *testing.T) {
	start := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	if _, err := NewTimeInterval(start, end); err == nil {
		t.Error("expected error for end before start")
	}
}

func TestLastWindow(t *testing.T) {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	ti, err := NewTimeInterval(start, end)
	if err != nil {
		t.Fatal(err)
	}

	w := ti.LastWindow(time.Hour)
	if !w.End().Equal(end) {
		t.Errorf("window end = %v, want %v", w.End(), end)
	}
	if !w.Start().Equal(end.Add(-time.Hour)) {
		t.Errorf("window start = %v, want %v", w.Start(), end.Add(-time.Hour))
	}

	clipped := ti.LastWindow(48 * time.Hour)
	if !clipped.Start().Equal(start) {
		t.Errorf("oversized window start = %v, want clipped to %v", clipped.Start(), start)
	}
	if clipped.Duration() != 24*time.Hour {
		t.Errorf("clipped duration = %v, want 24h", clipped.Duration())
	}
}

func TestParseUTCTime(t *testing.T) {
	got, err := ParseUTCTime("2025-01-01T08:30:00Z")
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2025, 1, 1, 8, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}

	if _, err := ParseUTCTime("not a timestamp"); err == nil {
		t.Error("expected error for malformed timestamp")
	}
}

func TestIsIn(t *testing.T) {
	arr := []string{"alpha", "beta"}
	if !IsIn("beta", arr) {
		t.Error("beta should be found")
	}
	if IsIn("gamma", arr) {
		t.Error("gamma should not be found")
	}
}
