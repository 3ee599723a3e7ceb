package utils

import (
	"fmt"
	"time"
)

const ErrEndBeforeStart = "end time before start time"

// TimeInterval is a half-open [start, end) window used to scope benchmark
// queries to a slice of the dataset.
type TimeInterval struct {
	start time.Time
	end   time.Time
}

func NewTimeInterval(start, end time.Time) (*TimeInterval, error) {
	if end.Before(start) {
		return nil, fmt.Errorf(ErrEndBeforeStart)
	}
	return &TimeInterval{start.UTC(), end.UTC()}, nil
}

func (ti *TimeInterval) Duration() time.Duration {
	return ti.end.Sub(ti.start)
}

// LastWindow returns the trailing window of the interval, clipped to the
// interval itself when the window is longer than the data.
func (ti *TimeInterval) LastWindow(window time.Duration) *TimeInterval {
	start := ti.end.Add(-window)
	if start.Before(ti.start) {
		start = ti.start
	}
	return &TimeInterval{start, ti.end}
}

func (ti *TimeInterval) Start() time.Time {
	return ti.start
}

func (ti *TimeInterval) StartUnixNano() int64 {
	return ti.start.UnixNano()
}

func (ti *TimeInterval) StartString() string {
	return ti.start.Format(time.RFC3339)
}

func (ti *TimeInterval) End() time.Time {
	return ti.end
}

func (ti *TimeInterval) EndUnixNano() int64 {
	return ti.end.UnixNano()
}

func (ti *TimeInterval) EndString() string {
	return ti.end.Format(time.RFC3339)
}
