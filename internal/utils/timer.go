package utils

import "time"

// Timer measures one call. It remembers the wall-clock start so telemetry can
// stamp an entry with the moment the call began, and measures elapsed time on
// the monotonic clock.
type Timer struct {
	startTime time.Time
	duration  time.Duration
	stopped   bool
}

// NewTimer returns a running timer.
func NewTimer() *Timer {
	return &Timer{startTime: time.Now()}
}

// StartedAt is the wall-clock time the timer was started.
func (t *Timer) StartedAt() time.Time {
	return t.startTime
}

// Stop freezes the elapsed duration and returns it. Only the first call
// counts.
func (t *Timer) Stop() time.Duration {
	if !t.stopped {
		t.duration = time.Since(t.startTime)
		t.stopped = true
	}
	return t.duration
}

// GetDuration returns the frozen duration, or zero before Stop.
func (t *Timer) GetDuration() time.Duration {
	return t.duration
}
