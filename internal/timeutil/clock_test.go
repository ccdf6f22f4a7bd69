package timeutil

import (
	"testing"
	"time"
)

func TestRealClock_Now(t *testing.T) {
	clock := RealClock{}
	before := time.Now()
	now := clock.Now()
	after := time.Now()

	if now.Before(before) || now.After(after) {
		t.Errorf("Now() = %v, expected between %v and %v", now, before, after)
	}
}

func TestRealClock_Since(t *testing.T) {
	clock := RealClock{}
	past := time.Now().Add(-time.Second)
	d := clock.Since(past)

	if d < time.Second {
		t.Errorf("Since() returned %v, expected >= 1s", d)
	}
}

func TestMockClock_AdvanceAndSet(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := NewMockClock(start)

	clock.Advance(250 * time.Millisecond)
	if got := clock.Since(start); got != 250*time.Millisecond {
		t.Errorf("Since() = %v, want 250ms", got)
	}

	later := start.Add(time.Hour)
	clock.Set(later)
	if !clock.Now().Equal(later) {
		t.Errorf("Now() = %v, want %v", clock.Now(), later)
	}
}

func TestStopwatch_Seconds(t *testing.T) {
	clock := NewMockClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	sw := NewStopwatch(clock)

	if got := sw.Seconds(); got != 0 {
		t.Errorf("Seconds() at start = %v, want 0", got)
	}

	clock.Advance(1500 * time.Millisecond)
	if got := sw.Seconds(); got != 1.5 {
		t.Errorf("Seconds() = %v, want 1.5", got)
	}

	sw.Restart()
	clock.Advance(100 * time.Millisecond)
	if got := sw.Seconds(); got < 0.0999 || got > 0.1001 {
		t.Errorf("Seconds() after restart = %v, want 0.1", got)
	}
}

func TestStopwatch_NilClockUsesRealClock(t *testing.T) {
	sw := NewStopwatch(nil)
	if got := sw.Seconds(); got < 0 {
		t.Errorf("Seconds() = %v, want non-negative", got)
	}
}
