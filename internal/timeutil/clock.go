// Package timeutil provides a testable abstraction over time operations.
package timeutil

import (
	"sync"
	"time"
)

// Clock provides an abstraction over time operations for testability.
type Clock interface {
	// Now returns the current time. Real clocks carry a monotonic reading.
	Now() time.Time

	// Since returns the duration since t.
	Since(t time.Time) time.Duration
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// Since returns the time elapsed since t. When t came from Now the
// monotonic clock is used, so wall-clock steps do not affect the result.
func (RealClock) Since(t time.Time) time.Duration {
	return time.Since(t)
}

// Stopwatch reports elapsed seconds from a fixed origin on a Clock.
// It is the time base for callers that do not supply frame timestamps.
type Stopwatch struct {
	clock  Clock
	origin time.Time
}

// NewStopwatch starts a stopwatch on clock. A nil clock uses RealClock.
func NewStopwatch(clock Clock) *Stopwatch {
	if clock == nil {
		clock = RealClock{}
	}
	return &Stopwatch{clock: clock, origin: clock.Now()}
}

// Seconds returns the seconds elapsed since the stopwatch was started or
// last restarted.
func (s *Stopwatch) Seconds() float64 {
	return s.clock.Since(s.origin).Seconds()
}

// Restart moves the origin to the clock's current time.
func (s *Stopwatch) Restart() {
	s.origin = s.clock.Now()
}

// MockClock is a manually controlled clock for testing.
type MockClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewMockClock creates a new MockClock set to the given time.
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{now: t}
}

// Now returns the mocked current time.
func (c *MockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set sets the mock clock to a specific time.
func (c *MockClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Advance moves the mock clock forward by the given duration.
func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Since returns the duration since t.
func (c *MockClock) Since(t time.Time) time.Duration {
	return c.Now().Sub(t)
}
