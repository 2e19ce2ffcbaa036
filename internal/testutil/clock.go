package testutil

import (
	"sync"
	"time"
)

// FakeClock provides a deterministic wall clock for tests.
//
// Each call to Now advances the clock by a fixed step, so code that
// measures a duration as the difference of two Now calls observes
// exactly one step per measurement, independent of scheduler timing.
//
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type FakeClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

// NewFakeClock creates a clock that starts at a fixed epoch and advances
// by step on every Now call.
func NewFakeClock(step time.Duration) *FakeClock {
	return &FakeClock{
		now:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		step: step,
	}
}

// Now returns the current fake time, then advances the clock by one step.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

// Since returns the difference between the current fake time and t,
// without advancing the clock.
func (c *FakeClock) Since(t time.Time) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now.Sub(t)
}
