package testutil

import (
	"sync"
	"time"
)

// DefaultEpoch is the first reading of a StepClock created with NewStepClock.
var DefaultEpoch = time.UnixMilli(1_700_000_000_000)

// StepClock is a deterministic wall clock for tests.
//
// Every call to Now advances the clock by a fixed step, so consecutive
// writes get strictly increasing blockedAt stamps without sleeping.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type StepClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

// NewStepClock creates a clock starting at DefaultEpoch that advances one
// millisecond per reading.
func NewStepClock() *StepClock {
	return NewStepClockAt(DefaultEpoch, time.Millisecond)
}

// NewStepClockAt creates a clock whose first reading is start.
// A zero step freezes the clock.
func NewStepClockAt(start time.Time, step time.Duration) *StepClock {
	return &StepClock{now: start, step: step}
}

// Now returns the current reading and advances the clock by one step.
func (c *StepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

// Peek returns the next reading without advancing.
func (c *StepClock) Peek() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to t.
func (c *StepClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}
