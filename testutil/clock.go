package testutil

import (
	"sync"
	"time"
)

// ReferenceTime is the default starting instant for Clock.
func ReferenceTime() time.Time {
	return time.Date(2025, time.March, 1, 9, 0, 0, 0, time.UTC)
}

// Clock is a controllable time source. Services take its NowFunc.
type Clock struct {
	mu      sync.Mutex
	current time.Time
}

// NewClock returns a clock set to start, or ReferenceTime when start is zero.
func NewClock(start time.Time) *Clock {
	if start.IsZero() {
		start = ReferenceTime()
	}
	return &Clock{current: start}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// NowFunc exposes Now for dependency injection.
func (c *Clock) NowFunc() func() time.Time {
	return c.Now
}

func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	c.current = t
	c.mu.Unlock()
}

// Advance moves the clock forward by d and returns the new time.
func (c *Clock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
	return c.current
}
