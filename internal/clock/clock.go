package clock

import (
	"sync"
	"time"
)

// Clock provides the current instant.
type Clock interface {
	Now() time.Time
}

// Live reads the wall clock in UTC.
type Live struct{}

func (Live) Now() time.Time {
	return time.Now().UTC()
}

// Stopped returns a fixed instant until it is moved.
type Stopped struct {
	mu  sync.Mutex
	now time.Time
}

func NewStopped(now time.Time) *Stopped {
	return &Stopped{now: now.UTC()}
}

func (c *Stopped) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Stopped) Set(now time.Time) {
	c.mu.Lock()
	c.now = now.UTC()
	c.mu.Unlock()
}

// Advance moves the clock forward by d and returns the new instant.
func (c *Stopped) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}
