package engine

import (
	"sync"
	"sync/atomic"
	"time"
)

// PausableClock measures simulation time: elapsed wall time minus paused spans
type PausableClock struct {
	mu     sync.RWMutex
	source TimeProvider
	start  time.Time

	paused      atomic.Bool
	pauseStart  time.Time
	pausedTotal time.Duration
}

// NewPausableClock starts a clock on source; nil uses the system clock
func NewPausableClock(source TimeProvider) *PausableClock {
	if source == nil {
		source = NewMonotonicTimeProvider()
	}
	return &PausableClock{source: source, start: source.Now()}
}

// Elapsed returns simulation time since the clock started
// While paused it stays frozen at the pause point
func (c *PausableClock) Elapsed() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.paused.Load() {
		return c.pauseStart.Sub(c.start) - c.pausedTotal
	}
	return c.source.Now().Sub(c.start) - c.pausedTotal
}

// Seconds returns Elapsed as float seconds, the unit interaction timestamps use
func (c *PausableClock) Seconds() float64 {
	return c.Elapsed().Seconds()
}

// Now returns the simulation instant as a time
func (c *PausableClock) Now() time.Time {
	return c.start.Add(c.Elapsed())
}

// RealTime returns wall time from the underlying source
func (c *PausableClock) RealTime() time.Time {
	return c.source.Now()
}

func (c *PausableClock) Pause() {
	if c.paused.Load() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.paused.CompareAndSwap(false, true) {
		c.pauseStart = c.source.Now()
	}
}

func (c *PausableClock) Resume() {
	if !c.paused.Load() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.paused.CompareAndSwap(true, false) {
		c.pausedTotal += c.source.Now().Sub(c.pauseStart)
		c.pauseStart = time.Time{}
	}
}

func (c *PausableClock) IsPaused() bool {
	return c.paused.Load()
}

// PausedFor returns total paused time, including a pause in progress
func (c *PausableClock) PausedFor() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()

	total := c.pausedTotal
	if c.paused.Load() {
		total += c.source.Now().Sub(c.pauseStart)
	}
	return total
}
