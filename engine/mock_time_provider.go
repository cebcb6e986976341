package engine

import (
	"sync/atomic"
	"time"
)

// MockTimeProvider is a simulation clock stepped by hand
// Scheduler tests advance it between ticks to place contacts at exact sim times
type MockTimeProvider struct {
	origin time.Time
	offset atomic.Int64 // nanoseconds past origin
}

func NewMockTimeProvider(origin time.Time) *MockTimeProvider {
	return &MockTimeProvider{origin: origin}
}

func (m *MockTimeProvider) Now() time.Time {
	return m.origin.Add(time.Duration(m.offset.Load()))
}

// SetTime jumps the clock to t, which may be before the origin
func (m *MockTimeProvider) SetTime(t time.Time) {
	m.offset.Store(int64(t.Sub(m.origin)))
}

// Advance steps the clock by d
func (m *MockTimeProvider) Advance(d time.Duration) {
	m.offset.Add(int64(d))
}
