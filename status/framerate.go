package status

import (
	"time"

	"github.com/lixenwraith/contact-audio/parameter"
)

// FrameRate smooths frame deltas and publishes a display value at a limited rate
type FrameRate struct {
	delta       float64
	lastRefresh time.Time
	gauge       *AtomicFloat
}

// NewFrameRate publishes into gauge, which may be nil
func NewFrameRate(gauge *AtomicFloat) *FrameRate {
	if gauge == nil {
		gauge = new(AtomicFloat)
	}
	return &FrameRate{gauge: gauge}
}

// Observe folds one frame delta into the running average
// The displayed value refreshes at most once per FrameRateRefresh
func (f *FrameRate) Observe(now time.Time, dt time.Duration) {
	sec := dt.Seconds()
	if f.delta == 0 {
		f.delta = sec
	} else {
		f.delta += (sec - f.delta) * parameter.FrameRateSmoothing
	}

	if !f.lastRefresh.IsZero() && now.Sub(f.lastRefresh) < parameter.FrameRateRefresh {
		return
	}
	f.lastRefresh = now
	if f.delta > 0 {
		f.gauge.Set(1 / f.delta)
	}
}

// Value returns the last published frames per second
func (f *FrameRate) Value() float64 {
	return f.gauge.Get()
}
