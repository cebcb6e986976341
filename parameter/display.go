package parameter

import "time"

// Frame rate meter
const (
	// FrameRateSmoothing is the exponential blend factor for frame delta
	FrameRateSmoothing = 0.1

	// FrameRateRefresh throttles how often the displayed value changes
	FrameRateRefresh = 500 * time.Millisecond
)

// Simulation tick
const (
	DefaultTickInterval = 16 * time.Millisecond
)
