package parameter

import "time"

// Audio Hardware Settings
const (
	AudioSampleRate = 48000
	AudioChannels   = 2

	// AudioBufferDuration determines speaker latency
	AudioBufferDuration = 100 * time.Millisecond

	// AudioResampleQuality is passed to beep resamplers (1..64)
	AudioResampleQuality = 4
)

// Synthesized clips stand in for assets without a file path
const (
	SynthClipAttack   = 4 * time.Millisecond
	SynthClipDecay    = 9.0 // exponential decay rate per second
	SynthTouchFreq    = 220.0
	SynthSlideFreq    = 95.0
	DefaultClipLength = 0.25 // seconds
)
