package catalog

import (
	"github.com/chewxy/math32"
)

// Rolloff selects the distance attenuation curve applied by the back end
type Rolloff uint8

const (
	RolloffLogarithmic Rolloff = iota
	RolloffLinear
	RolloffCustom
)

// ParseRolloff maps a config string to a Rolloff, defaulting to logarithmic
func ParseRolloff(s string) Rolloff {
	switch s {
	case "linear":
		return RolloffLinear
	case "custom":
		return RolloffCustom
	default:
		return RolloffLogarithmic
	}
}

func (r Rolloff) String() string {
	switch r {
	case RolloffLinear:
		return "linear"
	case RolloffCustom:
		return "custom"
	default:
		return "logarithmic"
	}
}

// MixParams is the flat set of mixer parameters handed to the audio back end
type MixParams struct {
	Mute                  bool
	BypassEffects         bool
	BypassListenerEffects bool
	BypassReverbZones     bool

	Priority      int     // 0..256
	Volume        float32 // 0..1
	Pitch         float32 // -3..3
	StereoPan     float32 // -1..1
	SpatialBlend  float32 // 0..1
	ReverbZoneMix float32 // 0..1.1

	DopplerLevel float32 // 0..5
	Spread       float32 // 0..360 degrees
	Rolloff      Rolloff
	MinDistance  float32
	MaxDistance  float32
}

// DefaultMixParams returns authoring defaults
func DefaultMixParams() MixParams {
	return MixParams{
		Priority:      128,
		Volume:        1,
		Pitch:         1,
		ReverbZoneMix: 1,
		DopplerLevel:  1,
		Rolloff:       RolloffLogarithmic,
		MinDistance:   1,
		MaxDistance:   500,
	}
}

// Clamp limits every parameter to its authoring range
func (m MixParams) Clamp() MixParams {
	if m.Priority < 0 {
		m.Priority = 0
	} else if m.Priority > 256 {
		m.Priority = 256
	}
	m.Volume = clamp(m.Volume, 0, 1)
	m.Pitch = clamp(m.Pitch, -3, 3)
	m.StereoPan = clamp(m.StereoPan, -1, 1)
	m.SpatialBlend = clamp(m.SpatialBlend, 0, 1)
	m.ReverbZoneMix = clamp(m.ReverbZoneMix, 0, 1.1)
	m.DopplerLevel = clamp(m.DopplerLevel, 0, 5)
	m.Spread = clamp(m.Spread, 0, 360)
	m.MinDistance = math32.Max(m.MinDistance, 0)
	m.MaxDistance = math32.Max(m.MaxDistance, m.MinDistance)
	return m
}

func clamp(v, lo, hi float32) float32 {
	return math32.Min(math32.Max(v, lo), hi)
}

// SoundConfiguration pairs touch and slide clips with mixing parameters
// Immutable once registered
type SoundConfiguration struct {
	Name      string
	TouchClip string
	SlideClip string
	Mix       MixParams
}

// Clip is an audio asset reference
type Clip struct {
	Name   string
	Length float64 // seconds at pitch 1
	Path   string  // optional; back ends synthesize a stand-in when empty
}
