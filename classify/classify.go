// Package classify decides whether a contact plays a touch sound, a slide sound, or nothing
//
// The touch test compares simulation time deltas only. A long frame can turn an
// ongoing slide into a new touch, and a large threshold hides quick re-touches.
// Callers rely on this exact policy, so no debouncing is layered on top.
package classify

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/lixenwraith/contact-audio/core"
	"github.com/lixenwraith/contact-audio/interaction"
	"github.com/lixenwraith/contact-audio/parameter"
)

// Decision is the outcome of classifying one contact
type Decision uint8

const (
	Ignore Decision = iota
	Touch
	Slide
)

func (d Decision) String() string {
	switch d {
	case Touch:
		return "touch"
	case Slide:
		return "slide"
	default:
		return "ignore"
	}
}

// Triggered reports whether the decision plays a sound
func (d Decision) Triggered() bool {
	return d != Ignore
}

// IsTouch reports a contact after a gap longer than the touch threshold
func IsTouch(slot *interaction.Interaction, now float64) bool {
	return now-slot.UpdatedTime > parameter.TouchThresholdTime
}

// IsPreviousSoundPlayed reports whether the last scheduled playback has ended
func IsPreviousSoundPlayed(slot *interaction.Interaction, now float64) bool {
	return slot.PlaybackEnd < now
}

// IsSliding reports whether the owner moved or turned more than SlidingDelta on any component
func IsSliding(slot *interaction.Interaction, pose core.Pose) bool {
	prev := slot.Pose
	for i := 0; i < 3; i++ {
		if math32.Abs(prev.Position[i]-pose.Position[i]) > parameter.SlidingDelta {
			return true
		}
		if math32.Abs(prev.Rotation.V[i]-pose.Rotation.V[i]) > parameter.SlidingDelta {
			return true
		}
	}
	return math32.Abs(prev.Rotation.W-pose.Rotation.W) > parameter.SlidingDelta
}

// Decide classifies a contact against its slot without modifying it
func Decide(slot *interaction.Interaction, now float64, pose core.Pose) Decision {
	if IsTouch(slot, now) {
		return Touch
	}
	if IsPreviousSoundPlayed(slot, now) && IsSliding(slot, pose) {
		return Slide
	}
	return Ignore
}

// VolumeScale maps an impulse to 0..1
func VolumeScale(impulse float32) float32 {
	return math32.Max(0, math32.Min(1, impulse/parameter.MaxSumLinearVelocityThreshold))
}

// VelocityImpulse approximates impulse as the sum of absolute linear velocity components
func VelocityImpulse(v mgl32.Vec3) float32 {
	return math32.Abs(v[0]) + math32.Abs(v[1]) + math32.Abs(v[2])
}

// MinImpulse is the impulse floor for a configured minimum sound velocity
func MinImpulse(minSoundVelocity float32) float32 {
	return parameter.MaxSumLinearVelocityThreshold * minSoundVelocity
}
