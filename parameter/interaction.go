package parameter

// Interaction Table
const (
	// InteractionSlots is the number of peers one sound owner tracks at once
	InteractionSlots = 10

	// CleaningPercent places the eviction threshold at this fraction of the
	// oldest-to-newest update span; slots updated before it are evicted
	CleaningPercent = 0.8
)

// Classification thresholds, simulation seconds and world units
const (
	// TouchThresholdTime is the gap after which a contact counts as a new touch
	TouchThresholdTime = 0.1

	// SlidingDelta is the per-component pose change that counts as sliding
	// Applied to each position axis and each rotation quaternion component
	SlidingDelta = 0.01

	// MaxSumLinearVelocityThreshold normalizes impulse into the 0..1 volume scale
	MaxSumLinearVelocityThreshold = 25.0
)

// Ray Probe
const (
	// RayCastLength is the probe length along the owner's local down axis
	RayCastLength = 0.05
)
