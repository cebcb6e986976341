package parameter

// Reference physics world
const (
	Gravity = -9.81

	// GroundFriction is the fraction of horizontal velocity kept per second while resting
	GroundFriction = 0.35

	// RestitutionThreshold stops tiny bounces below this vertical speed
	RestitutionThreshold = 0.5
	Restitution          = 0.3
)

// Contact generation
const (
	// ContactSlop grows boxes before the overlap test so resting bodies keep reporting contact
	ContactSlop = 0.01

	// DefaultBodyMass is used when a dynamic body has no mass
	DefaultBodyMass = 1.0
)
