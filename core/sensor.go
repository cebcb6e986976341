package core

// CollisionFilter selects which layers a query can hit
// A query hits a body when each side's BelongsTo overlaps the other's CollidesWith
type CollisionFilter struct {
	BelongsTo    uint32
	CollidesWith uint32
	GroupIndex   int32
}

// DefaultFilter belongs to and collides with everything
var DefaultFilter = CollisionFilter{BelongsTo: ^uint32(0), CollidesWith: ^uint32(0)}

// CanCollide reports whether two filters accept each other
// Equal positive group indices always collide, equal negative never do
func (f CollisionFilter) CanCollide(other CollisionFilter) bool {
	if f.GroupIndex != 0 && f.GroupIndex == other.GroupIndex {
		return f.GroupIndex > 0
	}
	return f.BelongsTo&other.CollidesWith != 0 && other.BelongsTo&f.CollidesWith != 0
}

// RaySensor marks an entity that probes for contacts with a short ray
type RaySensor struct {
	// Owner supplies the velocity for the impulse estimate, usually the body carrying the sensor
	// The interaction itself is tracked on the sensor entity
	Owner            Entity
	MinSoundVelocity float32 // 0..1, fraction of the velocity normalization threshold
	Filter           CollisionFilter
}
