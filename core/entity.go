package core

// Entity is a unique identifier for a simulated body
type Entity uint64

// NullEntity marks an unoccupied reference
// World never issues it, so no live body compares equal to it
const NullEntity Entity = 0

// Valid reports whether e refers to an issued entity
func (e Entity) Valid() bool {
	return e != NullEntity
}
