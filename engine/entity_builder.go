package engine

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/lixenwraith/contact-audio/core"
)

// EntityBuilder assembles an entity's components before handing out its id
//
//	crate := world.NewEntity().
//		At(mgl32.Vec3{0, 2, 0}).
//		MakesSound(src).
//		Build()
type EntityBuilder struct {
	world  *World
	entity core.Entity
	built  bool
}

// NewEntity reserves an id and starts a builder
func (w *World) NewEntity() *EntityBuilder {
	return &EntityBuilder{world: w, entity: w.CreateEntity()}
}

// With adds a component of type T through its store
// Panics if called after Build
func With[T any](eb *EntityBuilder, store *Store[T], component T) *EntityBuilder {
	eb.mustOpen()
	store.Set(eb.entity, component)
	return eb
}

// At places the entity unrotated at pos
func (eb *EntityBuilder) At(pos mgl32.Vec3) *EntityBuilder {
	return With(eb, eb.world.Poses, core.PoseAt(pos))
}

func (eb *EntityBuilder) WithPose(p core.Pose) *EntityBuilder {
	return With(eb, eb.world.Poses, p)
}

func (eb *EntityBuilder) WithVelocity(v mgl32.Vec3) *EntityBuilder {
	return With(eb, eb.world.Velocities, v)
}

// WithSound makes the entity a configuration provider for entities that hit it
func (eb *EntityBuilder) WithSound(src core.SoundSource) *EntityBuilder {
	return With(eb, eb.world.Sounds, src)
}

// MakesSound adds the source and an interaction tracker
func (eb *EntityBuilder) MakesSound(src core.SoundSource) *EntityBuilder {
	eb.WithSound(src)
	return With(eb, eb.world.Trackers, &Tracker{})
}

// WithSensor adds a ray sensor; combine with MakesSound so hits are tracked
func (eb *EntityBuilder) WithSensor(s core.RaySensor) *EntityBuilder {
	return With(eb, eb.world.Sensors, s)
}

// Build finalizes the entity and returns its id
func (eb *EntityBuilder) Build() core.Entity {
	eb.built = true
	return eb.entity
}

func (eb *EntityBuilder) mustOpen() {
	if eb.built {
		panic("entity already built - cannot add components after Build()")
	}
}
