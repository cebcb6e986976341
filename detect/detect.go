// Package detect turns physics contacts and sensor ray hits into classified interactions
//
// Both front ends share one allocation and classification path, so a contact is handled
// the same whichever detector sees it first in a tick.
package detect

import (
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/lixenwraith/contact-audio/classify"
	"github.com/lixenwraith/contact-audio/core"
	"github.com/lixenwraith/contact-audio/interaction"
	"github.com/lixenwraith/contact-audio/status"
)

// ContactDetails is the physics answer to a deferred detail query
type ContactDetails struct {
	Point   mgl32.Vec3 // average contact point
	Impulse float32    // estimated impulse
}

// ContactEvent is one colliding pair reported by a physics step
type ContactEvent struct {
	A, B core.Entity
	// Details is queried only when a sound triggers
	Details func() ContactDetails
}

// RayInput is a segment query against the physics world
type RayInput struct {
	From, To mgl32.Vec3
	Filter   core.CollisionFilter
}

// RayHit is the nearest body hit by a ray
type RayHit struct {
	Entity   core.Entity
	Position mgl32.Vec3
}

// RayCaster answers segment queries; implementations must allow concurrent calls
type RayCaster interface {
	CastRay(in RayInput) (RayHit, bool)
}

// Probe is a sensor entity with its ray settings
type Probe struct {
	Entity core.Entity
	Sensor core.RaySensor
}

// Registry exposes per-entity state to the front ends
// Track runs fn under the entity's tracker lock and reports false when the entity has no tracker.
type Registry interface {
	Trackable(e core.Entity) bool
	Track(e core.Entity, fn func(*interaction.Table)) bool
	SoundSource(e core.Entity) (core.SoundSource, bool)
	Pose(e core.Entity) (core.Pose, bool)
	Velocity(e core.Entity) (mgl32.Vec3, bool)
	Probes() []Probe
}

// tally holds counters shared by both front ends
type tally struct {
	touches     *atomic.Int64
	slides      *atomic.Int64
	cleaned     *atomic.Int64
	overwritten *atomic.Int64
}

func newTally(stats *status.Registry) tally {
	return tally{
		touches:     stats.Counter(status.KeyTouches),
		slides:      stats.Counter(status.KeySlides),
		cleaned:     stats.Counter(status.KeyCleaned),
		overwritten: stats.Counter(status.KeyOverwritten),
	}
}

// apply classifies one contact on owner's table under its lock
func (t *tally) apply(reg Registry, owner, peer core.Entity, now float64, pose core.Pose, resolve classify.ContactFunc) (classify.Result, bool) {
	var res classify.Result
	if !reg.Track(owner, func(table *interaction.Table) {
		res = classify.Classify(table, peer, now, pose, resolve)
	}) {
		return res, false
	}

	switch res.Decision {
	case classify.Touch:
		t.touches.Add(1)
	case classify.Slide:
		t.slides.Add(1)
	}
	switch res.Allocation {
	case interaction.AfterClean:
		t.cleaned.Add(1)
	case interaction.Overwritten:
		t.overwritten.Add(1)
	}
	return res, true
}
