// Package physics is a small box-collider simulation feeding the detection front ends
//
// It stands in for a full physics engine: gravity, push-out against static boxes, impulse
// exchange between dynamic boxes, one contact event per touching pair per step, and
// segment ray casts.
package physics

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ethaniccc/float32-cube/cube/trace"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/lixenwraith/contact-audio/core"
	"github.com/lixenwraith/contact-audio/detect"
	"github.com/lixenwraith/contact-audio/parameter"
)

var (
	ErrNullEntity    = errors.New("physics: body without entity")
	ErrDuplicateBody = errors.New("physics: entity already has a body")
)

// PoseSink receives body transforms after each step
type PoseSink interface {
	SetPose(e core.Entity, p core.Pose)
	SetVelocity(e core.Entity, v mgl32.Vec3)
}

// World owns the bodies
// Step takes the write lock; CastRay only reads and may run from many goroutines
type World struct {
	mu      sync.RWMutex
	bodies  []*Body
	index   map[core.Entity]int
	sink    PoseSink
	gravity mgl32.Vec3
}

// NewWorld creates an empty world publishing into sink, which may be nil
func NewWorld(sink PoseSink) *World {
	return &World{
		index:   make(map[core.Entity]int),
		sink:    sink,
		gravity: mgl32.Vec3{0, parameter.Gravity, 0},
	}
}

// Add inserts a body and publishes its initial pose
func (w *World) Add(b Body) error {
	if !b.Entity.Valid() {
		return ErrNullEntity
	}
	if b.Rotation == (mgl32.Quat{}) {
		b.Rotation = mgl32.QuatIdent()
	}
	if b.Filter == (core.CollisionFilter{}) {
		b.Filter = core.DefaultFilter
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.index[b.Entity]; ok {
		return fmt.Errorf("%w: %d", ErrDuplicateBody, b.Entity)
	}
	w.index[b.Entity] = len(w.bodies)
	body := b
	w.bodies = append(w.bodies, &body)
	w.publish(&body)
	return nil
}

// Remove deletes e's body
func (w *World) Remove(e core.Entity) {
	w.mu.Lock()
	defer w.mu.Unlock()

	i, ok := w.index[e]
	if !ok {
		return
	}
	last := len(w.bodies) - 1
	w.bodies[i] = w.bodies[last]
	w.index[w.bodies[i].Entity] = i
	w.bodies = w.bodies[:last]
	delete(w.index, e)
}

// Body returns a copy of e's body
func (w *World) Body(e core.Entity) (Body, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	i, ok := w.index[e]
	if !ok {
		return Body{}, false
	}
	return *w.bodies[i], true
}

// Push adds dv to a dynamic body's velocity
func (w *World) Push(e core.Entity, dv mgl32.Vec3) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	i, ok := w.index[e]
	if !ok || w.bodies[i].Static {
		return false
	}
	w.bodies[i].Velocity = w.bodies[i].Velocity.Add(dv)
	return true
}

// Teleport moves a body and clears its velocity
func (w *World) Teleport(e core.Entity, pos mgl32.Vec3) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	i, ok := w.index[e]
	if !ok {
		return false
	}
	w.bodies[i].Position = pos
	w.bodies[i].Velocity = mgl32.Vec3{}
	w.publish(w.bodies[i])
	return true
}

func (w *World) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.bodies)
}

// Step advances the simulation by dt seconds and returns the contacts found after resolution
func (w *World) Step(dt float64) []detect.ContactEvent {
	w.mu.Lock()
	defer w.mu.Unlock()

	h := float32(dt)
	for _, b := range w.bodies {
		if b.Static {
			continue
		}
		b.Velocity = b.Velocity.Add(w.gravity.Mul(h))
		b.Position = b.Position.Add(b.Velocity.Mul(h))
		if spin := b.Spin.Len(); spin > 0 {
			turn := mgl32.QuatRotate(spin*h, b.Spin.Mul(1/spin))
			b.Rotation = turn.Mul(b.Rotation).Normalize()
		}
	}

	// Impact speeds are taken before resolution changes them
	impact := make([]mgl32.Vec3, len(w.bodies))
	for i, b := range w.bodies {
		impact[i] = b.Velocity
	}

	for _, b := range w.bodies {
		if b.Static {
			continue
		}
		for _, s := range w.bodies {
			if s.Static && b.Filter.CanCollide(s.Filter) {
				resolveStatic(b, s.WorldBox(), h)
			}
		}
	}
	for i, a := range w.bodies {
		for _, b := range w.bodies[i+1:] {
			if a.Static || b.Static || !a.Filter.CanCollide(b.Filter) {
				continue
			}
			if a.WorldBox().IntersectsWith(b.WorldBox()) {
				bounce(a, b, parameter.Restitution)
			}
		}
	}

	events := w.contacts(impact)
	for _, b := range w.bodies {
		if !b.Static {
			w.publish(b)
		}
	}
	return events
}

// contacts emits one event per touching pair with at least one dynamic side
func (w *World) contacts(impact []mgl32.Vec3) []detect.ContactEvent {
	var events []detect.ContactEvent
	for i, a := range w.bodies {
		for j := i + 1; j < len(w.bodies); j++ {
			b := w.bodies[j]
			if a.Static && b.Static || !a.Filter.CanCollide(b.Filter) {
				continue
			}
			boxA := a.WorldBox().Grow(parameter.ContactSlop)
			boxB := b.WorldBox().Grow(parameter.ContactSlop)
			if !boxA.IntersectsWith(boxB) {
				continue
			}

			relative := impact[i].Sub(impact[j])
			events = append(events, detect.ContactEvent{
				A: a.Entity,
				B: b.Entity,
				Details: func() detect.ContactDetails {
					d := detect.ContactDetails{Impulse: velocitySum(relative)}
					if o, ok := Overlap(boxA, boxB); ok {
						d.Point = Centre(o)
					}
					return d
				},
			})
		}
	}
	return events
}

// CastRay returns the nearest body hit by the segment
// Bodies containing the ray origin are skipped
func (w *World) CastRay(in detect.RayInput) (detect.RayHit, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	var (
		hit   detect.RayHit
		found bool
		best  float32
	)
	for _, b := range w.bodies {
		if !in.Filter.CanCollide(b.Filter) {
			continue
		}
		box := b.WorldBox()
		if box.Vec3Within(in.From) {
			continue
		}
		res, ok := trace.BBoxIntercept(box, in.From, in.To)
		if !ok {
			continue
		}
		pos := res.Position()
		dist := pos.Sub(in.From).LenSqr()
		if !found || dist < best {
			hit = detect.RayHit{Entity: b.Entity, Position: pos}
			best, found = dist, true
		}
	}
	return hit, found
}

// SyncTo publishes every body's pose and velocity into sink
func (w *World) SyncTo(sink PoseSink) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, b := range w.bodies {
		sink.SetPose(b.Entity, b.Pose())
		sink.SetVelocity(b.Entity, b.Velocity)
	}
}

func (w *World) publish(b *Body) {
	if w.sink == nil {
		return
	}
	w.sink.SetPose(b.Entity, b.Pose())
	w.sink.SetVelocity(b.Entity, b.Velocity)
}
