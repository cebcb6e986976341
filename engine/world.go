package engine

import (
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/lixenwraith/contact-audio/core"
	"github.com/lixenwraith/contact-audio/detect"
	"github.com/lixenwraith/contact-audio/interaction"
)

// Components groups the per-entity stores
type Components struct {
	Poses      *Store[core.Pose]
	Velocities *Store[mgl32.Vec3]
	Sounds     *Store[core.SoundSource]
	Sensors    *Store[core.RaySensor]
	Trackers   *Store[*Tracker]
}

// World is the indexed entity store shared by detection and dispatch
// It serves detect.Registry and dispatch.TrackerSource.
type World struct {
	Components
	nextID atomic.Uint64
}

func NewWorld() *World {
	return &World{
		Components: Components{
			Poses:      NewStore[core.Pose](),
			Velocities: NewStore[mgl32.Vec3](),
			Sounds:     NewStore[core.SoundSource](),
			Sensors:    NewStore[core.RaySensor](),
			Trackers:   NewStore[*Tracker](),
		},
	}
}

// CreateEntity issues a new id; ids start at 1 so NullEntity is never handed out
func (w *World) CreateEntity() core.Entity {
	return core.Entity(w.nextID.Add(1))
}

// DestroyEntity removes e from every store
func (w *World) DestroyEntity(e core.Entity) {
	w.Poses.Remove(e)
	w.Velocities.Remove(e)
	w.Sounds.Remove(e)
	w.Sensors.Remove(e)
	w.Trackers.Remove(e)
}

// DestroyEntities removes a batch of entities
func (w *World) DestroyEntities(es []core.Entity) {
	w.Poses.RemoveBatch(es)
	w.Velocities.RemoveBatch(es)
	w.Sounds.RemoveBatch(es)
	w.Sensors.RemoveBatch(es)
	w.Trackers.RemoveBatch(es)
}

// SetPose records e's world transform
func (w *World) SetPose(e core.Entity, p core.Pose) {
	w.Poses.Set(e, p)
}

// SetVelocity records e's linear velocity
func (w *World) SetVelocity(e core.Entity, v mgl32.Vec3) {
	w.Velocities.Set(e, v)
}

func (w *World) Trackable(e core.Entity) bool {
	return w.Trackers.Has(e) && w.Sounds.Has(e)
}

func (w *World) Track(e core.Entity, fn func(*interaction.Table)) bool {
	t, ok := w.Trackers.Get(e)
	if !ok {
		return false
	}
	t.With(fn)
	return true
}

func (w *World) SoundSource(e core.Entity) (core.SoundSource, bool) {
	return w.Sounds.Get(e)
}

func (w *World) Pose(e core.Entity) (core.Pose, bool) {
	return w.Poses.Get(e)
}

func (w *World) Velocity(e core.Entity) (mgl32.Vec3, bool) {
	return w.Velocities.Get(e)
}

func (w *World) Probes() []detect.Probe {
	probes := make([]detect.Probe, 0, w.Sensors.Len())
	w.Sensors.Each(func(e core.Entity, s core.RaySensor) {
		probes = append(probes, detect.Probe{Entity: e, Sensor: s})
	})
	return probes
}

// EachTracker visits every tracked entity holding its lock
func (w *World) EachTracker(fn func(core.Entity, *interaction.Table)) {
	for _, e := range w.Trackers.Entities() {
		t, ok := w.Trackers.Get(e)
		if !ok {
			continue
		}
		t.With(func(table *interaction.Table) { fn(e, table) })
	}
}

// Interactions returns a copy of e's table
func (w *World) Interactions(e core.Entity) (interaction.Table, bool) {
	t, ok := w.Trackers.Get(e)
	if !ok {
		return interaction.Table{}, false
	}
	return t.Snapshot(), true
}
