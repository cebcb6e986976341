package main

import (
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/lixenwraith/contact-audio/catalog"
	"github.com/lixenwraith/contact-audio/core"
	"github.com/lixenwraith/contact-audio/engine"
	"github.com/lixenwraith/contact-audio/physics"
)

// Scene extents in world units
const (
	sceneHalfWidth = 20
	sceneHeight    = 12
	skidClearance  = 0.02
)

// builtinCatalog is used when no -catalog file is given; every clip is synthesized
func builtinCatalog(log *slog.Logger) *catalog.Catalog {
	b := catalog.NewBuilder(log)
	clips := []*catalog.Clip{
		{Name: "wood_knock", Length: 0.25},
		{Name: "wood_scrape", Length: 0.6},
		{Name: "stone_thud", Length: 0.4},
		{Name: "metal_clank", Length: 0.3},
		{Name: "runner_hiss", Length: 0.5},
	}
	for _, c := range clips {
		b.AddClip(c)
	}

	crate := catalog.DefaultMixParams()
	crate.SpatialBlend = 0.6
	crate.MaxDistance = 30

	floor := catalog.DefaultMixParams()
	floor.Volume = 0.7
	floor.Pitch = 0.8

	step := catalog.DefaultMixParams()
	step.Pitch = 1.3
	step.Rolloff = catalog.RolloffLinear
	step.MaxDistance = 40

	skid := catalog.DefaultMixParams()
	skid.Volume = 0.5
	skid.StereoPan = -0.2

	b.AddConfiguration(&catalog.SoundConfiguration{Name: "crate", TouchClip: "wood_knock", SlideClip: "wood_scrape", Mix: crate})
	b.AddConfiguration(&catalog.SoundConfiguration{Name: "floor", TouchClip: "stone_thud", Mix: floor})
	b.AddConfiguration(&catalog.SoundConfiguration{Name: "step", TouchClip: "metal_clank", Mix: step})
	b.AddConfiguration(&catalog.SoundConfiguration{Name: "skid", TouchClip: "runner_hiss", SlideClip: "runner_hiss", Mix: skid})
	return b.Build()
}

// body is a rendered scene member
type body struct {
	entity core.Entity
	glyph  rune
	spawn  mgl32.Vec3
}

// Scene wires one set of entities into both worlds
type Scene struct {
	world   *engine.World
	physics *physics.World

	bodies []body
	crates []core.Entity
	sled   core.Entity
	skid   core.Entity
}

func sourceFor(cat *catalog.Catalog, name string, log *slog.Logger) core.SoundSource {
	src, err := cat.SourceFor(name)
	if err != nil {
		log.Warn("scene configuration missing", "config", name, "error", err)
	}
	return src
}

// NewScene builds a floor, a staircase, falling crates and a sled with a skid sensor
func NewScene(world *engine.World, cat *catalog.Catalog, crates int, log *slog.Logger) (*Scene, error) {
	s := &Scene{world: world, physics: physics.NewWorld(world)}

	floorSrc := sourceFor(cat, "floor", log)
	stepSrc := sourceFor(cat, "step", log)
	crateSrc := sourceFor(cat, "crate", log)
	skidSrc := sourceFor(cat, "skid", log)

	// Floor provides configuration but never tracks
	floor := world.NewEntity().WithSound(floorSrc).Build()
	if err := s.add(floor, '=', physics.Body{
		Box: physics.BoxAt(2*sceneHalfWidth, 1, 4), Position: mgl32.Vec3{0, -0.5, 0}, Static: true,
	}); err != nil {
		return nil, err
	}

	for i := 0; i < 3; i++ {
		step := world.NewEntity().WithSound(stepSrc).Build()
		h := float32(i+1) * 0.8
		if err := s.add(step, '#', physics.Body{
			Box: physics.BoxAt(2, h, 4), Position: mgl32.Vec3{10 + float32(i)*2, h / 2, 0}, Static: true,
		}); err != nil {
			return nil, err
		}
	}

	for i := 0; i < crates; i++ {
		x := -14 + float32(i%12)*2.5
		y := 4 + float32(i/12)*2 + float32(i%3)
		crate := world.NewEntity().MakesSound(crateSrc).Build()
		if err := s.add(crate, 'C', physics.Body{
			Box: physics.BoxAt(1, 1, 1), Position: mgl32.Vec3{x, y, 0}, Mass: 2,
		}); err != nil {
			return nil, err
		}
		s.crates = append(s.crates, crate)
	}

	s.sled = world.NewEntity().Build()
	if err := s.add(s.sled, 'S', physics.Body{
		Box: physics.BoxAt(2, 0.5, 1), Position: mgl32.Vec3{-18, 0.25, 0}, Mass: 5,
	}); err != nil {
		return nil, err
	}

	// The skid has no body; it rides the sled and probes the ground below it
	s.skid = world.NewEntity().
		MakesSound(skidSrc).
		WithSensor(core.RaySensor{Owner: s.sled, MinSoundVelocity: 0.05, Filter: core.DefaultFilter}).
		Build()
	s.FollowSled()

	return s, nil
}

func (s *Scene) add(e core.Entity, glyph rune, b physics.Body) error {
	b.Entity = e
	if err := s.physics.Add(b); err != nil {
		return fmt.Errorf("scene body %d: %w", e, err)
	}
	s.bodies = append(s.bodies, body{entity: e, glyph: glyph, spawn: b.Position})
	return nil
}

// FollowSled places the skid sensor just above the sled's underside
func (s *Scene) FollowSled() {
	b, ok := s.physics.Body(s.sled)
	if !ok {
		return
	}
	bottom := b.WorldBox().Min().Y()
	s.world.SetPose(s.skid, core.PoseAt(mgl32.Vec3{b.Position.X(), bottom + skidClearance, b.Position.Z()}))
}

// DropCrates returns every crate to its spawn point
func (s *Scene) DropCrates() {
	for _, b := range s.bodies {
		for _, c := range s.crates {
			if c == b.entity {
				s.physics.Teleport(c, b.spawn)
			}
		}
	}
}

// PushSled kicks the sled toward the far side, back to the start once it gets there
func (s *Scene) PushSled() {
	b, ok := s.physics.Body(s.sled)
	if !ok {
		return
	}
	if b.Position.X() > 6 {
		s.physics.Teleport(s.sled, mgl32.Vec3{-18, 0.25, 0})
		return
	}
	s.physics.Push(s.sled, mgl32.Vec3{9, 0, 0})
}
