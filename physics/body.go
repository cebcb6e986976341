package physics

import (
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/lixenwraith/contact-audio/core"
)

// Body is a box collider driven by the reference simulation
type Body struct {
	Entity core.Entity

	// Box is the collider in local space, relative to Position
	Box cube.BBox

	Position mgl32.Vec3
	Velocity mgl32.Vec3
	Rotation mgl32.Quat

	// Spin is angular velocity in radians per second; it turns Rotation but not Box
	Spin mgl32.Vec3

	Mass   float32
	Static bool
	Filter core.CollisionFilter
}

// BoxAt returns a w×h×d box centred on the origin
func BoxAt(w, h, d float32) cube.BBox {
	return cube.Box(-w/2, -h/2, -d/2, w/2, h/2, d/2)
}

// WorldBox returns the collider in world space
func (b *Body) WorldBox() cube.BBox {
	return b.Box.Translate(b.Position)
}

// Pose returns the body's transform
func (b *Body) Pose() core.Pose {
	return core.Pose{Position: b.Position, Rotation: b.Rotation}
}

func (b *Body) inverseMass() float32 {
	if b.Static {
		return 0
	}
	if b.Mass <= 0 {
		return 1 / DefaultMass
	}
	return 1 / b.Mass
}
