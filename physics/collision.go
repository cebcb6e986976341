package physics

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/lixenwraith/contact-audio/parameter"
)

// DefaultMass applies to dynamic bodies created without a mass
const DefaultMass = parameter.DefaultBodyMass

// Penetration returns the smallest translation moving `moving` out of `stationary`
// The result is zero when the boxes do not overlap on every axis
func Penetration(stationary, moving cube.BBox) mgl32.Vec3 {
	var out mgl32.Vec3
	best := float32(math.MaxFloat32)
	axis := -1

	for i := 0; i < 3; i++ {
		below := moving.Max()[i] - stationary.Min()[i] // push toward -axis
		above := stationary.Max()[i] - moving.Min()[i] // push toward +axis
		if below <= 0 || above <= 0 {
			return mgl32.Vec3{}
		}
		if below < best {
			best, axis = below, i
			out = mgl32.Vec3{}
			out[i] = -below
		}
		if above < best {
			best, axis = above, i
			out = mgl32.Vec3{}
			out[i] = above
		}
	}
	if axis < 0 {
		return mgl32.Vec3{}
	}
	return out
}

// Overlap returns the intersection of two boxes and whether it is non-empty
func Overlap(a, b cube.BBox) (cube.BBox, bool) {
	lo := mgl32.Vec3{
		math32.Max(a.Min()[0], b.Min()[0]),
		math32.Max(a.Min()[1], b.Min()[1]),
		math32.Max(a.Min()[2], b.Min()[2]),
	}
	hi := mgl32.Vec3{
		math32.Min(a.Max()[0], b.Max()[0]),
		math32.Min(a.Max()[1], b.Max()[1]),
		math32.Min(a.Max()[2], b.Max()[2]),
	}
	if lo[0] > hi[0] || lo[1] > hi[1] || lo[2] > hi[2] {
		return cube.BBox{}, false
	}
	return cube.Box(lo[0], lo[1], lo[2], hi[0], hi[1], hi[2]), true
}

// Centre returns the midpoint of a box
func Centre(b cube.BBox) mgl32.Vec3 {
	return b.Min().Add(b.Max()).Mul(0.5)
}

// resolveStatic pushes a dynamic body out of a static one and damps its velocity along the push
func resolveStatic(body *Body, static cube.BBox, dt float32) bool {
	push := Penetration(static, body.WorldBox())
	if push == (mgl32.Vec3{}) {
		return false
	}
	body.Position = body.Position.Add(push)

	for i := 0; i < 3; i++ {
		if push[i] == 0 || body.Velocity[i]*push[i] >= 0 {
			continue
		}
		if math32.Abs(body.Velocity[i]) > parameter.RestitutionThreshold {
			body.Velocity[i] = -body.Velocity[i] * parameter.Restitution
		} else {
			body.Velocity[i] = 0
		}
	}

	// Resting on top: horizontal friction
	if push[1] > 0 {
		keep := math32.Max(0, 1-parameter.GroundFriction*dt)
		body.Velocity[0] *= keep
		body.Velocity[2] *= keep
	}
	return true
}

// bounce exchanges an impulse between two dynamic bodies along their centre line
// Returns false when the bodies are separating
func bounce(a, b *Body, restitution float32) bool {
	delta := b.Position.Sub(a.Position)
	dist := delta.Len()
	if dist == 0 {
		return false
	}
	n := delta.Mul(1 / dist)

	vn := a.Velocity.Sub(b.Velocity).Dot(n)
	if vn <= 0 {
		return false
	}

	invA, invB := a.inverseMass(), b.inverseMass()
	j := (1 + restitution) * vn / (invA + invB)

	a.Velocity = a.Velocity.Sub(n.Mul(j * invA))
	b.Velocity = b.Velocity.Add(n.Mul(j * invB))
	return true
}

// velocitySum is the impulse proxy used for contact details
func velocitySum(v mgl32.Vec3) float32 {
	return math32.Abs(v[0]) + math32.Abs(v[1]) + math32.Abs(v[2])
}
