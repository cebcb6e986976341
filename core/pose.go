package core

import "github.com/go-gl/mathgl/mgl32"

// Pose is the world-space transform of an entity
type Pose struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
}

// PoseAt returns an unrotated pose at pos
func PoseAt(pos mgl32.Vec3) Pose {
	return Pose{Position: pos, Rotation: mgl32.QuatIdent()}
}

// Up returns the local +Y axis in world space
func (p Pose) Up() mgl32.Vec3 {
	return p.Rotation.Rotate(mgl32.Vec3{0, 1, 0})
}
