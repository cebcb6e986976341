package physics

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/contact-audio/core"
	"github.com/lixenwraith/contact-audio/detect"
)

type sinkRecorder struct {
	poses      map[core.Entity]core.Pose
	velocities map[core.Entity]mgl32.Vec3
}

func newSink() *sinkRecorder {
	return &sinkRecorder{
		poses:      make(map[core.Entity]core.Pose),
		velocities: make(map[core.Entity]mgl32.Vec3),
	}
}

func (s *sinkRecorder) SetPose(e core.Entity, p core.Pose)       { s.poses[e] = p }
func (s *sinkRecorder) SetVelocity(e core.Entity, v mgl32.Vec3) { s.velocities[e] = v }

const (
	floor core.Entity = iota + 1
	crate
	plank
)

const dt = 1.0 / 60

func floorBody() Body {
	return Body{Entity: floor, Box: BoxAt(10, 1, 10), Position: mgl32.Vec3{0, -0.5, 0}, Static: true}
}

func TestWorld_AddValidation(t *testing.T) {
	w := NewWorld(nil)
	assert.ErrorIs(t, w.Add(Body{}), ErrNullEntity)
	require.NoError(t, w.Add(floorBody()))
	assert.ErrorIs(t, w.Add(floorBody()), ErrDuplicateBody)

	b, ok := w.Body(floor)
	require.True(t, ok)
	assert.Equal(t, mgl32.QuatIdent(), b.Rotation, "zero rotation defaults to identity")
	assert.Equal(t, core.DefaultFilter, b.Filter)
}

func TestWorld_FallingBodySettlesAndReportsContact(t *testing.T) {
	sink := newSink()
	w := NewWorld(sink)
	require.NoError(t, w.Add(floorBody()))
	require.NoError(t, w.Add(Body{Entity: crate, Box: BoxAt(1, 1, 1), Position: mgl32.Vec3{0, 0.6, 0}}))

	var events []detect.ContactEvent
	for i := 0; i < 180; i++ {
		events = w.Step(dt)
	}

	b, _ := w.Body(crate)
	assert.InDelta(t, 0.5, b.Position.Y(), 0.01, "crate rests on the floor")
	assert.InDelta(t, 0.5, sink.poses[crate].Position.Y(), 0.01, "pose published to the sink")

	require.Len(t, events, 1)
	assert.ElementsMatch(t, []core.Entity{floor, crate}, []core.Entity{events[0].A, events[0].B})
	d := events[0].Details()
	assert.InDelta(t, 0, d.Point.Y(), 0.02, "contact point on the floor surface")
}

func TestWorld_ImpactImpulse(t *testing.T) {
	w := NewWorld(nil)
	require.NoError(t, w.Add(floorBody()))
	require.NoError(t, w.Add(Body{Entity: crate, Box: BoxAt(1, 1, 1), Position: mgl32.Vec3{0, 0.52, 0}, Velocity: mgl32.Vec3{0, -4, 0}}))

	events := w.Step(dt)
	require.Len(t, events, 1)
	assert.Greater(t, events[0].Details().Impulse, float32(4))

	b, _ := w.Body(crate)
	assert.Greater(t, b.Velocity.Y(), float32(0), "fast impact bounces")
}

func TestWorld_SeparatedBodiesNoContact(t *testing.T) {
	w := NewWorld(nil)
	require.NoError(t, w.Add(floorBody()))
	require.NoError(t, w.Add(Body{Entity: crate, Box: BoxAt(1, 1, 1), Position: mgl32.Vec3{0, 5, 0}}))
	assert.Empty(t, w.Step(dt))
}

func TestWorld_CastRay(t *testing.T) {
	w := NewWorld(nil)
	require.NoError(t, w.Add(floorBody()))
	require.NoError(t, w.Add(Body{Entity: crate, Box: BoxAt(1, 1, 1), Position: mgl32.Vec3{0, 0.5, 0}}))

	// Origin inside the crate: the crate is skipped and the floor is hit
	hit, ok := w.CastRay(detect.RayInput{From: mgl32.Vec3{0, 0.5, 0}, To: mgl32.Vec3{0, -1, 0}, Filter: core.DefaultFilter})
	require.True(t, ok)
	assert.Equal(t, floor, hit.Entity)
	assert.InDelta(t, 0, hit.Position.Y(), 1e-4)

	// From above, the crate is nearer
	hit, ok = w.CastRay(detect.RayInput{From: mgl32.Vec3{0, 3, 0}, To: mgl32.Vec3{0, -1, 0}, Filter: core.DefaultFilter})
	require.True(t, ok)
	assert.Equal(t, crate, hit.Entity)
	assert.InDelta(t, 1, hit.Position.Y(), 1e-4)

	_, ok = w.CastRay(detect.RayInput{From: mgl32.Vec3{0, 3, 0}, To: mgl32.Vec3{0, 2, 0}, Filter: core.DefaultFilter})
	assert.False(t, ok, "segment too short")
}

func TestWorld_CastRayFilter(t *testing.T) {
	w := NewWorld(nil)
	ground := floorBody()
	ground.Filter = core.CollisionFilter{BelongsTo: 1 << 1, CollidesWith: ^uint32(0)}
	require.NoError(t, w.Add(ground))

	skipGround := core.CollisionFilter{BelongsTo: 1, CollidesWith: 1}
	_, ok := w.CastRay(detect.RayInput{From: mgl32.Vec3{0, 1, 0}, To: mgl32.Vec3{0, -1, 0}, Filter: skipGround})
	assert.False(t, ok)
}

func TestWorld_SpinTurnsRotation(t *testing.T) {
	w := NewWorld(nil)
	require.NoError(t, w.Add(Body{Entity: plank, Box: BoxAt(1, 0.1, 1), Position: mgl32.Vec3{0, 10, 0}, Spin: mgl32.Vec3{0, 0, 6}}))
	w.Step(dt)

	b, _ := w.Body(plank)
	assert.Greater(t, b.Rotation.V.Z(), float32(0.01))
}

func TestWorld_RemoveAndSync(t *testing.T) {
	w := NewWorld(nil)
	require.NoError(t, w.Add(floorBody()))
	require.NoError(t, w.Add(Body{Entity: crate, Box: BoxAt(1, 1, 1), Position: mgl32.Vec3{0, 4, 0}}))
	require.NoError(t, w.Add(Body{Entity: plank, Box: BoxAt(1, 1, 1), Position: mgl32.Vec3{3, 4, 0}}))

	w.Remove(crate)
	assert.Equal(t, 2, w.Len())
	_, ok := w.Body(plank)
	assert.True(t, ok, "index fixed up after swap removal")

	sink := newSink()
	w.SyncTo(sink)
	assert.Len(t, sink.poses, 2)
	assert.Equal(t, mgl32.Vec3{3, 4, 0}, sink.poses[plank].Position)
}

func TestPenetration(t *testing.T) {
	ground := BoxAt(10, 1, 10).Translate(mgl32.Vec3{0, -0.5, 0})

	push := Penetration(ground, BoxAt(1, 1, 1).Translate(mgl32.Vec3{0, 0.45, 0}))
	assert.InDelta(t, 0.05, push.Y(), 1e-5)
	assert.Zero(t, push.X())

	assert.Equal(t, mgl32.Vec3{}, Penetration(ground, BoxAt(1, 1, 1).Translate(mgl32.Vec3{0, 2, 0})))
}

func TestBounce_EqualMasses(t *testing.T) {
	a := &Body{Position: mgl32.Vec3{0, 0, 0}, Velocity: mgl32.Vec3{1, 0, 0}}
	b := &Body{Position: mgl32.Vec3{0.5, 0, 0}, Velocity: mgl32.Vec3{-1, 0, 0}}

	require.True(t, bounce(a, b, 0.3))
	assert.InDelta(t, -0.3, a.Velocity.X(), 1e-5)
	assert.InDelta(t, 0.3, b.Velocity.X(), 1e-5)
	assert.False(t, bounce(a, b, 0.3), "separating bodies are left alone")
}
