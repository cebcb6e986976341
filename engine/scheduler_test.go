package engine

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/contact-audio/catalog"
	"github.com/lixenwraith/contact-audio/core"
	"github.com/lixenwraith/contact-audio/detect"
	"github.com/lixenwraith/contact-audio/dispatch"
	"github.com/lixenwraith/contact-audio/physics"
	"github.com/lixenwraith/contact-audio/status"
)

type recordingBackend struct {
	mu       sync.Mutex
	requests []dispatch.PlayRequest
}

func (b *recordingBackend) Play(req dispatch.PlayRequest) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = append(b.requests, req)
	return nil
}

func (b *recordingBackend) played() []dispatch.PlayRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]dispatch.PlayRequest(nil), b.requests...)
}

// scriptedPhysics reports the same contact on every step
type scriptedPhysics struct {
	steps  int
	events []detect.ContactEvent
}

func (p *scriptedPhysics) Step(float64) []detect.ContactEvent {
	p.steps++
	return p.events
}

func sceneCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	b := catalog.NewBuilder(nil)
	for _, c := range []*catalog.Clip{
		{Name: "knock", Length: 0.3},
		{Name: "scrape", Length: 0.8},
		{Name: "thud", Length: 0.5},
	} {
		require.NoError(t, b.AddClip(c))
	}
	require.NoError(t, b.AddConfiguration(&catalog.SoundConfiguration{
		Name: "crate", TouchClip: "knock", SlideClip: "scrape", Mix: catalog.DefaultMixParams(),
	}))
	require.NoError(t, b.AddConfiguration(&catalog.SoundConfiguration{
		Name: "floor", TouchClip: "thud", Mix: catalog.DefaultMixParams(),
	}))
	return b.Build()
}

func sources(t *testing.T, cat *catalog.Catalog) (crate, floor core.SoundSource) {
	t.Helper()
	crate, err := cat.SourceFor("crate")
	require.NoError(t, err)
	floor, err = cat.SourceFor("floor")
	require.NoError(t, err)
	return crate, floor
}

type fixture struct {
	world    *World
	mock     *MockTimeProvider
	provider *catalog.Provider
	backend  *recordingBackend
	stats    *status.Registry
	crate    core.Entity
	floor    core.Entity
	cat      *catalog.Catalog
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		world:    NewWorld(),
		mock:     NewMockTimeProvider(epoch),
		provider: catalog.NewProvider(),
		backend:  &recordingBackend{},
		stats:    status.NewRegistry(),
		cat:      sceneCatalog(t),
	}
	crateSrc, floorSrc := sources(t, f.cat)
	f.floor = f.world.NewEntity().At(mgl32.Vec3{}).WithSound(floorSrc).Build()
	f.crate = f.world.NewEntity().At(mgl32.Vec3{0, 0.5, 0}).MakesSound(crateSrc).Build()
	return f
}

func (f *fixture) scheduler(stepper Stepper, caster detect.RayCaster) *Scheduler {
	return NewScheduler(f.world, Options{
		TickInterval: 16 * time.Millisecond,
		Clock:        NewPausableClock(f.mock),
		Physics:      stepper,
		Caster:       caster,
		Catalogs:     f.provider,
		Backend:      f.backend,
		Stats:        f.stats,
	})
}

func TestScheduler_TickTouchesAndDispatches(t *testing.T) {
	f := newFixture(t)
	f.provider.Publish(f.cat)

	hit := &scriptedPhysics{events: []detect.ContactEvent{{
		A: f.floor, B: f.crate,
		Details: func() detect.ContactDetails {
			return detect.ContactDetails{Point: mgl32.Vec3{0, 0, 0}, Impulse: 25}
		},
	}}}
	s := f.scheduler(hit, nil)
	defer s.Stop()

	f.mock.Advance(time.Second)
	rep, err := s.Tick(context.Background())
	require.NoError(t, err)

	assert.Equal(t, uint64(1), rep.Tick)
	assert.Equal(t, 1.0, rep.Now)
	assert.Equal(t, 1, rep.Contacts)
	assert.Equal(t, 1, rep.Dispatch.Queued)
	assert.Equal(t, 2, rep.Dispatch.Played, "crate clip plus the floor's secondary clip")

	played := f.backend.played()
	require.Len(t, played, 2)
	assert.Equal(t, catalog.ClipIDFor("knock"), played[0].Clip)
	assert.Equal(t, catalog.ClipIDFor("thud"), played[1].Clip)
	assert.Equal(t, 0, played[0].Emitter)
	assert.Equal(t, 1, played[1].Emitter)
	assert.Equal(t, float32(1), played[0].VolumeScale)

	table, ok := f.world.Interactions(f.crate)
	require.True(t, ok)
	assert.False(t, table.HasActive(), "dispatch clears active flags")

	// Resting contact inside the touch threshold stays quiet
	f.mock.Advance(16 * time.Millisecond)
	rep, err = s.Tick(context.Background())
	require.NoError(t, err)
	assert.Zero(t, rep.Dispatch.Played)
	assert.Equal(t, 2, hit.steps)

	assert.Equal(t, int64(1), f.stats.Counter(status.KeyTouches).Load())
	assert.Equal(t, int64(2), f.stats.Counter(status.KeyTicks).Load())
}

func TestScheduler_CatalogOutageKeepsActiveFlags(t *testing.T) {
	f := newFixture(t)
	hit := &scriptedPhysics{events: []detect.ContactEvent{{A: f.crate, B: f.floor}}}
	s := f.scheduler(hit, nil)
	defer s.Stop()

	f.mock.Advance(time.Second)
	rep, err := s.Tick(context.Background())
	require.NoError(t, err)
	assert.Zero(t, rep.Dispatch.Queued)
	assert.False(t, f.stats.Flag(status.KeyCatalogReady).Load())

	table, _ := f.world.Interactions(f.crate)
	assert.True(t, table.HasActive(), "pending touch waits for the catalog")

	f.provider.Publish(f.cat)
	f.mock.Advance(16 * time.Millisecond)
	rep, err = s.Tick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Dispatch.Queued)
	assert.Equal(t, 2, rep.Dispatch.Played)
	assert.True(t, f.stats.Flag(status.KeyCatalogReady).Load())
}

func TestScheduler_PauseFreezesSimulationTime(t *testing.T) {
	f := newFixture(t)
	s := f.scheduler(nil, nil)
	defer s.Stop()

	f.mock.Advance(time.Second)
	s.Pause()
	assert.True(t, s.IsPaused())
	f.mock.Advance(10 * time.Second)

	rep, err := s.Tick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1.0, rep.Now)

	s.Resume()
	f.mock.Advance(time.Second)
	rep, err = s.Tick(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2.0, rep.Now)
}

func TestScheduler_StopIsIdempotent(t *testing.T) {
	f := newFixture(t)
	s := f.scheduler(nil, nil)

	s.Stop()
	s.Stop()

	_, err := s.Tick(context.Background())
	assert.ErrorIs(t, err, ErrStopped)

	s.Start(context.Background())
	assert.Zero(t, s.Ticks(), "start after stop is a no-op")
}

func TestScheduler_LoopRunsUntilStopped(t *testing.T) {
	f := newFixture(t)
	f.provider.Publish(f.cat)

	var observed atomic.Int64
	s := NewScheduler(f.world, Options{
		TickInterval: time.Millisecond,
		Catalogs:     f.provider,
		Backend:      f.backend,
		OnTick:       func(TickReport) { observed.Add(1) },
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)
	s.Start(ctx)

	assert.Eventually(t, func() bool { return observed.Load() >= 5 }, 2*time.Second, time.Millisecond)

	s.Stop()
	after := s.Ticks()
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, after, s.Ticks(), "no ticks after Stop returns")
	assert.Equal(t, uint64(observed.Load()), after)
}

func TestScheduler_PhysicsIntegration(t *testing.T) {
	f := newFixture(t)
	f.provider.Publish(f.cat)

	pw := physics.NewWorld(f.world)
	require.NoError(t, pw.Add(physics.Body{
		Entity: f.floor, Box: physics.BoxAt(10, 1, 10), Position: mgl32.Vec3{0, -0.5, 0}, Static: true,
	}))
	require.NoError(t, pw.Add(physics.Body{
		Entity: f.crate, Box: physics.BoxAt(1, 1, 1), Position: mgl32.Vec3{0, 1.5, 0},
	}))

	s := f.scheduler(pw, pw)
	defer s.Stop()

	var touched bool
	for i := 0; i < 180 && !touched; i++ {
		f.mock.Advance(16 * time.Millisecond)
		rep, err := s.Tick(context.Background())
		require.NoError(t, err)
		touched = rep.Dispatch.Played > 0
	}
	require.True(t, touched, "falling crate lands with a sound")

	played := f.backend.played()
	assert.Equal(t, catalog.ClipIDFor("knock"), played[0].Clip)
	assert.Greater(t, played[0].VolumeScale, float32(0))

	pose, ok := f.world.Pose(f.crate)
	require.True(t, ok)
	assert.Less(t, pose.Position.Y(), float32(1.5), "physics publishes poses into the world")
}
