package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/contact-audio/core"
	"github.com/lixenwraith/contact-audio/detect"
	"github.com/lixenwraith/contact-audio/dispatch"
	"github.com/lixenwraith/contact-audio/parameter"
	"github.com/lixenwraith/contact-audio/status"
)

var ErrStopped = errors.New("engine: scheduler stopped")

// Stepper advances the physics collaborator by dt seconds and returns the step's contacts
// Implementations publish poses and velocities before returning
type Stepper interface {
	Step(dt float64) []detect.ContactEvent
}

// Options configures a Scheduler; zero fields fall back to defaults
type Options struct {
	TickInterval time.Duration
	Clock        *PausableClock
	Physics      Stepper          // nil skips the physics phase
	Caster       detect.RayCaster // nil skips ray probes
	Catalogs     dispatch.CatalogSource
	Backend      dispatch.Backend
	Stats        *status.Registry
	Log          *slog.Logger

	// OnTick observes each completed tick from the scheduler goroutine
	OnTick func(TickReport)
}

// TickReport summarizes one tick
type TickReport struct {
	Tick     uint64
	Now      float64
	Contacts int
	Dispatch dispatch.Report
}

// Scheduler runs physics, detection and dispatch as ordered phases on a fixed tick
type Scheduler struct {
	world      *World
	clock      *PausableClock
	physics    Stepper
	contacts   *detect.ContactDetector
	probes     *detect.ProbeDetector
	dispatcher *dispatch.Dispatcher
	onTick     func(TickReport)
	log        *slog.Logger

	tickInterval     time.Duration
	nextTickDeadline time.Time

	// tickMu serializes phases between the loop and manual Tick calls
	tickMu    sync.Mutex
	tickCount atomic.Uint64
	statTicks *atomic.Int64

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Bool
	stopped  atomic.Bool
}

func NewScheduler(world *World, opts Options) *Scheduler {
	if opts.TickInterval <= 0 {
		opts.TickInterval = parameter.DefaultTickInterval
	}
	if opts.Clock == nil {
		opts.Clock = NewPausableClock(nil)
	}
	if opts.Log == nil {
		opts.Log = slog.Default()
	}

	s := &Scheduler{
		world:        world,
		clock:        opts.Clock,
		physics:      opts.Physics,
		contacts:     detect.NewContactDetector(world, opts.Stats, opts.Log),
		dispatcher:   dispatch.New(opts.Catalogs, opts.Backend, opts.Stats, opts.Log),
		onTick:       opts.OnTick,
		log:          opts.Log.With("component", "scheduler"),
		tickInterval: opts.TickInterval,
		statTicks:    opts.Stats.Counter(status.KeyTicks),
		stopChan:     make(chan struct{}),
	}
	if opts.Caster != nil {
		s.probes = detect.NewProbeDetector(world, opts.Caster, opts.Stats, opts.Log)
	}
	return s
}

// Tick runs one full cycle at the clock's current time
func (s *Scheduler) Tick(ctx context.Context) (TickReport, error) {
	s.tickMu.Lock()
	defer s.tickMu.Unlock()

	if s.stopped.Load() {
		return TickReport{}, ErrStopped
	}

	now := s.clock.Seconds()
	rep := TickReport{Now: now}

	// Phase 0: physics
	var events []detect.ContactEvent
	if s.physics != nil {
		events = s.physics.Step(s.tickInterval.Seconds())
	}
	rep.Contacts = len(events)

	// Phase 1: detection
	s.contacts.Process(now, events)
	if s.probes != nil {
		if err := s.probes.Process(ctx, now); err != nil {
			return rep, fmt.Errorf("probe phase: %w", err)
		}
	}

	// Phase 2: dispatch
	rep.Dispatch = s.dispatcher.Update(now, s.world)

	rep.Tick = s.tickCount.Add(1)
	s.statTicks.Store(int64(rep.Tick))
	return rep, nil
}

// Start launches the tick loop; later calls are no-ops
func (s *Scheduler) Start(ctx context.Context) {
	if s.stopped.Load() || !s.running.CompareAndSwap(false, true) {
		return
	}
	s.wg.Add(1)
	core.Go(func() { s.loop(ctx) })
}

// Stop halts the loop, waits for the tick in progress, and releases dispatch resources
// Safe to call more than once, with or without Start
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()

		s.tickMu.Lock()
		s.stopped.Store(true)
		s.dispatcher.Close()
		s.tickMu.Unlock()
	})
}

func (s *Scheduler) Pause()         { s.clock.Pause() }
func (s *Scheduler) Resume()        { s.clock.Resume() }
func (s *Scheduler) IsPaused() bool { return s.clock.IsPaused() }

// Ticks returns the number of completed ticks
func (s *Scheduler) Ticks() uint64 { return s.tickCount.Load() }

func (s *Scheduler) loop(ctx context.Context) {
	defer s.wg.Done()
	defer s.running.Store(false)

	s.nextTickDeadline = s.clock.RealTime().Add(s.tickInterval)

	timer := time.NewTimer(s.tickInterval)
	defer timer.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		var sleep time.Duration
		if s.clock.IsPaused() {
			sleep = s.tickInterval * 2
			s.nextTickDeadline = s.clock.RealTime().Add(s.tickInterval)
		} else {
			rep, err := s.Tick(ctx)
			switch {
			case errors.Is(err, ErrStopped), errors.Is(err, context.Canceled):
				return
			case err != nil:
				s.log.Error("tick failed", "tick", s.Ticks(), "error", err)
			case s.onTick != nil:
				s.onTick(rep)
			}

			now := s.clock.RealTime()
			s.nextTickDeadline = s.nextTickDeadline.Add(s.tickInterval)
			if now.Sub(s.nextTickDeadline) > s.tickInterval*2 {
				// Fell too far behind; skip missed ticks instead of bursting
				s.nextTickDeadline = now.Add(s.tickInterval)
			}
			sleep = s.nextTickDeadline.Sub(now)
		}

		if sleep < 0 {
			sleep = 0
		}
		timer.Reset(sleep)
	}
}
