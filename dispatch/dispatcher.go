// Package dispatch turns flagged interactions into playback requests once per tick
package dispatch

import (
	"log/slog"
	"math"
	"sync/atomic"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/lixenwraith/contact-audio/catalog"
	"github.com/lixenwraith/contact-audio/core"
	"github.com/lixenwraith/contact-audio/interaction"
	"github.com/lixenwraith/contact-audio/parameter"
	"github.com/lixenwraith/contact-audio/status"
)

// PlayRequest is one clip on one emitter
type PlayRequest struct {
	Emitter     int
	Clip        core.ClipID
	Position    mgl32.Vec3
	VolumeScale float32
	Mix         catalog.MixParams
}

// Backend renders playback requests
type Backend interface {
	Play(req PlayRequest) error
}

// TrackerSource visits every owner's table
// fn runs with that owner's tracker lock held
type TrackerSource interface {
	EachTracker(fn func(owner core.Entity, table *interaction.Table))
}

// CatalogSource reports the current catalog, if any; catalog.Provider implements it
type CatalogSource interface {
	Catalog() (*catalog.Catalog, bool)
}

// Report counts one Update
type Report struct {
	Queued  int
	Dropped int
	Played  int
	Failed  int
}

// Duration is the playback time of a clip at pitch, zero at pitch zero
func Duration(clipLength float64, pitch float32) float64 {
	p := math32.Abs(pitch)
	if p == 0 {
		return 0
	}
	return clipLength / float64(p)
}

// Dispatcher collects flagged interactions and plays them on pooled emitters
// Update must only be called from the dispatch phase
type Dispatcher struct {
	catalogs CatalogSource
	backend  Backend
	queue    *Queue
	pool     *EmitterPool
	log      *slog.Logger

	outage bool
	closed bool

	queued  *atomic.Int64
	dropped *atomic.Int64
	played  *atomic.Int64
	failed  *atomic.Int64
	ready   *atomic.Bool
}

// New creates a dispatcher with the default queue and pool sizes; stats and log may be nil
func New(catalogs CatalogSource, backend Backend, stats *status.Registry, log *slog.Logger) *Dispatcher {
	return NewSized(catalogs, backend, parameter.DispatchQueueSize, parameter.EmitterPoolSize, stats, log)
}

// NewSized creates a dispatcher with explicit queue and pool sizes
func NewSized(catalogs CatalogSource, backend Backend, queueSize, poolSize int, stats *status.Registry, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{
		catalogs: catalogs,
		backend:  backend,
		queue:    NewQueue(queueSize),
		pool:     NewEmitterPool(poolSize),
		log:      log.With("component", "dispatch"),
		queued:   stats.Counter(status.KeyQueued),
		dropped:  stats.Counter(status.KeyDropped),
		played:   stats.Counter(status.KeyPlayed),
		failed:   stats.Counter(status.KeyFailed),
		ready:    stats.Flag(status.KeyCatalogReady),
	}
}

// Update runs one dispatch cycle
// Without a catalog it returns early and leaves every active flag set for the next cycle.
func (d *Dispatcher) Update(now float64, source TrackerSource) Report {
	var r Report
	if d.closed {
		return r
	}

	cat, ok := d.catalogs.Catalog()
	d.ready.Store(ok)
	if !ok {
		if !d.outage {
			d.log.Warn("catalog not available, sound not initialized")
			d.outage = true
		}
		return r
	}
	if d.outage {
		d.log.Info("catalog available, playback resumed")
		d.outage = false
	}

	source.EachTracker(func(owner core.Entity, table *interaction.Table) {
		if !table.HasActive() {
			return
		}
		table.EachActive(func(index int, in *interaction.Interaction) {
			in.PlaybackEnd = now + d.duration(cat, in)
			if err := d.queue.Push(*in); err != nil {
				d.log.Warn("dispatch queue full, interaction dropped", "owner", owner, "slot", index)
				r.Dropped++
				return
			}
			r.Queued++
		})
		table.ClearActive()
	})

	d.queue.Drain(func(in *interaction.Interaction) {
		d.play(cat, in, in.MainClip, &r)
		if in.SecondaryClip != 0 {
			d.play(cat, in, in.SecondaryClip, &r)
		}
	})

	d.queued.Add(int64(r.Queued))
	d.dropped.Add(int64(r.Dropped))
	d.played.Add(int64(r.Played))
	d.failed.Add(int64(r.Failed))
	return r
}

// duration is the longest of the slot's clips at its configuration's pitch
func (d *Dispatcher) duration(cat *catalog.Catalog, in *interaction.Interaction) float64 {
	pitch, ok := cat.Pitch(in.Config)
	if !ok {
		d.log.Debug("unknown configuration id", "config", in.Config)
		return 0
	}
	longest := d.clipDuration(cat, in.MainClip, pitch)
	if in.SecondaryClip != 0 {
		longest = math.Max(longest, d.clipDuration(cat, in.SecondaryClip, pitch))
	}
	return longest
}

func (d *Dispatcher) clipDuration(cat *catalog.Catalog, id core.ClipID, pitch float32) float64 {
	length, ok := cat.ClipLength(id)
	if !ok {
		d.log.Debug("unknown clip id", "clip", id)
		return 0
	}
	return Duration(length, pitch)
}

func (d *Dispatcher) play(cat *catalog.Catalog, in *interaction.Interaction, clip core.ClipID, r *Report) {
	emitter := d.pool.Next()
	cfg, ok := cat.Configuration(in.Config)
	if !ok {
		d.log.Debug("skipping playback with unknown configuration", "config", in.Config, "clip", clip)
		r.Failed++
		return
	}

	err := d.backend.Play(PlayRequest{
		Emitter:     emitter,
		Clip:        clip,
		Position:    in.ContactPoint,
		VolumeScale: in.VolumeScale,
		Mix:         cfg.Mix,
	})
	if err != nil {
		d.log.Debug("playback failed", "emitter", emitter, "clip", clip, "error", err)
		r.Failed++
		return
	}
	r.Played++
}

// Close drops pending requests and releases the emitter pool
// Safe to call more than once
func (d *Dispatcher) Close() {
	if d.closed {
		return
	}
	d.closed = true
	d.queue.Reset()
	d.pool.Release()
}
