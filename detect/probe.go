package detect

import (
	"context"
	"log/slog"
	"runtime"
	"sync/atomic"

	"github.com/chewxy/math32"
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/contact-audio/classify"
	"github.com/lixenwraith/contact-audio/core"
	"github.com/lixenwraith/contact-audio/parameter"
	"github.com/lixenwraith/contact-audio/status"
)

// ProbeDetector casts a short ray below each sensor every tick
type ProbeDetector struct {
	reg    Registry
	caster RayCaster
	log    *slog.Logger
	limit  int
	probes *atomic.Int64
	tally
}

// NewProbeDetector creates a detector casting through caster; stats and log may be nil
func NewProbeDetector(reg Registry, caster RayCaster, stats *status.Registry, log *slog.Logger) *ProbeDetector {
	if log == nil {
		log = slog.Default()
	}
	return &ProbeDetector{
		reg:    reg,
		caster: caster,
		log:    log.With("component", "probe"),
		limit:  runtime.GOMAXPROCS(0),
		probes: stats.Counter(status.KeyProbes),
		tally:  newTally(stats),
	}
}

// Process probes every sensor in parallel
// Each sensor writes only its own table, so workers never share a lock
func (d *ProbeDetector) Process(ctx context.Context, now float64) error {
	probes := d.reg.Probes()
	if len(probes) == 0 {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(d.limit)
	for _, p := range probes {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			d.probe(now, p)
			return nil
		})
	}
	return g.Wait()
}

// Ray returns the probe segment for a pose: from the position down the local up axis
func Ray(pose core.Pose, filter core.CollisionFilter) RayInput {
	return RayInput{
		From:   pose.Position,
		To:     pose.Position.Sub(pose.Up().Mul(parameter.RayCastLength)),
		Filter: filter,
	}
}

func (d *ProbeDetector) probe(now float64, p Probe) {
	pose, ok := d.reg.Pose(p.Entity)
	if !ok {
		d.log.Debug("sensor without pose", "entity", p.Entity)
		return
	}
	d.probes.Add(1)

	hit, ok := d.caster.CastRay(Ray(pose, p.Sensor.Filter))
	if !ok || hit.Entity == p.Entity || hit.Entity == p.Sensor.Owner {
		return
	}

	provider, secondary := p.Entity, false
	if _, ok := d.reg.SoundSource(hit.Entity); ok {
		provider, secondary = hit.Entity, true
	}
	impulse := d.impulse(p)

	d.apply(d.reg, p.Entity, hit.Entity, now, pose, func(classify.Decision) classify.Contact {
		consumer, _ := d.reg.SoundSource(p.Entity)
		source, _ := d.reg.SoundSource(provider)
		return classify.Contact{
			Consumer:     consumer,
			Provider:     source,
			Peer:         hit.Entity,
			UseSecondary: secondary,
			Point:        hit.Position,
			Impulse:      impulse,
		}
	})
}

// impulse uses the owner's speed, floored at the sensor's minimum
func (d *ProbeDetector) impulse(p Probe) float32 {
	floor := classify.MinImpulse(p.Sensor.MinSoundVelocity)
	owner := p.Sensor.Owner
	if !owner.Valid() {
		owner = p.Entity
	}
	v, ok := d.reg.Velocity(owner)
	if !ok {
		return floor
	}
	return math32.Max(classify.VelocityImpulse(v), floor)
}
