package detect

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/lixenwraith/contact-audio/classify"
	"github.com/lixenwraith/contact-audio/core"
	"github.com/lixenwraith/contact-audio/status"
)

// ContactDetector classifies discrete contact events from the physics step
type ContactDetector struct {
	reg      Registry
	log      *slog.Logger
	contacts *atomic.Int64
	tally
}

// NewContactDetector creates a detector over reg; stats and log may be nil
func NewContactDetector(reg Registry, stats *status.Registry, log *slog.Logger) *ContactDetector {
	if log == nil {
		log = slog.Default()
	}
	return &ContactDetector{
		reg:      reg,
		log:      log.With("component", "contact"),
		contacts: stats.Counter(status.KeyContacts),
		tally:    newTally(stats),
	}
}

// Process handles one step's events in order
// Must not run concurrently with itself: a pair writes both sides' tables.
func (d *ContactDetector) Process(now float64, events []ContactEvent) {
	for i := range events {
		d.handle(now, &events[i])
	}
}

func (d *ContactDetector) handle(now float64, ev *ContactEvent) {
	owner, other := ev.A, ev.B
	if !d.reg.Trackable(owner) {
		owner, other = other, owner
	}
	if !d.reg.Trackable(owner) {
		return
	}
	d.contacts.Add(1)

	details := func() ContactDetails { return ContactDetails{} }
	if ev.Details != nil {
		details = sync.OnceValue(ev.Details)
	}

	// Both sides track: each hears the other as provider, without a secondary clip
	if d.reg.Trackable(other) {
		d.side(now, owner, other, other, false, details)
		d.side(now, other, owner, owner, false, details)
		return
	}

	provider, secondary := owner, false
	if _, ok := d.reg.SoundSource(other); ok {
		provider, secondary = other, true
	}
	d.side(now, owner, provider, other, secondary, details)
}

func (d *ContactDetector) side(now float64, owner, provider, peer core.Entity, secondary bool, details func() ContactDetails) {
	pose, ok := d.reg.Pose(owner)
	if !ok {
		d.log.Debug("contact owner without pose", "entity", owner)
		return
	}

	d.apply(d.reg, owner, peer, now, pose, func(dec classify.Decision) classify.Contact {
		consumer, _ := d.reg.SoundSource(owner)
		source, _ := d.reg.SoundSource(provider)
		det := details()

		impulse := det.Impulse
		if dec == classify.Slide {
			// Slides carry no fresh impulse; the owner's speed stands in
			if v, ok := d.reg.Velocity(owner); ok {
				impulse = classify.VelocityImpulse(v)
			}
		}

		return classify.Contact{
			Consumer:     consumer,
			Provider:     source,
			Peer:         peer,
			UseSecondary: secondary,
			Point:        det.Point,
			Impulse:      impulse,
		}
	})
}
