package status

import "sync/atomic"

// Metric keys shared by the detection, dispatch and engine layers
const (
	KeyContacts      = "detect.contacts"
	KeyProbes        = "detect.probes"
	KeyTouches       = "detect.triggers.touch"
	KeySlides        = "detect.triggers.slide"
	KeyCleaned       = "interaction.cleaned"
	KeyOverwritten   = "interaction.overwritten"
	KeyQueued        = "dispatch.queued"
	KeyDropped       = "dispatch.dropped"
	KeyPlayed        = "dispatch.played"
	KeyFailed        = "dispatch.failed"
	KeyTicks         = "engine.ticks"
	KeyFPS           = "engine.fps"
	KeyCatalogReady  = "catalog.ready"
	KeyAudioMode     = "audio.mode"
	KeyAudioPlayed   = "audio.played"
	KeyAudioSilenced = "audio.silenced"
)

// Registry is the central metrics facade
// Components cache pointers at construction; hot paths write atomics directly
type Registry struct {
	Bools   *MetricMap[atomic.Bool]
	Ints    *MetricMap[atomic.Int64]
	Floats  *MetricMap[AtomicFloat]
	Strings *MetricMap[AtomicString]
}

// NewRegistry creates an initialized Registry
func NewRegistry() *Registry {
	return &Registry{
		Bools:   NewMetricMap[atomic.Bool](),
		Ints:    NewMetricMap[atomic.Int64](),
		Floats:  NewMetricMap[AtomicFloat](),
		Strings: NewMetricMap[AtomicString](),
	}
}

// Counter returns the int metric for key, or a detached counter when r is nil
func (r *Registry) Counter(key string) *atomic.Int64 {
	if r == nil {
		return new(atomic.Int64)
	}
	return r.Ints.Get(key)
}

// Gauge returns the float metric for key, or a detached gauge when r is nil
func (r *Registry) Gauge(key string) *AtomicFloat {
	if r == nil {
		return new(AtomicFloat)
	}
	return r.Floats.Get(key)
}

// Flag returns the bool metric for key, or a detached flag when r is nil
func (r *Registry) Flag(key string) *atomic.Bool {
	if r == nil {
		return new(atomic.Bool)
	}
	return r.Bools.Get(key)
}

// Label returns the string metric for key, or a detached label when r is nil
func (r *Registry) Label(key string) *AtomicString {
	if r == nil {
		return new(AtomicString)
	}
	return r.Strings.Get(key)
}

// TotalCount returns total metrics across all types
func (r *Registry) TotalCount() int {
	if r == nil {
		return 0
	}
	return r.Bools.Count() + r.Ints.Count() + r.Floats.Count() + r.Strings.Count()
}

// Lines renders every metric as "key=value" in type then key order
func (r *Registry) Lines() []string {
	if r == nil {
		return nil
	}
	lines := make([]string, 0, r.TotalCount())
	r.Ints.Range(func(k string, v *atomic.Int64) {
		lines = append(lines, k+"="+itoa(v.Load()))
	})
	r.Floats.Range(func(k string, v *AtomicFloat) {
		lines = append(lines, k+"="+ftoa(v.Get()))
	})
	r.Bools.Range(func(k string, v *atomic.Bool) {
		if v.Load() {
			lines = append(lines, k+"=true")
		} else {
			lines = append(lines, k+"=false")
		}
	})
	r.Strings.Range(func(k string, v *AtomicString) {
		lines = append(lines, k+"="+v.Load())
	})
	return lines
}
