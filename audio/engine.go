package audio

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/chewxy/math32"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/contact-audio/catalog"
	"github.com/lixenwraith/contact-audio/dispatch"
	"github.com/lixenwraith/contact-audio/parameter"
	"github.com/lixenwraith/contact-audio/status"
)

// Engine renders playback requests through a beep mixer
// Each emitter is one voice; playing on a busy emitter cuts its previous sound.
type Engine struct {
	cfg    *AudioConfig
	format beep.Format
	clips  *clipBank
	log    *slog.Logger

	// mu guards mixer and voices when no speaker owns them
	mu     sync.Mutex
	mixer  *beep.Mixer
	voices []*beep.Ctrl

	running    atomic.Bool
	muted      atomic.Bool
	silentMode atomic.Bool
	speakerOn  bool

	played   *atomic.Int64
	silenced *atomic.Int64
	mode     *status.AtomicString
}

// NewEngine creates a stopped engine; a nil cfg uses DefaultAudioConfig
func NewEngine(cfg *AudioConfig, stats *status.Registry, log *slog.Logger) *Engine {
	if cfg == nil {
		cfg = DefaultAudioConfig()
	}
	if cfg.Emitters <= 0 {
		cfg.Emitters = parameter.EmitterPoolSize
	}
	if log == nil {
		log = slog.Default()
	}

	format := beep.Format{
		SampleRate:  beep.SampleRate(cfg.SampleRate),
		NumChannels: parameter.AudioChannels,
		Precision:   2,
	}
	e := &Engine{
		cfg:      cfg,
		format:   format,
		clips:    newClipBank(format),
		log:      log.With("component", "audio"),
		mixer:    &beep.Mixer{},
		voices:   make([]*beep.Ctrl, cfg.Emitters),
		played:   stats.Counter(status.KeyAudioPlayed),
		silenced: stats.Counter(status.KeyAudioSilenced),
		mode:     stats.Label(status.KeyAudioMode),
	}
	e.muted.Store(!cfg.Enabled)
	e.mode.Store(ModeStopped)
	return e
}

// Start opens the speaker and begins playback
// A speaker failure switches to silent mode and is not returned as an error
func (e *Engine) Start() error {
	if !e.running.CompareAndSwap(false, true) {
		return fmt.Errorf("audio engine already running")
	}

	rate := e.format.SampleRate
	if err := speaker.Init(rate, rate.N(e.cfg.Buffer)); err != nil {
		e.log.Warn("speaker unavailable, running silent", "error", fmt.Errorf("%w: %v", ErrNoAudioBackend, err))
		e.silentMode.Store(true)
		e.mode.Store(ModeSilent)
		return nil
	}

	e.mu.Lock()
	e.speakerOn = true
	e.mu.Unlock()
	speaker.Play(e.mixer)
	e.mode.Store(ModeSpeaker)
	return nil
}

// StartOffline runs without a device; output is pulled through Stream
func (e *Engine) StartOffline() error {
	if !e.running.CompareAndSwap(false, true) {
		return fmt.Errorf("audio engine already running")
	}
	e.mode.Store(ModeOffline)
	return nil
}

// Stop silences every voice and detaches from the speaker
// Safe to call more than once
func (e *Engine) Stop() {
	if !e.running.CompareAndSwap(true, false) {
		return
	}

	e.lock()
	for i, v := range e.voices {
		if v != nil {
			v.Streamer = nil
			e.voices[i] = nil
		}
	}
	e.mixer.Clear()
	e.unlock()

	if e.speakerOn {
		speaker.Clear()
	}
	e.mode.Store(ModeStopped)
}

// Play implements dispatch.Backend
func (e *Engine) Play(req dispatch.PlayRequest) error {
	if !e.running.Load() {
		return ErrNotRunning
	}
	if req.Emitter < 0 || req.Emitter >= len(e.voices) {
		return fmt.Errorf("%w: %d", ErrEmitterRange, req.Emitter)
	}
	buf, ok := e.clips.get(req.Clip)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownClip, req.Clip)
	}

	pitch := math32.Abs(req.Mix.Pitch)
	if e.muted.Load() || e.silentMode.Load() || req.Mix.Mute || pitch == 0 {
		e.silenced.Add(1)
		return nil
	}

	var s beep.Streamer = buf.Streamer(0, buf.Len())
	if pitch != 1 {
		s = beep.ResampleRatio(parameter.AudioResampleQuality, float64(pitch), s)
	}
	s = &effects.Pan{Streamer: s, Pan: float64(e.pan(req))}
	s = newVolume(s, e.gain(req))

	ctrl := &beep.Ctrl{Streamer: s}
	e.lock()
	if prev := e.voices[req.Emitter]; prev != nil {
		prev.Streamer = nil
	}
	e.voices[req.Emitter] = ctrl
	e.mixer.Add(ctrl)
	e.unlock()

	e.played.Add(1)
	return nil
}

// gain combines request scale, configuration volume, master volume and distance rolloff
func (e *Engine) gain(req dispatch.PlayRequest) float64 {
	vol := float64(req.VolumeScale) * float64(req.Mix.Volume) * e.cfg.MasterVolume
	if req.Mix.BypassEffects || req.Mix.SpatialBlend <= 0 {
		return vol
	}
	dist := req.Position.Sub(e.cfg.Listener).Len()
	blend := float64(req.Mix.SpatialBlend)
	return vol * ((1 - blend) + blend*float64(Attenuation(req.Mix, dist)))
}

// pan mixes the configured stereo pan with the source's side of the listener
func (e *Engine) pan(req dispatch.PlayRequest) float32 {
	p := req.Mix.StereoPan
	if req.Mix.SpatialBlend > 0 && req.Mix.MaxDistance > 0 {
		side := (req.Position.X() - e.cfg.Listener.X()) / req.Mix.MaxDistance
		p += req.Mix.SpatialBlend * math32.Max(-1, math32.Min(1, side))
	}
	return math32.Max(-1, math32.Min(1, p))
}

// Attenuation returns the distance gain for a rolloff model, 1 inside MinDistance
func Attenuation(mix catalog.MixParams, dist float32) float32 {
	lo := math32.Max(mix.MinDistance, 1e-3)
	hi := math32.Max(mix.MaxDistance, lo)
	if dist <= lo {
		return 1
	}
	if dist >= hi {
		dist = hi
	}

	switch mix.Rolloff {
	case catalog.RolloffLinear, catalog.RolloffCustom:
		if hi == lo {
			return 1
		}
		return 1 - (dist-lo)/(hi-lo)
	default:
		return lo / dist
	}
}

// Stream pulls mixed output; only meaningful in offline mode
func (e *Engine) Stream(samples [][2]float64) (int, bool) {
	e.lock()
	defer e.unlock()
	return e.mixer.Stream(samples)
}

func (e *Engine) Err() error { return nil }

// Active returns the number of streamers in the mixer
func (e *Engine) Active() int {
	e.lock()
	defer e.unlock()
	return e.mixer.Len()
}

// ToggleMute flips mute and reports whether sound is now on
func (e *Engine) ToggleMute() bool {
	m := !e.muted.Load()
	e.muted.Store(m)
	return !m
}

func (e *Engine) IsMuted() bool { return e.muted.Load() }

// IsEnabled reports running, unmuted and not silent
func (e *Engine) IsEnabled() bool {
	return e.running.Load() && !e.muted.Load() && !e.silentMode.Load()
}

// Format returns the engine output format
func (e *Engine) Format() beep.Format { return e.format }

// lock takes the speaker lock while the speaker owns the mixer
func (e *Engine) lock() {
	if e.speakerOn {
		speaker.Lock()
		return
	}
	e.mu.Lock()
}

func (e *Engine) unlock() {
	if e.speakerOn {
		speaker.Unlock()
		return
	}
	e.mu.Unlock()
}
