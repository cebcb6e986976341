package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/lixenwraith/contact-audio/parameter"
)

// oscillator generates a raw wave for a fixed number of samples
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
	rng      *rand.Rand
}

// NewOscillator creates a wave generator lasting duration
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
		rng:      rand.New(rand.NewSource(int64(freq*1000) + 1)),
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			val = 1
			if o.phase >= 0.5 {
				val = -1
			}
		case WaveSaw:
			val = 2 * (o.phase - 0.5)
		case WaveNoise:
			val = o.rng.Float64()*2 - 1
		}
		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope ramps in linearly over attack then decays exponentially
type envelope struct {
	streamer beep.Streamer
	rate     beep.SampleRate
	attack   int
	decay    float64
	position int
}

// NewEnvelope shapes s with a linear attack and an exp(-decay·t) tail
func NewEnvelope(s beep.Streamer, attack time.Duration, decay float64, rate beep.SampleRate) beep.Streamer {
	return &envelope{streamer: s, rate: rate, attack: rate.N(attack), decay: decay}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		vol := 1.0
		if e.position < e.attack {
			vol = float64(e.position) / float64(e.attack)
		}
		t := float64(e.position) / float64(e.rate)
		vol *= math.Exp(-e.decay * t)

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume wraps s in a base-2 volume effect; zero or less is silent
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// synthKnock is a short pitched impact: fundamental plus a quieter octave
func synthKnock(freq float64, length time.Duration, rate beep.SampleRate) beep.Streamer {
	fund := NewEnvelope(NewOscillator(freq, length, WaveSine, rate), parameter.SynthClipAttack, parameter.SynthClipDecay*2, rate)
	over := NewEnvelope(NewOscillator(freq*2, length, WaveSine, rate), parameter.SynthClipAttack, parameter.SynthClipDecay*3, rate)
	return beep.Mix(newVolume(fund, 0.6), newVolume(over, 0.25))
}

// synthScrape is a noisy rumble for sliding contact
func synthScrape(freq float64, length time.Duration, rate beep.SampleRate) beep.Streamer {
	noise := NewEnvelope(NewOscillator(0, length, WaveNoise, rate), parameter.SynthClipAttack*4, parameter.SynthClipDecay, rate)
	rumble := NewEnvelope(NewOscillator(freq, length, WaveSaw, rate), parameter.SynthClipAttack*4, parameter.SynthClipDecay, rate)
	return beep.Mix(newVolume(noise, 0.2), newVolume(rumble, 0.3))
}
