package audio

import (
	"encoding/json"
	"os"
	"strconv"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/lixenwraith/contact-audio/parameter"
)

// AudioConfig holds back end settings
type AudioConfig struct {
	Enabled      bool
	MasterVolume float64 // 0..1
	SampleRate   int
	Buffer       time.Duration
	Emitters     int

	// Listener is the world position distance attenuation is measured from
	Listener mgl32.Vec3

	// ClipVolumes scales individual clips by name
	ClipVolumes map[string]float64
}

// DefaultAudioConfig returns enabled playback at full volume
func DefaultAudioConfig() *AudioConfig {
	return &AudioConfig{
		Enabled:      true,
		MasterVolume: 1.0,
		SampleRate:   parameter.AudioSampleRate,
		Buffer:       parameter.AudioBufferDuration,
		Emitters:     parameter.EmitterPoolSize,
		ClipVolumes:  make(map[string]float64),
	}
}

// LoadAudioConfig applies CONTACT_AUDIO_* environment overrides to the defaults
// Malformed values are ignored
func LoadAudioConfig() *AudioConfig {
	cfg := DefaultAudioConfig()

	if v := os.Getenv("CONTACT_AUDIO_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Enabled = b
		}
	}

	// Percent, 0..100
	if v := os.Getenv("CONTACT_AUDIO_MASTER_VOLUME"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MasterVolume = min(max(float64(n)/100.0, 0), 1)
		}
	}

	if v := os.Getenv("CONTACT_AUDIO_SAMPLE_RATE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SampleRate = n
		}
	}

	if v := os.Getenv("CONTACT_AUDIO_BUFFER_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Buffer = time.Duration(n) * time.Millisecond
		}
	}

	// JSON object of clip name to volume, e.g. {"wood_knock":0.6}
	if v := os.Getenv("CONTACT_AUDIO_CLIP_VOLUMES"); v != "" {
		var volumes map[string]float64
		if err := json.Unmarshal([]byte(v), &volumes); err == nil {
			for name, vol := range volumes {
				cfg.ClipVolumes[name] = vol
			}
		}
	}

	return cfg
}

// clipVolume returns the configured scale for a clip, 1 when unset
func (c *AudioConfig) clipVolume(name string) float64 {
	if v, ok := c.ClipVolumes[name]; ok {
		return v
	}
	return 1
}
