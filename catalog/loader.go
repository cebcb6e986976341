package catalog

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/lixenwraith/contact-audio/parameter"
)

// fileClip is the on-disk form of a clip entry
type fileClip struct {
	Name   string  `toml:"name"`
	Length float64 `toml:"length"`
	Path   string  `toml:"path"`
}

// fileConfiguration is the on-disk form of a configuration entry
// Pointer fields distinguish "absent" from zero so defaults survive
type fileConfiguration struct {
	Name  string `toml:"name"`
	Touch string `toml:"touch"`
	Slide string `toml:"slide"`

	Mute                  bool `toml:"mute"`
	BypassEffects         bool `toml:"bypass_effects"`
	BypassListenerEffects bool `toml:"bypass_listener_effects"`
	BypassReverbZones     bool `toml:"bypass_reverb_zones"`

	Priority      *int     `toml:"priority"`
	Volume        *float32 `toml:"volume"`
	Pitch         *float32 `toml:"pitch"`
	StereoPan     *float32 `toml:"stereo_pan"`
	SpatialBlend  *float32 `toml:"spatial_blend"`
	ReverbZoneMix *float32 `toml:"reverb_zone_mix"`
	DopplerLevel  *float32 `toml:"doppler_level"`
	Spread        *float32 `toml:"spread"`
	Rolloff       string   `toml:"rolloff"`
	MinDistance   *float32 `toml:"min_distance"`
	MaxDistance   *float32 `toml:"max_distance"`
}

type file struct {
	Clips          []fileClip          `toml:"clip"`
	Configurations []fileConfiguration `toml:"configuration"`
}

func (fc fileConfiguration) configuration() *SoundConfiguration {
	mix := DefaultMixParams()
	mix.Mute = fc.Mute
	mix.BypassEffects = fc.BypassEffects
	mix.BypassListenerEffects = fc.BypassListenerEffects
	mix.BypassReverbZones = fc.BypassReverbZones
	setInt(&mix.Priority, fc.Priority)
	setFloat(&mix.Volume, fc.Volume)
	setFloat(&mix.Pitch, fc.Pitch)
	setFloat(&mix.StereoPan, fc.StereoPan)
	setFloat(&mix.SpatialBlend, fc.SpatialBlend)
	setFloat(&mix.ReverbZoneMix, fc.ReverbZoneMix)
	setFloat(&mix.DopplerLevel, fc.DopplerLevel)
	setFloat(&mix.Spread, fc.Spread)
	setFloat(&mix.MinDistance, fc.MinDistance)
	setFloat(&mix.MaxDistance, fc.MaxDistance)
	if fc.Rolloff != "" {
		mix.Rolloff = ParseRolloff(fc.Rolloff)
	}

	return &SoundConfiguration{
		Name:      fc.Name,
		TouchClip: fc.Touch,
		SlideClip: fc.Slide,
		Mix:       mix,
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setFloat(dst *float32, src *float32) {
	if src != nil {
		*dst = *src
	}
}

// Load decodes a TOML catalog description into b
// Only malformed TOML is an error; bad entries are logged and skipped
func (b *Builder) Load(r io.Reader) error {
	var f file
	if _, err := toml.NewDecoder(r).Decode(&f); err != nil {
		return fmt.Errorf("catalog: decode: %w", err)
	}

	for i := range f.Clips {
		fc := f.Clips[i]
		if fc.Length <= 0 {
			fc.Length = parameter.DefaultClipLength
		}
		_ = b.AddClip(&Clip{Name: fc.Name, Length: fc.Length, Path: fc.Path})
	}
	for i := range f.Configurations {
		_ = b.AddConfiguration(f.Configurations[i].configuration())
	}
	return nil
}

// LoadFile reads a TOML catalog from path and builds it
func LoadFile(path string, log *slog.Logger) (*Catalog, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open %s: %w", path, err)
	}
	defer fh.Close()

	b := NewBuilder(log)
	if err := b.Load(fh); err != nil {
		return nil, err
	}
	return b.Build(), nil
}
