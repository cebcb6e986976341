package catalog

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/chewxy/math32"
	"github.com/elliotchance/orderedmap/v2"

	"github.com/lixenwraith/contact-audio/core"
)

// Sentinel errors
var (
	ErrNilEntry             = errors.New("catalog: nil entry")
	ErrEmptyName            = errors.New("catalog: empty name")
	ErrUnknownConfiguration = errors.New("catalog: unknown configuration")
	ErrUnknownClip          = errors.New("catalog: unknown clip")
)

// Catalog maps configuration ids to configurations and clip ids to clips
// Read-only after Build; safe for concurrent readers
type Catalog struct {
	configs *orderedmap.OrderedMap[core.ConfigID, *SoundConfiguration]
	clips   *orderedmap.OrderedMap[core.ClipID, *Clip]
}

// Configuration returns the configuration registered under id
func (c *Catalog) Configuration(id core.ConfigID) (*SoundConfiguration, bool) {
	if c == nil {
		return nil, false
	}
	return c.configs.Get(id)
}

// Clip returns the clip registered under id
func (c *Catalog) Clip(id core.ClipID) (*Clip, bool) {
	if c == nil {
		return nil, false
	}
	return c.clips.Get(id)
}

// ClipLength returns the clip length in seconds at pitch 1
func (c *Catalog) ClipLength(id core.ClipID) (float64, bool) {
	clip, ok := c.Clip(id)
	if !ok {
		return 0, false
	}
	return clip.Length, true
}

// Pitch returns the absolute pitch of a configuration
func (c *Catalog) Pitch(id core.ConfigID) (float32, bool) {
	cfg, ok := c.Configuration(id)
	if !ok {
		return 0, false
	}
	return math32.Abs(cfg.Mix.Pitch), true
}

// SourceFor builds the SoundSource carried by entities using the named configuration
func (c *Catalog) SourceFor(configName string) (core.SoundSource, error) {
	id := ConfigIDFor(configName)
	cfg, ok := c.Configuration(id)
	if !ok {
		return core.SoundSource{}, fmt.Errorf("%w: %q", ErrUnknownConfiguration, configName)
	}
	return core.SoundSource{
		TouchClip: ClipIDFor(cfg.TouchClip),
		SlideClip: ClipIDFor(cfg.SlideClip),
		Config:    id,
	}, nil
}

// Configurations calls fn for each configuration in registration order
func (c *Catalog) Configurations(fn func(core.ConfigID, *SoundConfiguration)) {
	for el := c.configs.Front(); el != nil; el = el.Next() {
		fn(el.Key, el.Value)
	}
}

// Clips calls fn for each clip in registration order
func (c *Catalog) Clips(fn func(core.ClipID, *Clip)) {
	for el := c.clips.Front(); el != nil; el = el.Next() {
		fn(el.Key, el.Value)
	}
}

// Len returns configuration and clip counts
func (c *Catalog) Len() (configs, clips int) {
	if c == nil {
		return 0, 0
	}
	return c.configs.Len(), c.clips.Len()
}

// Builder accumulates registrations at scene start
// Problems are logged and skipped; registration never fails the build
type Builder struct {
	log     *slog.Logger
	configs *orderedmap.OrderedMap[core.ConfigID, *SoundConfiguration]
	clips   *orderedmap.OrderedMap[core.ClipID, *Clip]
	pending []*SoundConfiguration
}

// NewBuilder creates an empty builder; nil logger uses slog.Default
func NewBuilder(log *slog.Logger) *Builder {
	if log == nil {
		log = slog.Default()
	}
	return &Builder{
		log:     log,
		configs: orderedmap.NewOrderedMap[core.ConfigID, *SoundConfiguration](),
		clips:   orderedmap.NewOrderedMap[core.ClipID, *Clip](),
	}
}

// AddClip registers a clip under the hash of its name
func (b *Builder) AddClip(clip *Clip) error {
	if clip == nil {
		b.log.Error("catalog: nil clip skipped")
		return ErrNilEntry
	}
	if clip.Name == "" {
		b.log.Error("catalog: clip without name skipped", "path", clip.Path)
		return ErrEmptyName
	}

	id := ClipIDFor(clip.Name)
	if existing, ok := b.clips.Get(id); ok {
		if existing.Name != clip.Name {
			b.log.Warn("catalog: clip id collision, keeping first registration",
				"id", uint64(id), "kept", existing.Name, "dropped", clip.Name)
		}
		return nil
	}

	c := *clip
	b.clips.Set(id, &c)
	return nil
}

// AddConfiguration registers a configuration under the hash of its name
// Clip names are checked at Build, so clips may be added in any order
func (b *Builder) AddConfiguration(cfg *SoundConfiguration) error {
	if cfg == nil {
		b.log.Error("catalog: nil configuration skipped")
		return ErrNilEntry
	}
	if cfg.Name == "" {
		b.log.Error("catalog: configuration without name skipped")
		return ErrEmptyName
	}

	id := ConfigIDFor(cfg.Name)
	if existing, ok := b.configs.Get(id); ok {
		if existing.Name != cfg.Name {
			b.log.Warn("catalog: configuration id collision, keeping first registration",
				"id", uint64(id), "kept", existing.Name, "dropped", cfg.Name)
		}
		return nil
	}

	c := *cfg
	c.Mix = c.Mix.Clamp()
	b.configs.Set(id, &c)
	b.pending = append(b.pending, &c)
	return nil
}

// Build freezes the registrations into a Catalog
// Configurations referencing unregistered clips are kept; lookups for those clips fail later
func (b *Builder) Build() *Catalog {
	for _, cfg := range b.pending {
		for _, name := range []string{cfg.TouchClip, cfg.SlideClip} {
			if name == "" {
				b.log.Error("catalog: configuration missing clip reference", "configuration", cfg.Name)
				continue
			}
			if _, ok := b.clips.Get(ClipIDFor(name)); !ok {
				b.log.Error("catalog: configuration references unknown clip",
					"configuration", cfg.Name, "clip", name)
			}
		}
	}
	b.pending = nil

	// Copy so later builder use cannot mutate the catalog
	configs := orderedmap.NewOrderedMap[core.ConfigID, *SoundConfiguration]()
	for el := b.configs.Front(); el != nil; el = el.Next() {
		configs.Set(el.Key, el.Value)
	}
	clips := orderedmap.NewOrderedMap[core.ClipID, *Clip]()
	for el := b.clips.Front(); el != nil; el = el.Next() {
		clips.Set(el.Key, el.Value)
	}

	return &Catalog{configs: configs, clips: clips}
}
