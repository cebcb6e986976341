package catalog

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/contact-audio/core"
)

func newTestBuilder() (*Builder, *bytes.Buffer) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return NewBuilder(log), &buf
}

func TestIDFromName_StableAndNonZero(t *testing.T) {
	assert.Equal(t, IDFromName("wood_knock"), IDFromName("wood_knock"))
	assert.NotEqual(t, IDFromName("wood_knock"), IDFromName("wood_scrape"))
	assert.Equal(t, core.ClipID(0), ClipIDFor(""), "empty name means no clip")

	orig := hashName
	defer func() { hashName = orig }()
	hashName = func(string) uint64 { return 0 }
	assert.Equal(t, uint64(1), IDFromName("anything"), "zero hash must be remapped")
}

func TestBuilder_RegistersAndLooksUp(t *testing.T) {
	b, _ := newTestBuilder()
	require.NoError(t, b.AddClip(&Clip{Name: "knock", Length: 0.4}))
	require.NoError(t, b.AddClip(&Clip{Name: "scrape", Length: 1.2}))
	mix := DefaultMixParams()
	mix.Pitch = -2
	require.NoError(t, b.AddConfiguration(&SoundConfiguration{Name: "crate", TouchClip: "knock", SlideClip: "scrape", Mix: mix}))

	c := b.Build()
	configs, clips := c.Len()
	assert.Equal(t, 1, configs)
	assert.Equal(t, 2, clips)

	length, ok := c.ClipLength(ClipIDFor("scrape"))
	require.True(t, ok)
	assert.InDelta(t, 1.2, length, 1e-9)

	pitch, ok := c.Pitch(ConfigIDFor("crate"))
	require.True(t, ok)
	assert.InDelta(t, 2.0, pitch, 1e-6, "pitch lookup is absolute")

	src, err := c.SourceFor("crate")
	require.NoError(t, err)
	assert.Equal(t, ClipIDFor("knock"), src.TouchClip)
	assert.Equal(t, ClipIDFor("scrape"), src.SlideClip)
	assert.Equal(t, ConfigIDFor("crate"), src.Config)

	_, err = c.SourceFor("missing")
	assert.ErrorIs(t, err, ErrUnknownConfiguration)
}

func TestBuilder_DuplicatePolicy(t *testing.T) {
	b, logs := newTestBuilder()

	require.NoError(t, b.AddClip(&Clip{Name: "knock", Length: 0.4}))
	require.NoError(t, b.AddClip(&Clip{Name: "knock", Length: 9}))
	assert.NotContains(t, logs.String(), "collision", "exact duplicate is silent")

	orig := hashName
	defer func() { hashName = orig }()
	hashName = func(string) uint64 { return 42 }

	require.NoError(t, b.AddClip(&Clip{Name: "first", Length: 1}))
	require.NoError(t, b.AddClip(&Clip{Name: "second", Length: 2}))
	assert.Contains(t, logs.String(), "clip id collision")
	assert.Contains(t, logs.String(), "level=WARN")

	c := b.Build()
	clip, ok := c.Clip(42)
	require.True(t, ok)
	assert.Equal(t, "first", clip.Name, "first registration wins")

	hashName = orig
	knock, ok := c.Clip(ClipIDFor("knock"))
	require.True(t, ok)
	assert.InDelta(t, 0.4, knock.Length, 1e-9)
}

func TestBuilder_NilAndMissingEntries(t *testing.T) {
	b, logs := newTestBuilder()

	assert.ErrorIs(t, b.AddClip(nil), ErrNilEntry)
	assert.ErrorIs(t, b.AddConfiguration(nil), ErrNilEntry)
	assert.ErrorIs(t, b.AddConfiguration(&SoundConfiguration{}), ErrEmptyName)
	require.NoError(t, b.AddConfiguration(&SoundConfiguration{Name: "orphan", TouchClip: "ghost"}))

	c := b.Build()
	out := logs.String()
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "unknown clip")
	assert.Contains(t, out, "missing clip reference")

	_, ok := c.Configuration(ConfigIDFor("orphan"))
	assert.True(t, ok, "configuration with gaps is still registered")
	_, ok = c.ClipLength(ClipIDFor("ghost"))
	assert.False(t, ok, "lookup for the missing clip fails later")
}

func TestBuilder_RegistrationOrder(t *testing.T) {
	b, _ := newTestBuilder()
	names := []string{"c", "a", "b"}
	for _, n := range names {
		require.NoError(t, b.AddClip(&Clip{Name: n, Length: 1}))
	}

	var got []string
	b.Build().Clips(func(_ core.ClipID, c *Clip) { got = append(got, c.Name) })
	assert.Equal(t, names, got)
}

func TestMixParams_Clamp(t *testing.T) {
	m := MixParams{Priority: 900, Volume: 3, Pitch: -7, StereoPan: 2, Spread: 720, MinDistance: 10, MaxDistance: 2}
	c := m.Clamp()
	assert.Equal(t, 256, c.Priority)
	assert.Equal(t, float32(1), c.Volume)
	assert.Equal(t, float32(-3), c.Pitch)
	assert.Equal(t, float32(1), c.StereoPan)
	assert.Equal(t, float32(360), c.Spread)
	assert.Equal(t, float32(10), c.MaxDistance, "max distance never below min")
}

func TestLoad_TOML(t *testing.T) {
	const doc = `
[[clip]]
name = "knock"
length = 0.3
path = "sfx/knock.wav"

[[clip]]
name = "scrape"

[[configuration]]
name = "crate"
touch = "knock"
slide = "scrape"
volume = 0.5
rolloff = "linear"
`
	b, _ := newTestBuilder()
	require.NoError(t, b.Load(strings.NewReader(doc)))
	c := b.Build()

	cfg, ok := c.Configuration(ConfigIDFor("crate"))
	require.True(t, ok)
	assert.Equal(t, float32(0.5), cfg.Mix.Volume)
	assert.Equal(t, float32(1), cfg.Mix.Pitch, "absent keys keep defaults")
	assert.Equal(t, RolloffLinear, cfg.Mix.Rolloff)
	assert.Equal(t, 128, cfg.Mix.Priority)

	scrape, ok := c.Clip(ClipIDFor("scrape"))
	require.True(t, ok)
	assert.Greater(t, scrape.Length, 0.0, "missing length gets a default")

	knock, _ := c.Clip(ClipIDFor("knock"))
	assert.Equal(t, "sfx/knock.wav", knock.Path)
}

func TestLoad_MalformedTOML(t *testing.T) {
	b, _ := newTestBuilder()
	assert.Error(t, b.Load(strings.NewReader("[[clip]\nname=")))
}

func TestProvider_ReadyState(t *testing.T) {
	p := NewProvider()
	_, ok := p.Catalog()
	assert.False(t, ok)
	assert.False(t, p.Ready())

	c := NewBuilder(nil).Build()
	p.Publish(c)
	got, ok := p.Catalog()
	assert.True(t, ok)
	assert.Same(t, c, got)

	p.Publish(nil)
	assert.False(t, p.Ready())
}
