package audio

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"

	"github.com/lixenwraith/contact-audio/catalog"
	"github.com/lixenwraith/contact-audio/core"
	"github.com/lixenwraith/contact-audio/parameter"
)

// clipBank stores decoded or synthesized clips at the engine's format
type clipBank struct {
	mu     sync.RWMutex
	format beep.Format
	store  map[core.ClipID]*beep.Buffer
}

func newClipBank(format beep.Format) *clipBank {
	return &clipBank{format: format, store: make(map[core.ClipID]*beep.Buffer)}
}

func (b *clipBank) get(id core.ClipID) (*beep.Buffer, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	buf, ok := b.store[id]
	return buf, ok
}

func (b *clipBank) put(id core.ClipID, buf *beep.Buffer) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.store[id] = buf
}

func (b *clipBank) len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.store)
}

// LoadClips prepares every catalog clip for playback
// Clips with a path are decoded from WAV and resampled to the engine rate; the rest are
// synthesized to their catalog length. A clip that fails to decode falls back to synthesis.
// Returns the number of clips loaded from disk.
func (e *Engine) LoadClips(cat *catalog.Catalog) int {
	if cat == nil {
		return 0
	}
	slides := make(map[core.ClipID]bool)
	cat.Configurations(func(_ core.ConfigID, cfg *catalog.SoundConfiguration) {
		if cfg.SlideClip != "" {
			slides[catalog.ClipIDFor(cfg.SlideClip)] = true
		}
	})

	fromDisk := 0
	cat.Clips(func(id core.ClipID, clip *catalog.Clip) {
		var src beep.Streamer
		if clip.Path != "" {
			s, err := e.decode(clip.Path)
			if err != nil {
				e.log.Warn("clip decode failed, synthesizing", "clip", clip.Name, "path", clip.Path, "error", err)
			} else {
				src = s
				fromDisk++
			}
		}
		if src == nil {
			src = e.synthesize(id, clip, slides[id])
		}

		buf := beep.NewBuffer(e.format)
		buf.Append(newVolume(src, e.cfg.clipVolume(clip.Name)))
		e.clips.put(id, buf)
	})

	e.log.Info("clips loaded", "total", e.clips.len(), "from_disk", fromDisk)
	return fromDisk
}

// decode reads a WAV file fully and converts it to the engine sample rate
func (e *Engine) decode(path string) (beep.Streamer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open clip: %w", err)
	}
	s, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decode clip: %w", err)
	}
	defer s.Close()

	// Buffer at the source rate first so the file can be closed before playback
	raw := beep.NewBuffer(format)
	raw.Append(s)
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("read clip: %w", err)
	}

	var out beep.Streamer = raw.Streamer(0, raw.Len())
	if format.SampleRate != e.format.SampleRate {
		out = beep.Resample(parameter.AudioResampleQuality, format.SampleRate, e.format.SampleRate, out)
	}
	return out, nil
}

// synthesize renders a stand-in tone for a clip without audio data
// The id detunes the base frequency so different clips stay distinguishable
func (e *Engine) synthesize(id core.ClipID, clip *catalog.Clip, slide bool) beep.Streamer {
	length := time.Duration(clip.Length * float64(time.Second))
	if length <= 0 {
		length = time.Duration(parameter.DefaultClipLength * float64(time.Second))
	}
	detune := 1 + float64(uint64(id)%7)/10

	if slide {
		return synthScrape(parameter.SynthSlideFreq*detune, length, e.format.SampleRate)
	}
	return synthKnock(parameter.SynthTouchFreq*detune, length, e.format.SampleRate)
}
