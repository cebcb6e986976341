package audio

import "errors"

// WaveType selects an oscillator shape
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// Sentinel errors
var (
	ErrNoAudioBackend = errors.New("audio: no compatible audio backend")
	ErrNotRunning     = errors.New("audio: engine not running")
	ErrUnknownClip    = errors.New("audio: clip not loaded")
	ErrEmitterRange   = errors.New("audio: emitter out of range")
)

// Engine modes, published as the audio.mode status label
const (
	ModeStopped = "stopped"
	ModeSpeaker = "speaker"
	ModeOffline = "offline"
	ModeSilent  = "silent"
)
