package core

// ClipID identifies an audio clip by a hash of its name, zero means none
type ClipID uint64

// ConfigID identifies a sound configuration by a hash of its name, zero means none
type ConfigID uint64

// SoundSource is carried by anything that provides collision sound configuration
// Entities that only get hit need this; sound owners also carry a tracker
type SoundSource struct {
	TouchClip ClipID
	SlideClip ClipID
	Config    ConfigID
}

// Clip returns the touch or slide clip
func (s SoundSource) Clip(sliding bool) ClipID {
	if sliding {
		return s.SlideClip
	}
	return s.TouchClip
}
