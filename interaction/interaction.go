package interaction

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/lixenwraith/contact-audio/core"
)

// Interaction is one tracked contact between a sound owner and a peer
type Interaction struct {
	Peer          core.Entity
	MainClip      core.ClipID
	SecondaryClip core.ClipID // zero when the peer contributes no clip
	Config        core.ConfigID
	VolumeScale   float32 // 0..1

	// Simulation seconds
	UpdatedTime float64
	PlaybackEnd float64

	ContactPoint mgl32.Vec3
	Pose         core.Pose // owner pose at UpdatedTime
}

// Empty is the unoccupied slot value
var Empty = Interaction{}

// Occupied reports whether the slot tracks a peer
func (i *Interaction) Occupied() bool {
	return i.Peer != core.NullEntity
}

// Equal compares identity fields only; timestamps, volume and pose are ignored
func (i *Interaction) Equal(other *Interaction) bool {
	return i.Peer == other.Peer &&
		i.Config == other.Config &&
		i.MainClip == other.MainClip &&
		i.SecondaryClip == other.SecondaryClip
}
