package classify

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/lixenwraith/contact-audio/core"
	"github.com/lixenwraith/contact-audio/interaction"
)

// Contact carries what a trigger writes into the slot
type Contact struct {
	Consumer core.SoundSource // sound owner, supplies the main clip
	Provider core.SoundSource // configuration source, the owner itself or the peer
	Peer     core.Entity

	// UseSecondary adds the provider's clip when the provider is a distinct peer
	UseSecondary bool

	Point   mgl32.Vec3
	Impulse float32
}

// ContactFunc resolves contact details for a decision
// Only called on trigger so front ends can defer expensive queries
type ContactFunc func(d Decision) Contact

// Result reports one classification
type Result struct {
	Index      int
	Allocation interaction.Allocation
	Decision   Decision
}

// Classify locates the peer's slot, decides, and writes the outcome
// On trigger the slot takes clips, configuration, volume and contact point, and its
// active bit is set. Timestamp and pose are refreshed either way.
// Caller must hold the owner's table lock.
func Classify(table *interaction.Table, peer core.Entity, now float64, pose core.Pose, resolve ContactFunc) Result {
	idx, alloc := table.AllocateOrFind(peer)
	slot := table.Slot(idx)

	d := Decide(slot, now, pose)
	if d.Triggered() {
		trigger(slot, now, resolve(d), d == Slide)
		table.SetActive(idx, true)
	}

	slot.Peer = peer
	slot.Pose = pose
	slot.UpdatedTime = now

	return Result{Index: idx, Allocation: alloc, Decision: d}
}

func trigger(slot *interaction.Interaction, now float64, c Contact, sliding bool) {
	slot.PlaybackEnd = now
	slot.Peer = c.Peer
	slot.VolumeScale = VolumeScale(c.Impulse)
	slot.ContactPoint = c.Point
	slot.Config = c.Provider.Config
	slot.MainClip = c.Consumer.Clip(sliding)
	if c.UseSecondary {
		slot.SecondaryClip = c.Provider.Clip(sliding)
	}
}
