package classify

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/lixenwraith/contact-audio/core"
	"github.com/lixenwraith/contact-audio/interaction"
)

var (
	owner = core.SoundSource{TouchClip: 11, SlideClip: 12, Config: 1}
	peerS = core.SoundSource{TouchClip: 21, SlideClip: 22, Config: 2}
)

const peer core.Entity = 9

func poseX(x float32) core.Pose {
	return core.PoseAt(mgl32.Vec3{x, 0, 0})
}

func contactWith(provider core.SoundSource, secondary bool, impulse float32) ContactFunc {
	return func(Decision) Contact {
		return Contact{
			Consumer:     owner,
			Provider:     provider,
			Peer:         peer,
			UseSecondary: secondary,
			Point:        mgl32.Vec3{1, 2, 3},
			Impulse:      impulse,
		}
	}
}

func TestDecide_TouchThreshold(t *testing.T) {
	const t0 = 0.5
	slot := &interaction.Interaction{Peer: peer, UpdatedTime: t0, Pose: poseX(0)}

	if d := Decide(slot, 0.55, poseX(0)); d != Ignore {
		t.Errorf("Expected Ignore within threshold without movement, got %v", d)
	}
	if d := Decide(slot, 0.7, poseX(0)); d != Touch {
		t.Errorf("Expected Touch after gap, got %v", d)
	}
}

func TestClassify_SlideWaitsForPreviousSound(t *testing.T) {
	var table interaction.Table
	const t0 = 0.5

	// First contact on an empty slot is a touch
	res := Classify(&table, peer, t0, poseX(0), contactWith(owner, false, 10))
	if res.Decision != Touch {
		t.Fatalf("Expected first contact to be Touch, got %v", res.Decision)
	}
	slot := table.Slot(res.Index)
	if slot.MainClip != owner.TouchClip {
		t.Errorf("Expected touch clip %d, got %d", owner.TouchClip, slot.MainClip)
	}

	// Dispatch schedules the end of the touch sound
	slot.PlaybackEnd = 0.7 // t0 + 0.2
	table.ClearActive()

	steps := []struct {
		now  float64
		x    float32
		want Decision
	}{
		{0.55, 0.02, Ignore},
		{0.60, 0.04, Ignore}, // t0+0.1, still playing
		{0.65, 0.06, Ignore},
		{0.70, 0.08, Ignore}, // end not yet strictly passed
		{0.75, 0.10, Slide},  // t0+0.25
	}
	for _, s := range steps {
		r := Classify(&table, peer, s.now, poseX(s.x), contactWith(owner, false, 10))
		if r.Decision != s.want {
			t.Errorf("At t=%.2f expected %v, got %v", s.now, s.want, r.Decision)
		}
		if r.Index != res.Index {
			t.Errorf("At t=%.2f slot moved from %d to %d", s.now, res.Index, r.Index)
		}
	}

	if slot.MainClip != owner.SlideClip {
		t.Errorf("Expected slide clip %d, got %d", owner.SlideClip, slot.MainClip)
	}
	if !table.IsActive(res.Index) {
		t.Errorf("Expected slide to flag the slot active")
	}
}

func TestClassify_NoSlideWithoutMovement(t *testing.T) {
	var table interaction.Table
	res := Classify(&table, peer, 1, poseX(0), contactWith(owner, false, 10))
	table.Slot(res.Index).PlaybackEnd = 1
	table.ClearActive()

	r := Classify(&table, peer, 1.05, poseX(0.005), contactWith(owner, false, 10))
	if r.Decision != Ignore {
		t.Errorf("Expected Ignore for sub-delta movement, got %v", r.Decision)
	}
	if table.HasActive() {
		t.Errorf("Expected no active slot")
	}
}

func TestClassify_AlwaysRefreshesTimestampAndPose(t *testing.T) {
	var table interaction.Table
	res := Classify(&table, peer, 1, poseX(0), contactWith(owner, false, 10))
	table.Slot(res.Index).PlaybackEnd = 5

	Classify(&table, peer, 1.05, poseX(3), contactWith(owner, false, 10))
	slot := table.Slot(res.Index)
	if slot.UpdatedTime != 1.05 {
		t.Errorf("Expected UpdatedTime 1.05, got %v", slot.UpdatedTime)
	}
	if slot.Pose.Position.X() != 3 {
		t.Errorf("Expected pose refreshed to x=3, got %v", slot.Pose.Position)
	}
	if slot.PlaybackEnd != 5 {
		t.Errorf("Expected untriggered classification to keep PlaybackEnd, got %v", slot.PlaybackEnd)
	}
}

func TestClassify_TriggerWritesProviderFields(t *testing.T) {
	tests := []struct {
		name          string
		provider      core.SoundSource
		secondary     bool
		wantConfig    core.ConfigID
		wantSecondary core.ClipID
	}{
		{"owner provides", owner, false, owner.Config, 0},
		{"peer provides", peerS, true, peerS.Config, peerS.TouchClip},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var table interaction.Table
			res := Classify(&table, peer, 2, poseX(0), contactWith(tt.provider, tt.secondary, 12.5))
			slot := table.Slot(res.Index)

			if slot.Config != tt.wantConfig {
				t.Errorf("Expected config %d, got %d", tt.wantConfig, slot.Config)
			}
			if slot.SecondaryClip != tt.wantSecondary {
				t.Errorf("Expected secondary clip %d, got %d", tt.wantSecondary, slot.SecondaryClip)
			}
			if slot.VolumeScale != 0.5 {
				t.Errorf("Expected volume 0.5, got %v", slot.VolumeScale)
			}
			if slot.ContactPoint != (mgl32.Vec3{1, 2, 3}) {
				t.Errorf("Expected contact point copied, got %v", slot.ContactPoint)
			}
			if slot.PlaybackEnd != 2 {
				t.Errorf("Expected PlaybackEnd reset to trigger time, got %v", slot.PlaybackEnd)
			}
			if slot.Peer != peer {
				t.Errorf("Expected peer %d, got %d", peer, slot.Peer)
			}
		})
	}
}

func TestClassify_ResolvesOnlyOnTrigger(t *testing.T) {
	var table interaction.Table
	calls := 0
	resolve := func(d Decision) Contact {
		calls++
		return Contact{Consumer: owner, Provider: owner, Peer: peer}
	}

	Classify(&table, peer, 1, poseX(0), resolve)
	Classify(&table, peer, 1.02, poseX(0), resolve)
	Classify(&table, peer, 1.04, poseX(0), resolve)
	if calls != 1 {
		t.Errorf("Expected one resolve call, got %d", calls)
	}
}

func TestIsSliding_RotationComponents(t *testing.T) {
	slot := &interaction.Interaction{Pose: core.PoseAt(mgl32.Vec3{})}

	turned := core.Pose{Rotation: mgl32.QuatRotate(0.1, mgl32.Vec3{0, 1, 0})}
	if !IsSliding(slot, turned) {
		t.Errorf("Expected rotation beyond delta to count as sliding")
	}

	nudged := core.Pose{Rotation: mgl32.QuatRotate(0.001, mgl32.Vec3{0, 1, 0})}
	if IsSliding(slot, nudged) {
		t.Errorf("Expected tiny rotation not to count as sliding")
	}
}

func TestVolumeScale(t *testing.T) {
	tests := []struct {
		impulse float32
		want    float32
	}{
		{50, 1},
		{25, 1},
		{12.5, 0.5},
		{0, 0},
		{-3, 0},
	}
	for _, tt := range tests {
		if got := VolumeScale(tt.impulse); got != tt.want {
			t.Errorf("VolumeScale(%v): expected %v, got %v", tt.impulse, tt.want, got)
		}
	}
}

func TestImpulseHelpers(t *testing.T) {
	if got := VelocityImpulse(mgl32.Vec3{-1, 2, -3}); got != 6 {
		t.Errorf("Expected velocity impulse 6, got %v", got)
	}
	if got := MinImpulse(0.2); got != 5 {
		t.Errorf("Expected min impulse 5, got %v", got)
	}
}

func TestDecide_EmptySlotNearStart(t *testing.T) {
	var empty interaction.Interaction

	// Zero timestamp and zero quaternion: an early first contact reads as a slide
	if d := Decide(&empty, 0.05, poseX(0)); d != Slide {
		t.Errorf("Expected Slide for first contact at t=0.05, got %v", d)
	}
	if d := Decide(&empty, 0.5, poseX(0)); d != Touch {
		t.Errorf("Expected Touch for first contact at t=0.5, got %v", d)
	}
}
