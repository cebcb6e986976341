package interaction

import (
	"math"

	"github.com/lixenwraith/contact-audio/core"
	"github.com/lixenwraith/contact-audio/parameter"
)

// Allocation reports how AllocateOrFind produced its slot
type Allocation uint8

const (
	// Found means the peer was already tracked
	Found Allocation = iota
	// Fresh means an empty slot was available
	Fresh
	// AfterClean means eviction freed the slot
	AfterClean
	// Overwritten means eviction freed nothing and the last slot was reset
	Overwritten
)

func (a Allocation) String() string {
	switch a {
	case Found:
		return "found"
	case Fresh:
		return "fresh"
	case AfterClean:
		return "after-clean"
	case Overwritten:
		return "overwritten"
	}
	return "unknown"
}

// Table is a fixed arena of interaction slots owned by one sound-emitting entity
// plus the bitmask of slots that should play a sound this cycle
// Not safe for concurrent use; the owner's tracker lock serializes writers
type Table struct {
	slots  [parameter.InteractionSlots]Interaction
	active uint32
}

// Len returns the slot count
func (t *Table) Len() int {
	return len(t.slots)
}

// Slot returns a pointer into the arena, nil when out of range
func (t *Table) Slot(index int) *Interaction {
	if index < 0 || index >= len(t.slots) {
		return nil
	}
	return &t.slots[index]
}

// Get returns a copy of the slot, Empty when out of range
func (t *Table) Get(index int) Interaction {
	if index < 0 || index >= len(t.slots) {
		return Empty
	}
	return t.slots[index]
}

// Set stores an interaction at index
func (t *Table) Set(index int, in Interaction) {
	if index < 0 || index >= len(t.slots) {
		return
	}
	t.slots[index] = in
}

// Reset empties a slot and clears its active bit
func (t *Table) Reset(index int) {
	if index < 0 || index >= len(t.slots) {
		return
	}
	t.slots[index] = Empty
	t.SetActive(index, false)
}

// Occupied counts slots tracking a peer
func (t *Table) Occupied() int {
	n := 0
	for i := range t.slots {
		if t.slots[i].Occupied() {
			n++
		}
	}
	return n
}

// Find returns the slot index tracking peer, or -1
// Empty slots never match, including a lookup for NullEntity
func (t *Table) Find(peer core.Entity) int {
	for i := range t.slots {
		if t.slots[i].Occupied() && t.slots[i].Peer == peer {
			return i
		}
	}
	return -1
}

// FirstEmpty returns the lowest unoccupied index, or -1
func (t *Table) FirstEmpty() int {
	for i := range t.slots {
		if !t.slots[i].Occupied() {
			return i
		}
	}
	return -1
}

// AllocateOrFind returns the slot for peer, claiming one when it is untracked
// Never fails: with every slot still fresh after Clean, the last slot is reset and reused
// Claimed slots are left empty; the caller fills in the peer
func (t *Table) AllocateOrFind(peer core.Entity) (int, Allocation) {
	if idx := t.Find(peer); idx != -1 {
		return idx, Found
	}
	if idx := t.FirstEmpty(); idx != -1 {
		return idx, Fresh
	}

	t.Clean()
	if idx := t.FirstEmpty(); idx != -1 {
		return idx, AfterClean
	}

	// Lossy: discards a possibly still cooling-down interaction
	last := len(t.slots) - 1
	t.Reset(last)
	return last, Overwritten
}

// Clean evicts occupied slots last updated before the eviction threshold
// threshold = oldest + CleaningPercent*(newest-oldest); the newest slot always survives
// Returns the number of evicted slots
func (t *Table) Clean() int {
	oldest := math.MaxFloat64
	newest := -math.MaxFloat64
	seen := false

	for i := range t.slots {
		s := &t.slots[i]
		if !s.Occupied() {
			continue
		}
		seen = true
		oldest = math.Min(oldest, s.UpdatedTime)
		newest = math.Max(newest, s.UpdatedTime)
	}
	if !seen {
		return 0
	}

	threshold := oldest + (newest-oldest)*parameter.CleaningPercent
	evicted := 0
	for i := range t.slots {
		s := &t.slots[i]
		if s.Occupied() && s.UpdatedTime < threshold {
			t.Reset(i)
			evicted++
		}
	}
	return evicted
}

// SetActive sets or clears the play-this-cycle flag for a slot
func (t *Table) SetActive(index int, active bool) {
	if index < 0 || index >= len(t.slots) {
		return
	}
	if active {
		t.active |= 1 << uint(index)
	} else {
		t.active &^= 1 << uint(index)
	}
}

// IsActive reports the play-this-cycle flag for a slot
func (t *Table) IsActive(index int) bool {
	if index < 0 || index >= len(t.slots) {
		return false
	}
	return (t.active>>uint(index))&1 == 1
}

// HasActive reports whether any slot is flagged
func (t *Table) HasActive() bool {
	return t.active != 0
}

// ActiveMask returns the raw flag bits, bit i for slot i
func (t *Table) ActiveMask() uint32 {
	return t.active
}

// ClearActive resets every flag
func (t *Table) ClearActive() {
	t.active = 0
}

// EachActive calls fn with every flagged slot in index order
func (t *Table) EachActive(fn func(index int, in *Interaction)) {
	for i := range t.slots {
		if t.IsActive(i) {
			fn(i, &t.slots[i])
		}
	}
}
