package engine

import (
	"sync"

	"github.com/lixenwraith/contact-audio/interaction"
)

// Tracker owns an entity's interaction table
// Every read and write of the table goes through With
type Tracker struct {
	mu    sync.Mutex
	table interaction.Table
}

// With runs fn holding the tracker's lock
func (t *Tracker) With(fn func(*interaction.Table)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fn(&t.table)
}

// Snapshot returns a copy of the table
func (t *Tracker) Snapshot() interaction.Table {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.table
}
