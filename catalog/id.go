package catalog

import (
	"github.com/zeebo/xxh3"

	"github.com/lixenwraith/contact-audio/core"
)

// hashName is swapped in tests to force collisions
var hashName = xxh3.HashString

// IDFromName derives a stable numeric id from a human-readable name
// Zero is reserved for "none" and remapped to 1
func IDFromName(name string) uint64 {
	id := hashName(name)
	if id == 0 {
		return 1
	}
	return id
}

// ClipIDFor returns the id a clip named name registers under
func ClipIDFor(name string) core.ClipID {
	if name == "" {
		return 0
	}
	return core.ClipID(IDFromName(name))
}

// ConfigIDFor returns the id a configuration named name registers under
func ConfigIDFor(name string) core.ConfigID {
	if name == "" {
		return 0
	}
	return core.ConfigID(IDFromName(name))
}
