package engine

import (
	"sync"

	"github.com/lixenwraith/contact-audio/core"
)

// Store holds one component type keyed by entity
// Entities are kept in a dense slice for iteration; removal swaps with the last element
type Store[T any] struct {
	mu         sync.RWMutex
	components map[core.Entity]T
	entities   []core.Entity
}

func NewStore[T any]() *Store[T] {
	return &Store[T]{
		components: make(map[core.Entity]T),
		entities:   make([]core.Entity, 0, 64),
	}
}

// Set inserts or replaces the component for e
func (s *Store[T]) Set(e core.Entity, val T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.components[e]; !exists {
		s.entities = append(s.entities, e)
	}
	s.components[e] = val
}

func (s *Store[T]) Get(e core.Entity) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.components[e]
	return val, ok
}

func (s *Store[T]) Has(e core.Entity) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.components[e]
	return ok
}

// Remove deletes e's component, if any
func (s *Store[T]) Remove(e core.Entity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.components[e]; !exists {
		return
	}
	delete(s.components, e)
	for i, entity := range s.entities {
		if entity == e {
			last := len(s.entities) - 1
			s.entities[i] = s.entities[last]
			s.entities = s.entities[:last]
			return
		}
	}
}

// RemoveBatch deletes several entities with one compaction pass
func (s *Store[T]) RemoveBatch(entities []core.Entity) {
	if len(entities) == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := make(map[core.Entity]struct{}, len(entities))
	for _, e := range entities {
		if _, exists := s.components[e]; exists {
			removed[e] = struct{}{}
			delete(s.components, e)
		}
	}
	if len(removed) == 0 {
		return
	}

	kept := s.entities[:0]
	for _, e := range s.entities {
		if _, gone := removed[e]; !gone {
			kept = append(kept, e)
		}
	}
	s.entities = kept
}

// Entities returns a copy of the entity list
func (s *Store[T]) Entities() []core.Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Entity, len(s.entities))
	copy(out, s.entities)
	return out
}

// Each visits every component in slice order under the read lock
// fn must not call back into the same store for writing
func (s *Store[T]) Each(fn func(e core.Entity, val T)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.entities {
		fn(e, s.components[e])
	}
}

func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entities)
}

// Clear drops every component
func (s *Store[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.components = make(map[core.Entity]T)
	s.entities = s.entities[:0]
}
