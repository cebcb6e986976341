package engine

import (
	"sort"
	"testing"

	"github.com/lixenwraith/contact-audio/core"
)

func TestStore_SetGetRemove(t *testing.T) {
	s := NewStore[int]()

	s.Set(1, 10)
	s.Set(2, 20)
	s.Set(1, 11) // replace keeps a single entry

	if s.Len() != 2 {
		t.Fatalf("Expected 2 entries, got %d", s.Len())
	}
	if v, ok := s.Get(1); !ok || v != 11 {
		t.Errorf("Expected 11 for entity 1, got %d (ok=%v)", v, ok)
	}

	s.Remove(1)
	s.Remove(99)
	if s.Has(1) {
		t.Errorf("Expected entity 1 removed")
	}
	if got := s.Entities(); len(got) != 1 || got[0] != 2 {
		t.Errorf("Expected [2], got %v", got)
	}
}

func TestStore_RemoveBatch(t *testing.T) {
	s := NewStore[string]()
	for e := core.Entity(1); e <= 6; e++ {
		s.Set(e, "x")
	}

	s.RemoveBatch([]core.Entity{2, 4, 42, 6})

	got := s.Entities()
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	want := []core.Entity{1, 3, 5}
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expected %v, got %v", want, got)
		}
	}
}

func TestStore_EachAndClear(t *testing.T) {
	s := NewStore[int]()
	s.Set(3, 1)
	s.Set(7, 2)

	sum := 0
	s.Each(func(_ core.Entity, v int) { sum += v })
	if sum != 3 {
		t.Errorf("Expected sum 3, got %d", sum)
	}

	s.Clear()
	if s.Len() != 0 || s.Has(3) {
		t.Errorf("Expected empty store after Clear")
	}
}
