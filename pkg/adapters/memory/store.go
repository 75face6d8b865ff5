// Package memory provides the in-memory Local Mirror Store adapter.
//
// Snapshots are swapped copy-on-write: Replace builds a fresh slice and
// publishes it under the write lock, so a concurrent reader either sees
// the whole old snapshot or the whole new one, never a mix.
package memory

import (
	"sync"

	"github.com/aretw0/introspection"

	"github.com/notemirror/notemirror/pkg/core"
)

// Store is a process-wide keyed mirror of remote collections.
// The zero value is not usable; use New.
type Store struct {
	mu    sync.RWMutex
	items map[core.Kind][]core.Note
}

// New creates an empty Store.
func New() *Store {
	return &Store{items: make(map[core.Kind][]core.Note)}
}

var _ core.Store = (*Store)(nil)

// Get returns the last committed snapshot for kind, or nil if the
// collection was never populated. The returned slice is shared; callers
// must treat it as read-only.
func (s *Store) Get(kind core.Kind) []core.Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items[kind]
}

// Replace swaps the whole collection for kind. The input is copied so
// later caller-side mutation cannot tear a published snapshot.
func (s *Store) Replace(kind core.Kind, notes []core.Note) {
	fresh := make([]core.Note, len(notes))
	copy(fresh, notes)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[kind] = fresh
}

// UpsertOne inserts or overwrites a single entry by key. Keys stay unique
// within the collection. Advisory: the next Replace wins.
func (s *Store) UpsertOne(kind core.Kind, note core.Note) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.items[kind]
	fresh := make([]core.Note, 0, len(current)+1)
	replaced := false
	for _, n := range current {
		if n.Key() == note.Key() {
			fresh = append(fresh, note)
			replaced = true
			continue
		}
		fresh = append(fresh, n)
	}
	if !replaced {
		fresh = append(fresh, note)
	}
	s.items[kind] = fresh
}

// RemoveOne deletes a single entry by key, if present. Advisory: the next
// Replace wins.
func (s *Store) RemoveOne(kind core.Kind, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.items[kind]
	fresh := make([]core.Note, 0, len(current))
	for _, n := range current {
		if n.Key() == key {
			continue
		}
		fresh = append(fresh, n)
	}
	s.items[kind] = fresh
}

// Clear drops the collection for kind.
func (s *Store) Clear(kind core.Kind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, kind)
}

// ClearAll drops every collection.
func (s *Store) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[core.Kind][]core.Note)
}

// StoreState exposes internal state for observability.
type StoreState struct {
	Collections map[core.Kind]int `json:"collections"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[core.Kind]int, len(s.items))
	for kind, notes := range s.items {
		counts[kind] = len(notes)
	}
	return StoreState{Collections: counts}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "memory-store"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
