// Package disk provides the persistent Local Mirror Store adapter, backed
// by a diskv key-value store with one JSON snapshot file per kind.
//
// Reads are served from an in-memory copy; writes go through to disk
// best-effort. A failed disk write degrades persistence across restarts
// but never the in-process mirror.
package disk

import (
	"log/slog"

	"github.com/aretw0/introspection"
	"github.com/peterbourgon/diskv/v3"

	"github.com/notemirror/notemirror/pkg/adapters/memory"
	"github.com/notemirror/notemirror/pkg/core"
)

// Config configures the persistent store.
type Config struct {
	// BasePath is the directory holding the snapshot files.
	BasePath string

	Logger *slog.Logger
}

// Store is a core.Store that survives process restarts.
type Store struct {
	mem    *memory.Store
	d      *diskv.Diskv
	logger *slog.Logger
}

var _ core.Store = (*Store)(nil)

// New creates a Store rooted at cfg.BasePath and loads any snapshots a
// previous process left behind. A corrupt or missing snapshot starts that
// kind fresh rather than failing.
func New(cfg Config) (*Store, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Store{
		mem: memory.New(),
		d: diskv.New(diskv.Options{
			BasePath:     cfg.BasePath,
			CacheSizeMax: 1024 * 1024, // 1MB
		}),
		logger: logger,
	}

	for _, kind := range core.Kinds() {
		key := snapshotKey(kind)
		if !s.d.Has(key) {
			continue
		}
		data, err := s.d.Read(key)
		if err != nil {
			logger.Warn("snapshot unreadable, starting fresh", "kind", kind, "error", err)
			continue
		}
		notes, err := core.DecodeNotes(kind, data)
		if err != nil {
			logger.Warn("snapshot corrupt, starting fresh", "kind", kind, "error", err)
			continue
		}
		s.mem.Replace(kind, notes)
	}

	return s, nil
}

func snapshotKey(kind core.Kind) string {
	return string(kind) + ".json"
}

// Get returns the last committed snapshot for kind.
func (s *Store) Get(kind core.Kind) []core.Note {
	return s.mem.Get(kind)
}

// Replace swaps the collection and persists the new snapshot.
func (s *Store) Replace(kind core.Kind, notes []core.Note) {
	s.mem.Replace(kind, notes)
	s.persist(kind)
}

// UpsertOne applies an advisory edit and persists it. The next Replace
// overwrites both the mirror and the snapshot file.
func (s *Store) UpsertOne(kind core.Kind, note core.Note) {
	s.mem.UpsertOne(kind, note)
	s.persist(kind)
}

// RemoveOne applies an advisory removal and persists it.
func (s *Store) RemoveOne(kind core.Kind, key string) {
	s.mem.RemoveOne(kind, key)
	s.persist(kind)
}

// Clear drops the collection and its snapshot file.
func (s *Store) Clear(kind core.Kind) {
	s.mem.Clear(kind)
	if err := s.d.Erase(snapshotKey(kind)); err != nil {
		s.logger.Warn("snapshot erase failed", "kind", kind, "error", err)
	}
}

// ClearAll drops every collection and snapshot file.
func (s *Store) ClearAll() {
	s.mem.ClearAll()
	for _, kind := range core.Kinds() {
		if !s.d.Has(snapshotKey(kind)) {
			continue
		}
		if err := s.d.Erase(snapshotKey(kind)); err != nil {
			s.logger.Warn("snapshot erase failed", "kind", kind, "error", err)
		}
	}
}

func (s *Store) persist(kind core.Kind) {
	data, err := core.EncodeNotes(s.mem.Get(kind))
	if err != nil {
		s.logger.Warn("snapshot encode failed", "kind", kind, "error", err)
		return
	}
	if err := s.d.Write(snapshotKey(kind), data); err != nil {
		s.logger.Warn("snapshot write failed", "kind", kind, "error", err)
	}
}

// State implements introspection.Introspectable by delegating to the
// in-memory mirror.
func (s *Store) State() any {
	return s.mem.State()
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "disk-store"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
