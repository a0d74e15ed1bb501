package dataset

import "sync/atomic"

// Store holds the current snapshot. Readers always see a complete snapshot;
// a reload swaps the pointer and never mutates a published snapshot.
type Store struct {
	current atomic.Pointer[Snapshot]
}

// NewStore creates a store, optionally seeded with an initial snapshot.
func NewStore(initial *Snapshot) *Store {
	store := &Store{}
	if initial != nil {
		store.current.Store(initial)
	}
	return store
}

// Snapshot returns the current snapshot, or nil before the first load.
func (s *Store) Snapshot() *Snapshot {
	return s.current.Load()
}

// Replace publishes a new snapshot and returns the previous one.
func (s *Store) Replace(next *Snapshot) *Snapshot {
	return s.current.Swap(next)
}
