package state

import "sync/atomic"

// Store holds the current snapshot for one guild and lets a
// synchronization layer replace it wholesale. Readers get a stable
// *Snapshot that stays valid for the duration of their computation even
// if a replacement lands mid-call; they never observe a partial update.
type Store struct {
	current atomic.Pointer[Snapshot]
}

// NewStore creates a store holding the given snapshot.
func NewStore(snap *Snapshot) *Store {
	s := &Store{}
	s.current.Store(snap)
	return s
}

// Current returns the snapshot as of now. May be nil if the store was
// created empty and never replaced.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Replace atomically swaps in a new snapshot. In-flight readers keep
// the snapshot they already hold.
func (s *Store) Replace(snap *Snapshot) {
	s.current.Store(snap)
}
