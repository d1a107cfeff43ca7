package content

import "sync/atomic"

// Store holds the current snapshot. Publish atomically replaces the
// pointer; Current is a wait-free load. A reader holding a prior
// snapshot keeps a complete, self-consistent view of it. Exactly one
// producer publishes; any number of consumers read concurrently.
type Store struct {
	current atomic.Pointer[Snapshot]
}

// NewStore creates a store holding the startup snapshot. The store is
// never empty after construction.
func NewStore(initial *Snapshot) *Store {
	s := &Store{}
	s.current.Store(initial)
	return s
}

// Current returns the current snapshot without blocking.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Publish atomically replaces the current snapshot.
func (s *Store) Publish(snap *Snapshot) {
	if snap == nil {
		return
	}
	s.current.Store(snap)
}
