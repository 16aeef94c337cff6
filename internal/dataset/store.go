package dataset

import "sync/atomic"

// Store is the process-wide cache slot for a loaded snapshot. Readers get
// whatever snapshot is current; a reload builds a complete replacement off
// to the side and swaps it in atomically, so a reader never observes a
// partially rebuilt mapping.
type Store[T any] struct {
	current atomic.Pointer[T]
}

// Load returns the current snapshot, or nil before the first Replace.
func (s *Store[T]) Load() *T {
	return s.current.Load()
}

// Replace installs a fully built snapshot, discarding the previous one.
func (s *Store[T]) Replace(snapshot *T) {
	s.current.Store(snapshot)
}
