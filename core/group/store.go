// Package group provides the per-group state store used by the iteration
// driver. Each group key owns an opaque state value that is double-buffered
// across training rounds: the convergence test needs the previous and the
// current generation of every group at the same time.
package group

import (
	"sort"
	"sync"
)

// Key identifies one partition of the dataset. It is built by joining the
// values of the configured grouping columns; the empty key denotes the single
// implicit group of an ungrouped run. Keys are discovered from the data, not
// declared in advance.
type Key string

// Implicit is the key of the single group in an ungrouped run.
const Implicit Key = ""

// Store holds the double-buffered per-group state for one training run.
// The buffer never ages past two generations: Advance promotes current to
// previous and clears current, atomically for all groups.
//
// A Store is owned by exactly one driver for the duration of a run. The
// mutex makes reads and the advance/commit sequence safe even if diagnostics
// inspect the store from another goroutine.
type Store[S any] struct {
	mu   sync.RWMutex
	curr map[Key]S
	prev map[Key]S
}

// NewStore creates an empty store.
func NewStore[S any]() *Store[S] {
	return &Store[S]{
		curr: make(map[Key]S),
		prev: make(map[Key]S),
	}
}

// Current returns the current-generation state for a group.
func (s *Store[S]) Current(k Key) (S, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.curr[k]
	return st, ok
}

// Previous returns the previous-generation state for a group. Before the
// first Advance no group has a previous state.
func (s *Store[S]) Previous(k Key) (S, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.prev[k]
	return st, ok
}

// SetCurrent writes the current-generation state for a group, creating the
// entry on first touch.
func (s *Store[S]) SetCurrent(k Key, st S) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.curr[k] = st
}

// Advance promotes current to previous for all groups and clears current
// for the next round. The promotion is atomic: no reader can observe a mix
// of advanced and non-advanced groups.
func (s *Store[S]) Advance() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prev = s.curr
	s.curr = make(map[Key]S, len(s.prev))
}

// Commit performs Advance and installs next as the new current generation
// under a single lock acquisition. The driver uses it at the end of a round
// so the convergence test never sees a half-promoted store.
func (s *Store[S]) Commit(next map[Key]S) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prev = s.curr
	s.curr = make(map[Key]S, len(next))
	for k, st := range next {
		s.curr[k] = st
	}
}

// Groups returns the sorted set of group keys present in the current
// generation. Sorting keeps iteration order deterministic across rounds.
func (s *Store[S]) Groups() []Key {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]Key, 0, len(s.curr))
	for k := range s.curr {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Len returns the number of groups in the current generation.
func (s *Store[S]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.curr)
}
