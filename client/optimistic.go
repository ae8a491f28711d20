package client

import (
	"context"
	"fmt"
	"sync"
)

// ListSync keeps a list view feeling instant: a status change is applied
// to the local rows first, the server is called after, and on failure the
// exact pre-change snapshot is put back. One mutation may be in flight per
// row at a time; rows never block each other.
type ListSync[T any] struct {
	mu       sync.Mutex
	rows     []T
	key      func(T) string
	inflight map[string]bool
}

func NewListSync[T any](key func(T) string) *ListSync[T] {
	return &ListSync[T]{
		key:      key,
		inflight: make(map[string]bool),
	}
}

// Replace swaps in a freshly fetched result set.
func (s *ListSync[T]) Replace(rows []T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append([]T(nil), rows...)
}

// Rows returns a copy of the current visible list.
func (s *ListSync[T]) Rows() []T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]T(nil), s.rows...)
}

// InFlight reports whether the row's triggering control should be
// disabled because a mutation for it is still outstanding.
func (s *ListSync[T]) InFlight(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight[id]
}

// Mutate runs the optimistic protocol for one row: snapshot, apply the
// local change (keep=false drops the row from the visible list, the way a
// status change moves it out of the view's filter), call the server, and
// on failure restore the snapshot wholesale.
func (s *ListSync[T]) Mutate(ctx context.Context, id string, apply func(T) (row T, keep bool), call func(context.Context) error) error {
	s.mu.Lock()

	if s.inflight[id] {
		s.mu.Unlock()
		return fmt.Errorf("an update for row %s is already in flight", id)
	}

	snapshot := append([]T(nil), s.rows...)

	applied := false
	next := s.rows[:0:0]
	for _, row := range s.rows {
		if s.key(row) != id {
			next = append(next, row)
			continue
		}

		applied = true
		row, keep := apply(row)
		if keep {
			next = append(next, row)
		}
	}

	if !applied {
		s.mu.Unlock()
		return fmt.Errorf("row %s is not in the list", id)
	}

	s.rows = next
	s.inflight[id] = true
	s.mu.Unlock()

	err := call(ctx)

	s.mu.Lock()
	delete(s.inflight, id)
	if err != nil {
		s.rows = snapshot
	}
	s.mu.Unlock()

	return err
}
