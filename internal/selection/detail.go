// Package selection holds the "currently selected" record behind detail views
// such as the project and certificate modals.
package selection

import (
	"sync"

	"github.com/jonathan/portfolio/internal/scrolllock"
)

// Selection holds at most one selected record. Selecting a new record replaces the
// previous one; there is no queue or stack of selections.
type Selection[T any] struct {
	mu       sync.Mutex
	current  *T
	lock     *scrolllock.Lock
	owner    string
	onChange func(current *T)
}

// Option configures a Selection.
type Option[T any] func(*Selection[T])

// WithScrollLock makes the detail view hold lock under owner while a record is selected.
func WithScrollLock[T any](lock *scrolllock.Lock, owner string) Option[T] {
	return func(s *Selection[T]) {
		s.lock = lock
		s.owner = owner
	}
}

// WithOnChange registers a callback invoked after every change with the new selection (nil when cleared).
func WithOnChange[T any](fn func(current *T)) Option[T] {
	return func(s *Selection[T]) {
		s.onChange = fn
	}
}

// New creates an empty Selection.
func New[T any](opts ...Option[T]) *Selection[T] {
	s := &Selection[T]{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Select replaces any prior selection with v.
func (s *Selection[T]) Select(v T) {
	s.mu.Lock()
	s.current = &v
	if s.lock != nil {
		s.lock.Acquire(s.owner)
	}
	cb, cur := s.onChange, s.current
	s.mu.Unlock()

	if cb != nil {
		cb(cur)
	}
}

// Clear closes the detail view.
func (s *Selection[T]) Clear() {
	s.mu.Lock()
	had := s.current != nil
	s.current = nil
	if had && s.lock != nil {
		s.lock.Release(s.owner)
	}
	cb := s.onChange
	s.mu.Unlock()

	if had && cb != nil {
		cb(nil)
	}
}

// Current returns the selected record and whether one is selected.
func (s *Selection[T]) Current() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		var zero T
		return zero, false
	}
	return *s.current, true
}

// Open reports whether a record is selected.
func (s *Selection[T]) Open() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current != nil
}

// SelectByID selects the first item in items whose id matches. It returns false and
// leaves the selection unchanged when no item matches.
func SelectByID[T any](s *Selection[T], items []T, id int, idOf func(T) int) bool {
	for _, item := range items {
		if idOf(item) == id {
			s.Select(item)
			return true
		}
	}
	return false
}
