package component

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ReleaseFunc undoes one acquired resource.
type ReleaseFunc func(ctx context.Context) error

type stackEntry struct {
	name string
	fn   ReleaseFunc
}

// Stack records release actions as resources are acquired and runs them
// last-in first-out. The zero value is ready to use.
type Stack struct {
	mu      sync.Mutex
	entries []stackEntry
}

// Push records a release action.
func (s *Stack) Push(name string, fn ReleaseFunc) {
	s.mu.Lock()
	s.entries = append(s.entries, stackEntry{name: name, fn: fn})
	s.mu.Unlock()
}

// Len returns the number of pending release actions.
func (s *Stack) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Unwind runs every pending action in reverse push order and empties the
// stack. Every action runs even when an earlier one fails; failures are
// returned joined, each prefixed with its name. Unwinding an empty stack is a no-op.
func (s *Stack) Unwind(ctx context.Context) error {
	s.mu.Lock()
	entries := s.entries
	s.entries = nil
	s.mu.Unlock()

	var errs []error
	for i := len(entries) - 1; i >= 0; i-- {
		if err := entries[i].fn(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", entries[i].name, err))
		}
	}
	return errors.Join(errs...)
}

// Discard drops every pending action without running it and returns how
// many were dropped.
func (s *Stack) Discard() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.entries)
	s.entries = nil
	return n
}
