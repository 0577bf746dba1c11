// Package recency provides a bounded, deduplicating most-recently-used stack.
package recency

import "slices"

// DefaultCapacity is the history depth used when no capacity is configured.
const DefaultCapacity = 4

// Stack is a fixed-capacity MRU set. Each item appears at most once and the
// most recently pushed item is the top. When a push would exceed capacity the
// least recently used item is evicted.
//
// Stack is not safe for concurrent use; callers provide their own locking.
type Stack[T comparable] struct {
	// items is ordered oldest first so the top is always the last element.
	items    []T
	capacity int
}

// New creates a stack holding at most capacity items. A capacity <= 0 falls
// back to DefaultCapacity.
func New[T comparable](capacity int) *Stack[T] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Stack[T]{
		// One spare slot holds the pushed item before eviction.
		items:    make([]T, 0, capacity+1),
		capacity: capacity,
	}
}

// Push makes item the unique most recent entry.
func (s *Stack[T]) Push(item T) {
	if idx := slices.Index(s.items, item); idx >= 0 {
		s.items = slices.Delete(s.items, idx, idx+1)
	}
	s.items = append(s.items, item)

	if over := len(s.items) - s.capacity; over > 0 {
		// Shift in place; the spare slot means append never reallocated.
		n := copy(s.items, s.items[over:])
		clear(s.items[n:])
		s.items = s.items[:n]
	}
}

// Peek returns the most recent item without modifying the stack.
func (s *Stack[T]) Peek() (T, bool) {
	if len(s.items) == 0 {
		var zero T
		return zero, false
	}
	return s.items[len(s.items)-1], true
}

// Len returns the number of items held.
func (s *Stack[T]) Len() int {
	return len(s.items)
}

// Cap returns the configured capacity.
func (s *Stack[T]) Cap() int {
	return s.capacity
}

// Items returns a copy of the stack contents, most recent first.
func (s *Stack[T]) Items() []T {
	out := make([]T, len(s.items))
	for i, item := range s.items {
		out[len(s.items)-1-i] = item
	}
	return out
}
