package rules

import (
	"errors"
)

// ErrStackEmpty is returned when popping from an empty stack.
var ErrStackEmpty = errors.New("stack empty")

// Stack is an ordered pile whose top is the last element.
// It is not safe for concurrent use; the engine is single-threaded.
type Stack[T any] struct {
	items []T
}

// NewStack creates a stack from items ordered bottom to top.
func NewStack[T any](items []T) *Stack[T] {
	cpy := make([]T, len(items))
	copy(cpy, items)
	return &Stack[T]{items: cpy}
}

// Push adds an item to the top of the stack.
func (s *Stack[T]) Push(item T) {
	s.items = append(s.items, item)
}

// PushAll adds items ordered bottom to top; the last item ends on top.
func (s *Stack[T]) PushAll(items []T) {
	s.items = append(s.items, items...)
}

// Pop removes the top item from the stack.
func (s *Stack[T]) Pop() (T, error) {
	var zero T
	if len(s.items) == 0 {
		return zero, ErrStackEmpty
	}

	idx := len(s.items) - 1
	item := s.items[idx]
	s.items[idx] = zero
	s.items = s.items[:idx]
	return item, nil
}

// PopBottom removes the bottom item from the stack.
func (s *Stack[T]) PopBottom() (T, error) {
	var zero T
	if len(s.items) == 0 {
		return zero, ErrStackEmpty
	}

	item := s.items[0]
	s.items = append(s.items[:0:0], s.items[1:]...)
	return item, nil
}

// PeekN returns up to n items from the top, topmost first.
func (s *Stack[T]) PeekN(n int) []T {
	if n > len(s.items) {
		n = len(s.items)
	}
	out := make([]T, 0, n)
	for idx := len(s.items) - 1; idx >= len(s.items)-n; idx-- {
		out = append(out, s.items[idx])
	}
	return out
}

// Remove deletes the topmost item matching the predicate.
func (s *Stack[T]) Remove(match func(T) bool) (T, bool) {
	for idx := len(s.items) - 1; idx >= 0; idx-- {
		if match(s.items[idx]) {
			item := s.items[idx]
			s.items = append(s.items[:idx], s.items[idx+1:]...)
			return item, true
		}
	}
	var zero T
	return zero, false
}

// List returns a copy of all items (topmost last).
func (s *Stack[T]) List() []T {
	cpy := make([]T, len(s.items))
	copy(cpy, s.items)
	return cpy
}

// Replace swaps the whole content, items ordered bottom to top.
func (s *Stack[T]) Replace(items []T) {
	cpy := make([]T, len(items))
	copy(cpy, items)
	s.items = cpy
}

// Len returns the number of items on the stack.
func (s *Stack[T]) Len() int {
	return len(s.items)
}
