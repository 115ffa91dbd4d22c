// Package set provides a set of ordered values.
package set

import (
	"cmp"
	"maps"
	"slices"
)

// Set is a collection of unique values.
type Set[T cmp.Ordered] map[T]struct{}

// From returns a Set containing vals.
func From[T cmp.Ordered](vals ...T) Set[T] {
	s := make(Set[T], len(vals))
	s.Add(vals...)

	return s
}

func (s Set[T]) Add(vals ...T) {
	for _, v := range vals {
		s[v] = struct{}{}
	}
}

func (s Set[T]) Contains(v T) bool {
	_, exists := s[v]
	return exists
}

// Sorted returns the elements in ascending order.
func (s Set[T]) Sorted() []T {
	return slices.Sorted(maps.Keys(s))
}
