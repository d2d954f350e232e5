// util/generic.go
// Copyright(c) 2026 towersim contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"maps"
	"slices"

	"golang.org/x/exp/constraints"
)

// Select is a poor man's ternary operator.
func Select[T any](sel bool, a, b T) T {
	if sel {
		return a
	}
	return b
}

// FilterSliceInPlace returns the subset of the provided slice for which
// the predicate returns true, reusing the slice's storage.
func FilterSliceInPlace[T any](s []T, pred func(T) bool) []T {
	out := s[:0]
	for _, item := range s {
		if pred(item) {
			out = append(out, item)
		}
	}
	return out
}

// MapContains reports whether the given predicate is true for any
// key/value pair in the map.
func MapContains[K comparable, V any](m map[K]V, pred func(K, V) bool) bool {
	for k, v := range m {
		if pred(k, v) {
			return true
		}
	}
	return false
}

// SortedMapKeys returns the keys of the given map, sorted.
func SortedMapKeys[K constraints.Ordered, V any](m map[K]V) []K {
	return slices.Sorted(maps.Keys(m))
}

// DuplicateMapKeys returns the keys, sorted, that appear in both of the
// given maps.
func DuplicateMapKeys[K constraints.Ordered, V any](a, b map[K]V) []K {
	var dup []K
	for k := range a {
		if _, ok := b[k]; ok {
			dup = append(dup, k)
		}
	}
	slices.Sort(dup)
	return dup
}
