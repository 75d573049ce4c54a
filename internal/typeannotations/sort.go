package typeannotations

import (
	"slices"
	"strings"
)

// Compare orders annotations by sort key
func Compare(a, b FakeAnnotation) int {
	return strings.Compare(a.SortKey(), b.SortKey())
}

// Equal reports equal sort keys
func Equal(a, b FakeAnnotation) bool {
	return a.SortKey() == b.SortKey()
}

// SortAnnotations sorts items in place, keeping the order of equal keys
func SortAnnotations[T FakeAnnotation](items []T) {
	slices.SortStableFunc(items, func(a, b T) int {
		return Compare(a, b)
	})
}

// UniqueSorted returns a sorted copy of items with equal keys collapsed to
// the first occurrence.
func UniqueSorted[T FakeAnnotation](items []T) []T {
	result := slices.Clone(items)
	SortAnnotations(result)
	return slices.CompactFunc(result, func(a, b T) bool {
		return Equal(a, b)
	})
}
