package utils

import (
	"cmp"
	"slices"
)

func ToKeys[K cmp.Ordered, V any](m map[K]V) []K {
	var slice []K

	for k := range m {
		slice = append(slice, k)
	}

	slices.Sort(slice)
	return slice
}

// Merge returns a new map with the keys of over laid on top of base.
func Merge[K comparable, V any](base, over map[K]V) map[K]V {
	out := make(map[K]V, len(base)+len(over))
	for k, v := range base {
		out[k] = v
	}

	for k, v := range over {
		out[k] = v
	}

	return out
}
