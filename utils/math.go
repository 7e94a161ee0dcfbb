package utils

import (
	"cmp"
	"math"
)

// RoundToMultiple rounds v to the nearest multiple of m, halves going up.
func RoundToMultiple(v, m int) int {
	if m <= 0 {
		return v
	}

	return int(math.Floor(float64(v)/float64(m)+0.5)) * m
}

func Clamp[V cmp.Ordered](v, lo, hi V) V {
	return min(max(v, lo), hi)
}
