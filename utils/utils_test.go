package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundToMultiple(t *testing.T) {
	assert.Equal(t, 504, RoundToMultiple(500, 8))
	assert.Equal(t, 304, RoundToMultiple(300, 8))
	assert.Equal(t, 512, RoundToMultiple(512, 8))
	assert.Equal(t, 128, RoundToMultiple(96, 64))
	assert.Equal(t, 0, RoundToMultiple(3, 8))
	assert.Equal(t, 8, RoundToMultiple(4, 8))
	assert.Equal(t, 7, RoundToMultiple(7, 0))
}

func TestRoundToMultipleBounds(t *testing.T) {
	for _, m := range []int{8, 64} {
		for v := 1; v <= 4096; v++ {
			r := RoundToMultiple(v, m)
			assert.Zero(t, r%m, "v=%d m=%d", v, m)
			diff := r - v
			if diff < 0 {
				diff = -diff
			}
			assert.LessOrEqual(t, diff, m/2, "v=%d m=%d", v, m)
		}
	}
}

func TestClamp(t *testing.T) {
	for n := -50; n <= 50; n++ {
		assert.Equal(t, max(1, min(20, n)), Clamp(n, 1, 20))
	}
	assert.Equal(t, 0.5, Clamp(0.5, 0.0, 1.0))
}

func TestSliceHelpers(t *testing.T) {
	arr := []string{"a", "b", "c"}
	assert.True(t, Contains(arr, "b"))
	assert.False(t, Contains(arr, "z"))
	assert.Equal(t, 2, IndexOf(arr, "c"))
	assert.Equal(t, -1, IndexOf(arr, "z"))
	assert.Equal(t, "a", At(arr, 0, "x"))
	assert.Equal(t, "x", At(arr, 3, "x"))
	assert.Equal(t, "x", At(arr, -1, "x"))
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "None", StringOrNone(""))
	assert.Equal(t, "oil painting of a cat", JoinPrompt("oil painting of", "a cat"))
	assert.Equal(t, "a cat", JoinPrompt("", "a cat"))
	assert.Equal(t, "", JoinPrompt("", ""))
}

func TestMaps(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, ToKeys(map[string]int{"b": 1, "a": 2}))
	merged := Merge(map[string]int{"a": 1, "b": 2}, map[string]int{"b": 3})
	assert.Equal(t, map[string]int{"a": 1, "b": 3}, merged)
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "short", TruncateText("short", 10))
	assert.Equal(t, "a cat", TruncateText("a cat sitting", 8))
	assert.Equal(t, "abcd", TruncateText("abcdefgh", 4))
}
