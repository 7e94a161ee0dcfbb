package utils

func Contains[V comparable](arr []V, e V) bool {
	return IndexOf(arr, e) >= 0
}

// IndexOf returns -1 when e is absent.
func IndexOf[V comparable](arr []V, e V) int {
	for i, v := range arr {
		if v == e {
			return i
		}
	}

	return -1
}

// At returns arr[i], or fallback when i is out of range.
func At[V any](arr []V, i int, fallback V) V {
	if i < 0 || i >= len(arr) {
		return fallback
	}

	return arr[i]
}
