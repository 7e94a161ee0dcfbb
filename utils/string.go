package utils

import "strings"

// TruncateText cuts s to at most max bytes, preferring a word boundary.
func TruncateText(s string, max int) string {
	if max >= len(s) {
		return s
	}

	if i := strings.LastIndexAny(s[:max], " .,:;-"); i > 0 {
		return s[:i]
	}

	return s[:max]
}

func StringOrNone(s string) string {
	if s == "" {
		return "None"
	}

	return s
}

// JoinPrompt puts a per-call prefix in front of a stored prompt.
func JoinPrompt(prefix, stored string) string {
	return strings.TrimSpace(prefix + " " + stored)
}
