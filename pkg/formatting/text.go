package formatting

import "strings"

// Truncate returns at most n runes of s. Non-positive n returns s unchanged.
func Truncate(s string, n int) string {
	if n <= 0 {
		return s
	}

	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// Preview returns s truncated to n runes with an ellipsis appended when
// anything was cut.
func Preview(s string, n int) string {
	short := Truncate(s, n)
	if len(short) < len(s) {
		return short + "..."
	}
	return short
}

// StripFence removes a leading ```json or ``` fence and a trailing ``` fence
// from model output, returning the trimmed interior.
func StripFence(s string) string {
	s = strings.TrimSpace(s)

	if after, ok := strings.CutPrefix(s, "```json"); ok {
		s = after
	} else if after, ok := strings.CutPrefix(s, "```"); ok {
		s = after
	}

	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
