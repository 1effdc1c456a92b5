package formatting

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrParseFailed reports oracle output that holds no decodable JSON.
var ErrParseFailed = errors.New("failed to parse response")

var fencedBlock = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(.*?)\\n?```")

// Parse decodes content as JSON into T. Content wrapped in a code fence,
// or carrying a fenced block inside surrounding prose, is unwrapped first.
// Returns ErrParseFailed when no candidate decodes.
func Parse[T any](content string) (T, error) {
	var result T

	for _, candidate := range candidates(content) {
		if err := json.Unmarshal([]byte(candidate), &result); err == nil {
			return result, nil
		}
		result = *new(T)
	}

	return result, fmt.Errorf("%w: %s", ErrParseFailed, Preview(strings.TrimSpace(content), 200))
}

func candidates(content string) []string {
	content = strings.TrimSpace(content)
	out := []string{content}

	if stripped := StripFence(content); stripped != content {
		out = append(out, stripped)
	}
	if m := fencedBlock.FindStringSubmatch(content); m != nil {
		out = append(out, strings.TrimSpace(m[1]))
	}
	return out
}
