package formatting_test

import (
	"testing"

	"github.com/JaimeStill/courier/pkg/formatting"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"shorter than limit", "abc", 5, "abc"},
		{"exact limit", "abcde", 5, "abcde"},
		{"cut", "abcdef", 3, "abc"},
		{"multibyte runes", "héllo wörld", 4, "héll"},
		{"zero limit unchanged", "abc", 0, "abc"},
		{"empty", "", 3, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatting.Truncate(tt.in, tt.n); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
			}
		})
	}
}

func TestPreview(t *testing.T) {
	if got := formatting.Preview("short", 200); got != "short" {
		t.Errorf("Preview = %q, want short", got)
	}
	if got := formatting.Preview("abcdef", 3); got != "abc..." {
		t.Errorf("Preview = %q, want abc...", got)
	}
}

func TestStripFence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"no fence", `  {"a":1}  `, `{"a":1}`},
		{"leading only", "```json {\"a\":1}", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatting.StripFence(tt.in); got != tt.want {
				t.Errorf("StripFence = %q, want %q", got, tt.want)
			}
		})
	}
}
