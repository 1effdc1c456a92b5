package prompts_test

import (
	"strings"
	"testing"

	"github.com/JaimeStill/courier/internal/prompts"
	"github.com/JaimeStill/courier/internal/routing"
)

func TestPromptLayout(t *testing.T) {
	tests := []struct {
		name   string
		prompt string
		prefix string
		suffix string
	}{
		{"intent", prompts.Intent("a.txt", "hello"), "Analyze the following text content", "Primary Intent:"},
		{"email", prompts.Email("a@b.com", "hi", "hello"), "Analyze the following email content", "}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.HasPrefix(tt.prompt, tt.prefix) {
				t.Errorf("prompt does not start with %q", tt.prefix)
			}
			if !strings.HasSuffix(tt.prompt, tt.suffix) {
				t.Errorf("prompt does not end with %q", tt.suffix)
			}
			if !strings.Contains(tt.prompt, "\n---\nhello\n---\n") {
				t.Error("prompt missing delimited input")
			}
		})
	}
}

func TestIntent(t *testing.T) {
	p := prompts.Intent("invoice.pdf", "Total due: $40")

	for _, intent := range routing.Intents {
		if !strings.Contains(p, "- "+string(intent)+" (") {
			t.Errorf("intent prompt missing label %q", intent)
		}
	}
	if !strings.Contains(p, `"invoice.pdf"`) {
		t.Error("intent prompt missing source name")
	}
	if !strings.Contains(p, "Total due: $40") {
		t.Error("intent prompt missing text")
	}
}

func TestIntentTruncatesText(t *testing.T) {
	text := strings.Repeat("a", prompts.MaxInputRunes) + "OVERFLOW"
	p := prompts.Intent("big.txt", text)

	if strings.Contains(p, "OVERFLOW") {
		t.Error("intent prompt includes text beyond the input cap")
	}
}

func TestEmail(t *testing.T) {
	p := prompts.Email("jane@example.com", "Outage", "Everything is down.")

	for _, want := range []string{"Sender: jane@example.com", "Subject: Outage", "Everything is down.", `"urgency"`, `"crm_summary"`, `"entities"`} {
		if !strings.Contains(p, want) {
			t.Errorf("email prompt missing %q", want)
		}
	}
}
