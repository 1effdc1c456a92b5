package prompts

import (
	"fmt"
	"strings"

	"github.com/JaimeStill/courier/pkg/formatting"
)

// MaxInputRunes bounds the document or body text embedded in a prompt.
const MaxInputRunes = 3000

// Intent builds the intent classification prompt for text taken from source.
func Intent(source, text string) string {
	header := fmt.Sprintf("Text Content (from file: %q):", source)
	return compose(StageIntent, header, text)
}

// Email builds the CRM extraction prompt for an email.
func Email(sender, subject, body string) string {
	header := fmt.Sprintf("Sender: %s\nSubject: %s\nBody:", sender, subject)
	return compose(StageEmail, header, body)
}

// compose places the capped input between the stage instructions and its
// output specification.
func compose(stage Stage, header, input string) string {
	var b strings.Builder
	b.WriteString(instructions[stage])
	b.WriteString("\n\n")
	b.WriteString(header)
	b.WriteString("\n---\n")
	b.WriteString(formatting.Truncate(input, MaxInputRunes))
	b.WriteString("\n---\n\n")
	b.WriteString(specs[stage])
	return b.String()
}
