// Package extract turns raw input bytes into text or structured fields for
// classification and handling. Extraction is best-effort: failures produce
// empty or partial results flagged as degraded, never errors.
package extract

import (
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/JaimeStill/courier/internal/routing"
)

// Text is the result of a text extraction.
// Degraded distinguishes a failed or partial extraction from a document
// that simply contains no text.
type Text struct {
	Value    string
	Degraded bool
}

func (t Text) plain() routing.PlainText {
	return routing.PlainText{Text: t.Value, Degraded: t.Degraded}
}

// Extractor performs per-format extraction.
type Extractor struct {
	logger *slog.Logger
}

// New creates an Extractor that reports degraded extractions to logger.
func New(logger *slog.Logger) *Extractor {
	return &Extractor{logger: logger.With("system", "extract")}
}

// Content extracts the routing content for data in the given format.
// PDF and TEXT yield PlainText, JSON yields StructuredTree, EMAIL yields
// EmailFields. UNKNOWN yields nil.
func (e *Extractor) Content(format routing.Format, source string, data []byte) routing.Content {
	switch format {
	case routing.FormatPDF:
		return e.PDF(source, data).plain()
	case routing.FormatJSON:
		return e.JSON(source, data)
	case routing.FormatEmail:
		return e.Email(source, data)
	case routing.FormatText:
		return e.Text(data).plain()
	}
	return nil
}

// Text decodes data as UTF-8, replacing invalid sequences.
func (e *Extractor) Text(data []byte) Text {
	if utf8.Valid(data) {
		return Text{Value: string(data)}
	}
	return Text{Value: strings.ToValidUTF8(string(data), "�"), Degraded: true}
}
