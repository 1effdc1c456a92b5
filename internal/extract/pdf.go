package extract

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

func init() {
	// keep pdfcpu from reading or creating a user configuration directory
	model.ConfigPath = "disable"
}

// PDF extracts the text shown on each page of a PDF document. Pages that
// fail to decode are skipped and mark the result degraded; an unreadable
// document yields an empty degraded result.
func (e *Extractor) PDF(source string, data []byte) (result Text) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("pdf extraction panicked", "source", source, "panic", fmt.Sprint(r))
			result.Degraded = true
		}
	}()

	ctx, err := api.ReadContext(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		e.logger.Warn("pdf read failed", "source", source, "error", err)
		return Text{Degraded: true}
	}

	if err := api.ValidateContext(ctx); err != nil {
		e.logger.Warn("pdf validation failed", "source", source, "error", err)
		return Text{Degraded: true}
	}

	var b strings.Builder
	for page := 1; page <= ctx.PageCount; page++ {
		r, err := pdfcpu.ExtractPageContent(ctx, page)
		if err != nil || r == nil {
			e.logger.Warn("pdf page extraction failed", "source", source, "page", page, "error", err)
			result.Degraded = true
			continue
		}

		content, err := io.ReadAll(r)
		if err != nil {
			result.Degraded = true
			continue
		}

		b.WriteString(showText(content))
	}

	result.Value = strings.TrimSpace(b.String())
	return result
}
