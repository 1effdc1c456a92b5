package email

import (
	"context"
	"fmt"

	"github.com/JaimeStill/courier/internal/prompts"
	"github.com/JaimeStill/courier/internal/routing"
	"github.com/JaimeStill/courier/pkg/formatting"
)

type crmReply struct {
	status   routing.Status
	urgency  string
	summary  string
	entities []any
	raw      string
}

// extract asks the oracle for the CRM fields. Oracle failures and
// unparseable answers degrade to Medium urgency with the raw answer noted.
func (h *Handler) extract(ctx context.Context, p *routing.Payload, sender, subject, body string) crmReply {
	raw, err := h.oracle.Complete(ctx, prompts.Email(sender, subject, body))
	if err != nil {
		h.logger.Warn("crm extraction failed", "thread_id", p.ThreadID, "error", err)
		return crmReply{
			status:   routing.StatusProcessedWithLLMError,
			urgency:  UrgencyMedium,
			summary:  fmt.Sprintf("LLM call failed: %v", err),
			entities: []any{},
		}
	}

	parsed, err := ParseReply(raw)
	if err != nil {
		h.logger.Warn("crm reply not json", "thread_id", p.ThreadID, "error", err)
		return crmReply{
			status:   routing.StatusProcessedWithLLMError,
			urgency:  UrgencyMedium,
			summary:  "LLM response was not valid JSON. Raw: " + raw,
			entities: []any{},
			raw:      raw,
		}
	}

	summary, _ := parsed["crm_summary"].(string)
	if summary == "" {
		summary = "Summary not extracted."
	}

	entities, ok := parsed["entities"].([]any)
	if !ok {
		entities = []any{}
	}

	return crmReply{
		status:   routing.StatusProcessed,
		urgency:  NormalizeUrgency(parsed["urgency"]),
		summary:  summary,
		entities: entities,
		raw:      raw,
	}
}

// ParseReply decodes an oracle answer as a JSON object, tolerating a
// surrounding code fence.
func ParseReply(raw string) (map[string]any, error) {
	parsed, err := formatting.Parse[map[string]any](formatting.StripFence(raw))
	if err != nil {
		return nil, err
	}
	if parsed == nil {
		return nil, fmt.Errorf("%w: empty reply", formatting.ErrParseFailed)
	}
	return parsed, nil
}
