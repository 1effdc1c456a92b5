package routing

import "strings"

// Intent is the business purpose assigned to an input.
type Intent string

const (
	IntentInvoice      Intent = "Invoice"
	IntentRFQ          Intent = "RFQ"
	IntentComplaint    Intent = "Complaint"
	IntentRegulation   Intent = "Regulation"
	IntentOrder        Intent = "Order"
	IntentQuery        Intent = "Query"
	IntentMarketing    Intent = "Marketing"
	IntentInternalMemo Intent = "Internal Memo"
	IntentResume       Intent = "Resume"
	IntentOther        Intent = "Other"

	// IntentNoContent marks an input with no classifiable text.
	IntentNoContent Intent = "Unknown (No content)"
	// IntentUnknown marks an input that never reached classification.
	IntentUnknown Intent = "Unknown"
)

// Intents is the closed label set offered to the oracle, in match order.
var Intents = []Intent{
	IntentInvoice,
	IntentRFQ,
	IntentComplaint,
	IntentRegulation,
	IntentOrder,
	IntentQuery,
	IntentMarketing,
	IntentInternalMemo,
	IntentResume,
	IntentOther,
}

// MatchIntent maps a free-form oracle answer onto the label set. The first
// label, in Intents order, contained case-insensitively in the answer wins.
// Unmatched answers map to Other.
func MatchIntent(answer string) Intent {
	lower := strings.ToLower(answer)
	for _, intent := range Intents {
		if strings.Contains(lower, strings.ToLower(string(intent))) {
			return intent
		}
	}
	return IntentOther
}

// Labels returns the label set as a comma-separated list.
func Labels() string {
	names := make([]string, len(Intents))
	for i, intent := range Intents {
		names[i] = string(intent)
	}
	return strings.Join(names, ", ")
}
