package routing

import "slices"

// Handler names as recorded in the ledger.
const (
	ClassifierAgent = "ClassifierAgent"
	EmailAgent      = "EmailAgent"
	StructuredAgent = "JSONAgent"
	Orchestrator    = "Orchestrator"
)

// Status values recorded in ledger entries and context.
type Status string

const (
	StatusClassified             Status = "Classified"
	StatusClassificationOnly     Status = "ClassificationOnly"
	StatusProcessed              Status = "Processed"
	StatusProcessedWithLLMError  Status = "ProcessedWithLLMError"
	StatusProcessedWithAnomalies Status = "ProcessedWithAnomalies"
	StatusError                  Status = "Error"
)

var (
	textExcluded = []Intent{IntentInvoice, IntentRFQ, IntentRegulation}
	pdfForEmail  = []Intent{IntentComplaint, IntentQuery, IntentOrder, IntentRFQ}
)

// Route selects the handler for a classified input. An empty result means
// the input is recorded but not handed to any handler.
//
// JSON always goes to the structured handler. EMAIL, and TEXT outside
// Invoice, RFQ and Regulation, go to the email handler. PDF goes to the
// email handler only for Complaint, Query, Order and RFQ.
func Route(format Format, intent Intent) string {
	switch format {
	case FormatJSON:
		return StructuredAgent
	case FormatEmail:
		return EmailAgent
	case FormatText:
		if !slices.Contains(textExcluded, intent) {
			return EmailAgent
		}
	case FormatPDF:
		if slices.Contains(pdfForEmail, intent) {
			return EmailAgent
		}
	}
	return ""
}

// Outcome summarizes what a handler did with a payload.
type Outcome struct {
	Handler string         `json:"handler"`
	Status  Status         `json:"status"`
	Record  map[string]any `json:"record,omitempty"`
}
