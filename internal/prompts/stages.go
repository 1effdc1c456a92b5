// Package prompts holds the oracle prompts used by the pipeline. Each stage
// prompt is composed from stage instructions, the input under analysis, and
// an output specification.
package prompts

// Stage identifies the pipeline step a prompt serves.
type Stage string

// Pipeline stages that consult the oracle.
const (
	StageIntent Stage = "intent"
	StageEmail  Stage = "email"
)
