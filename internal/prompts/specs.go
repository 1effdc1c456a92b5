package prompts

const intentSpec = `Provide only the intent label as your response.
For example, if it's an invoice, respond with "Invoice".

Primary Intent:`

const emailSpec = `Respond with a JSON object matching this exact structure:

{
  "urgency": "<Low|Medium|High>",
  "crm_summary": "<summary>",
  "entities": ["<entity1>", "<entity2>"]
}

Example:
{
  "urgency": "High",
  "crm_summary": "Customer is reporting a critical system outage and requires immediate assistance.",
  "entities": ["System X", "John Doe", "Main St Office"]
}`

var specs = map[Stage]string{
	StageIntent: intentSpec,
	StageEmail:  emailSpec,
}
