package prompts

const intentInstructions = `Analyze the following text content and classify its primary intent.

Choose one of the following intents:
- Invoice (Billing statement, request for payment)
- RFQ (Request for Quotation, inquiry about pricing for goods/services)
- Complaint (Expression of dissatisfaction, issue report)
- Regulation (Official rule, legal document, compliance information)
- Order (Confirmation of a purchase, request to supply goods/services)
- Query (A question, request for information not fitting other categories)
- Marketing (Promotional material, newsletter, advertisement)
- Internal Memo (Communication within an organization)
- Resume (Curriculum Vitae, job application document)
- Other (If none of the above clearly fit)

Consider the overall purpose of the document.`

const emailInstructions = `Analyze the following email content.

Based on the content, determine the following:
1. Urgency: Classify the urgency as Low, Medium, or High.
2. CRM Summary: Provide a concise summary (1-2 sentences) of the main point or request, suitable for a CRM system.
3. Extracted Entities (Optional): List any key entities like names, organizations, dates, or product names mentioned.`

var instructions = map[Stage]string{
	StageIntent: intentInstructions,
	StageEmail:  emailInstructions,
}
