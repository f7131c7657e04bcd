package llm

import (
	"strings"
)

// BuildExtractionSystemPrompt composes the structured-extraction system
// instruction: the full key enumeration plus the strict substring rules.
func BuildExtractionSystemPrompt() string {
	fieldsList := strings.Join(ExtractionFields, ", ")
	return "You are an insurance-claims information-extraction engine.\n" +
		"Your job is to build a structured JSON object capturing ALL relevant details.\n" +
		"You MUST output a single JSON object with exactly these string keys:\n" + fieldsList + "\n\n" +
		"STRICT RULES ABOUT VALUES:\n" +
		"1. Every non-empty value MUST be an exact contiguous substring of the REPORT TEXT.\n" +
		"2. If multiple candidates exist, choose the best one, but copy it exactly.\n" +
		"3. NEVER return 'N/A' or invented values in the JSON. Use empty string \"\" if not found.\n"
}

// BuildExtractionUserPrompt wraps the evidence document for the extraction call.
func BuildExtractionUserPrompt(evidenceText string) string {
	var b strings.Builder
	b.WriteString("### REPORT TEXT ###\n")
	b.WriteString(evidenceText)
	b.WriteString("\n\nNow output ONLY the JSON object described in the instructions.")
	return b.String()
}

// BuildReportSystemPrompt composes the report-generation system instruction.
func BuildReportSystemPrompt() string {
	return "You are an experienced field adjuster writing a final 'General Loss Report'.\n" +
		"Transform the TEMPLATE into a FINAL completed report using the JSON object.\n" +
		"- Replace placeholders like [DATE_LOSS], [INSURED_NAME] with exact JSON values.\n" +
		"- Use *_NARRATIVE fields to write the full narrative sections.\n" +
		"- Do not ignore non-empty JSON fields.\n" +
		"- Output plain text only."
}

// BuildReportUserPrompt packages the extracted mapping (formatted JSON, in
// schema order) followed by the raw template text.
func BuildReportUserPrompt(templateText string, fields map[string]string) string {
	var b strings.Builder
	b.WriteString("### EXTRACTED DATA (JSON) ###\n")
	b.Write(MarshalFieldsIndent(fields))
	b.WriteString("\n\n### GENERAL LOSS REPORT TEMPLATE TEXT ###\n")
	b.WriteString(templateText)
	b.WriteString("\n\nReturn the FINAL completed General Loss Report as plain text.")
	return b.String()
}
