package llm

// BuildExtractionJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map describing the extraction payload: one object whose known keys
// are strings (null and scalars tolerated, coercion normalizes them).
// Used locally to sanity-check the response shape before coercion; shape
// violations are logged, never fatal — only an unparseable body aborts a run.
func BuildExtractionJSONSchema() map[string]any {
	props := make(map[string]any, len(ExtractionFields))
	for _, f := range ExtractionFields {
		props[f] = map[string]any{
			"type": []string{"string", "number", "boolean", "null"},
		}
	}
	return map[string]any{
		"type":       "object",
		"properties": props,
	}
}
