package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateExtractionSchema(t *testing.T) {
	schema := BuildExtractionJSONSchema()

	assert.NoError(t, ValidateJSONAgainstSchema(schema,
		[]byte(`{"INSURED_NAME": "Jane Doe", "INSURED_H_ZIP": 77015, "TOL_CODE": null}`)))

	// Unknown keys are tolerated by the shape check; coercion drops them.
	assert.NoError(t, ValidateJSONAgainstSchema(schema, []byte(`{"EXTRA": "x"}`)))

	assert.Error(t, ValidateJSONAgainstSchema(schema, []byte(`{"INSURED_NAME": {"nested": true}}`)))
	assert.Error(t, ValidateJSONAgainstSchema(schema, []byte(`["not", "an", "object"]`)))
	assert.Error(t, ValidateJSONAgainstSchema(schema, []byte(`broken`)))
}

func TestBuildExtractionJSONSchemaCoversAllFields(t *testing.T) {
	schema := BuildExtractionJSONSchema()
	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	require.Len(t, props, len(ExtractionFields))
	for _, f := range ExtractionFields {
		assert.Contains(t, props, f)
	}
}
