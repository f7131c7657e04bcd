package export

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/glr-works/glreport/internal/llm"
)

func TestFieldsWorkbook(t *testing.T) {
	svc := NewService(slog.New(slog.NewTextHandler(io.Discard, nil)))

	fields := map[string]string{
		"INSURED_NAME":       "Jane Doe",
		"CLAIM_NUMBER":       "CLM-2024-0042",
		"DWELLING_NARRATIVE": "Wind damage to the roof and north elevation.",
	}
	data, err := svc.FieldsWorkbook(fields)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Extraction")
	require.NoError(t, err)
	require.Len(t, rows, len(llm.ExtractionFields)+1)

	assert.Equal(t, []string{"Field", "Value", "Kind", "Status"}, rows[0])

	byField := map[string][]string{}
	for _, row := range rows[1:] {
		// excelize drops trailing empty cells, so pad before indexing.
		for len(row) < 4 {
			row = append(row, "")
		}
		byField[row[0]] = row
	}

	require.Contains(t, byField, "INSURED_NAME")
	assert.Equal(t, []string{"INSURED_NAME", "Jane Doe", "value", "found"}, byField["INSURED_NAME"])
	assert.Equal(t, []string{"DWELLING_NARRATIVE", "Wind damage to the roof and north elevation.", "narrative", "found"}, byField["DWELLING_NARRATIVE"])
	assert.Equal(t, []string{"POLICY_NUMBER", "", "value", "empty"}, byField["POLICY_NUMBER"])

	// Row order follows the schema.
	assert.Equal(t, llm.ExtractionFields[0], rows[1][0])
	assert.Equal(t, llm.ExtractionFields[len(llm.ExtractionFields)-1], rows[len(rows)-1][0])
}

func TestFieldsWorkbookEmptyMapping(t *testing.T) {
	svc := NewService(nil)

	data, err := svc.FieldsWorkbook(map[string]string{})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Extraction")
	require.NoError(t, err)
	assert.Len(t, rows, len(llm.ExtractionFields)+1)
}
