package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedClient returns canned completions and records every request.
type scriptedClient struct {
	responses []string
	err       error
	requests  []ChatRequest
}

func (s *scriptedClient) Complete(_ context.Context, req ChatRequest) (string, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return "", s.err
	}
	resp := s.responses[0]
	if len(s.responses) > 1 {
		s.responses = s.responses[1:]
	}
	return resp, nil
}

func TestExtractFieldsDeterministicRequest(t *testing.T) {
	c := &scriptedClient{responses: []string{`{"INSURED_NAME": "Jane Doe"}`}}

	fields, raw, err := ExtractFields(context.Background(), c, "evidence text", nil)
	require.NoError(t, err)

	require.Len(t, c.requests, 1)
	req := c.requests[0]
	assert.Equal(t, ExtractTemperature, req.Temperature)
	assert.True(t, req.JSONOnly)
	assert.Contains(t, req.User, "evidence text")

	assert.Equal(t, "Jane Doe", fields["INSURED_NAME"])
	assert.Len(t, fields, len(ExtractionFields))
	assert.JSONEq(t, `{"INSURED_NAME": "Jane Doe"}`, string(raw))
}

func TestExtractFieldsToleratesShapeDrift(t *testing.T) {
	// Numbers and extra keys violate the declared shape but are coerced.
	c := &scriptedClient{responses: []string{`{"INSURED_H_ZIP": 77015, "EXTRA": "x"}`}}

	fields, _, err := ExtractFields(context.Background(), c, "text", nil)
	require.NoError(t, err)
	assert.Equal(t, "77015", fields["INSURED_H_ZIP"])
	_, ok := fields["EXTRA"]
	assert.False(t, ok)
}

func TestExtractFieldsParseFailureIsFatal(t *testing.T) {
	c := &scriptedClient{responses: []string{"Sorry, I cannot help with that."}}

	_, _, err := ExtractFields(context.Background(), c, "text", nil)
	require.Error(t, err)
}

func TestExtractFieldsPropagatesClientError(t *testing.T) {
	c := &scriptedClient{err: errors.New("rate limited")}

	_, _, err := ExtractFields(context.Background(), c, "text", nil)
	require.ErrorContains(t, err, "rate limited")
}

func TestGenerateReport(t *testing.T) {
	c := &scriptedClient{responses: []string{"\n\nGENERAL LOSS REPORT\nClaim Number: CLM-42\n"}}
	fields := map[string]string{"CLAIM_NUMBER": "CLM-42"}

	text, err := GenerateReport(context.Background(), c, "TEMPLATE", fields, nil)
	require.NoError(t, err)
	assert.Equal(t, "GENERAL LOSS REPORT\nClaim Number: CLM-42", text)

	require.Len(t, c.requests, 1)
	req := c.requests[0]
	assert.Equal(t, ReportTemperature, req.Temperature)
	assert.False(t, req.JSONOnly)
	assert.Contains(t, req.User, "TEMPLATE")
	assert.Contains(t, req.User, `"CLAIM_NUMBER": "CLM-42"`)
}

func TestGenerateReportEmptyResponse(t *testing.T) {
	c := &scriptedClient{responses: []string{"   \n  "}}

	_, err := GenerateReport(context.Background(), c, "TEMPLATE", map[string]string{}, nil)
	require.Error(t, err)
}
