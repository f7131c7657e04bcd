package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorClassification(t *testing.T) {
	input := NewAppError("NO_TEXT_EXTRACTED", "no text extracted from PDFs", ErrInvalidInput)
	assert.True(t, IsInputError(input))
	assert.False(t, IsServiceError(input))

	service := NewAppError("LLM_EXTRACT", "structured extraction failed", ErrService)
	assert.True(t, IsServiceError(service))
	assert.False(t, IsInputError(service))

	notFound := NewAppError("RUN_NOT_FOUND", "run not found", ErrNotFound)
	assert.True(t, IsNotFoundError(notFound))
}

func TestAppErrorMessageAndUnwrap(t *testing.T) {
	err := NewAppError("TEMPLATE_READ", "could not read DOCX template", ErrInvalidInput)
	assert.Equal(t, "TEMPLATE_READ: could not read DOCX template: invalid input", err.Error())
	assert.ErrorIs(t, err, ErrInvalidInput)

	bare := NewAppError("CODE", "message", nil)
	assert.Equal(t, "CODE: message", bare.Error())
	assert.Nil(t, errors.Unwrap(bare))
}

func TestWrapError(t *testing.T) {
	base := errors.New("disk full")
	wrapped := WrapError(base, "write report document")
	require.Error(t, wrapped)
	assert.Equal(t, "write report document: disk full", wrapped.Error())
	assert.ErrorIs(t, wrapped, base)

	assert.NoError(t, WrapError(nil, "anything"))
}
