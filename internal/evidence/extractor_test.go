package evidence

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderFormat(t *testing.T) {
	assert.Equal(t, "\n\n=== REPORT: loss_report.pdf | PAGE 3 ===\n", Header("loss_report.pdf", 3))
}

func TestFlattenOrdersAndTrims(t *testing.T) {
	pages := []Page{
		{SourceName: "a.pdf", PageNumber: 1, Text: "first page"},
		{SourceName: "a.pdf", PageNumber: 2, Text: ""},
		{SourceName: "b.pdf", PageNumber: 1, Text: "other file"},
	}
	doc := Flatten(pages)

	assert.False(t, strings.HasPrefix(doc, "\n"), "leading whitespace must be stripped")
	assert.False(t, strings.HasSuffix(doc, "\n"))

	aIdx := strings.Index(doc, "=== REPORT: a.pdf | PAGE 1 ===")
	a2Idx := strings.Index(doc, "=== REPORT: a.pdf | PAGE 2 ===")
	bIdx := strings.Index(doc, "=== REPORT: b.pdf | PAGE 1 ===")
	require.NotEqual(t, -1, aIdx)
	require.NotEqual(t, -1, a2Idx, "marker survives even for a textless page")
	require.NotEqual(t, -1, bIdx)
	assert.Less(t, aIdx, a2Idx)
	assert.Less(t, a2Idx, bIdx)

	assert.Contains(t, doc, "first page")
	assert.Contains(t, doc, "other file")
}

func TestFlattenEmpty(t *testing.T) {
	assert.Equal(t, "", Flatten(nil))
	assert.Equal(t, "", Flatten([]Page{{SourceName: "a.pdf", PageNumber: 1, Text: ""}}))
}

func fakeExtractor(read pageReader) *Extractor {
	e := NewExtractor(nil)
	e.read = read
	return e
}

func TestExtractAllAssemblesInOrder(t *testing.T) {
	e := fakeExtractor(func(buf Buffer) ([]string, error) {
		return []string{"page one of " + buf.Name, "page two of " + buf.Name}, nil
	})

	doc, warnings := e.ExtractAll([]Buffer{
		{Name: "first.pdf", Data: []byte("x")},
		{Name: "second.pdf", Data: []byte("x")},
	})

	assert.Empty(t, warnings)
	assert.Contains(t, doc, "=== REPORT: first.pdf | PAGE 1 ===")
	assert.Contains(t, doc, "=== REPORT: first.pdf | PAGE 2 ===")
	assert.Contains(t, doc, "=== REPORT: second.pdf | PAGE 1 ===")
	assert.Less(t,
		strings.Index(doc, "page two of first.pdf"),
		strings.Index(doc, "page one of second.pdf"))
}

func TestExtractAllSkipsEmptyBuffersSilently(t *testing.T) {
	calls := 0
	e := fakeExtractor(func(buf Buffer) ([]string, error) {
		calls++
		return []string{"text"}, nil
	})

	doc, warnings := e.ExtractAll([]Buffer{
		{Name: "empty.pdf"},
		{Name: "real.pdf", Data: []byte("x")},
	})

	assert.Equal(t, 1, calls)
	assert.Empty(t, warnings)
	assert.NotContains(t, doc, "empty.pdf")
}

func TestExtractAllRecoversPerFileFailure(t *testing.T) {
	e := fakeExtractor(func(buf Buffer) ([]string, error) {
		if buf.Name == "broken.pdf" {
			return nil, errors.New("open pdf: bad xref")
		}
		return []string{"good text"}, nil
	})

	doc, warnings := e.ExtractAll([]Buffer{
		{Name: "broken.pdf", Data: []byte("x")},
		{Name: "fine.pdf", Data: []byte("x")},
	})

	require.Len(t, warnings, 1)
	assert.Equal(t, fmt.Sprintf("Failed to read '%s': %v", "broken.pdf", "open pdf: bad xref"), warnings[0])
	assert.Contains(t, doc, "good text")
	assert.NotContains(t, doc, "broken.pdf")
}

func TestExtractAllAllFailuresYieldEmptyDoc(t *testing.T) {
	e := fakeExtractor(func(buf Buffer) ([]string, error) {
		return nil, errors.New("unreadable")
	})

	doc, warnings := e.ExtractAll([]Buffer{
		{Name: "a.pdf", Data: []byte("x")},
		{Name: "b.pdf", Data: []byte("x")},
	})

	assert.Equal(t, "", doc)
	assert.Len(t, warnings, 2)
}
