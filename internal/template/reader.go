// Package template reads DOCX report templates and flattens them to the
// plain text the report generator consumes. Placeholder tokens (bracketed
// markers like [DATE_LOSS]) survive as raw text; no structural metadata is
// retained.
package template

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/fumiama/go-docx"
)

// Read parses template bytes as a DOCX document.
func Read(data []byte) (*docx.Docx, error) {
	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parse docx template: %w", err)
	}
	return doc, nil
}

// Flatten concatenates every non-blank paragraph's text in document order,
// followed by every non-blank table cell's text (row-major, table order),
// newline-joined. Nested tables, headers/footers, and styles get no special
// handling.
func Flatten(doc *docx.Docx) string {
	var chunks []string

	for _, item := range doc.Document.Body.Items {
		p, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		text := p.String()
		if strings.TrimSpace(text) != "" {
			chunks = append(chunks, text)
		}
	}

	for _, item := range doc.Document.Body.Items {
		tbl, ok := item.(*docx.Table)
		if !ok {
			continue
		}
		for _, row := range tbl.TableRows {
			for _, cell := range row.TableCells {
				text := strings.TrimSpace(cellText(cell))
				if text != "" {
					chunks = append(chunks, text)
				}
			}
		}
	}

	return strings.Join(chunks, "\n")
}

func cellText(cell *docx.WTableCell) string {
	parts := make([]string, 0, len(cell.Paragraphs))
	for _, p := range cell.Paragraphs {
		parts = append(parts, p.String())
	}
	return strings.Join(parts, "\n")
}
