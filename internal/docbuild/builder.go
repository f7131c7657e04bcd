// Package docbuild re-serializes finished plain-text reports into DOCX
// documents: one paragraph per line within each blank-line-separated block,
// one empty separator paragraph after each block.
package docbuild

import (
	"fmt"
	"os"
	"strings"

	"github.com/fumiama/go-docx"
)

// FromText converts final report text into a new DOCX document. Blocks whose
// lines are all blank are dropped; blank lines inside a non-blank block are
// kept as empty paragraphs.
func FromText(text string) *docx.Docx {
	doc := docx.New().WithDefaultTheme()
	for _, block := range strings.Split(text, "\n\n") {
		lines := strings.Split(block, "\n")
		if !anyNonBlank(lines) {
			continue
		}
		for _, line := range lines {
			p := doc.AddParagraph()
			if line != "" {
				p.AddText(line)
			}
		}
		doc.AddParagraph()
	}
	return doc
}

// Save writes the document to path.
func Save(doc *docx.Docx, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if _, err := doc.WriteTo(f); err != nil {
		return fmt.Errorf("write docx: %w", err)
	}
	return nil
}

func anyNonBlank(lines []string) bool {
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			return true
		}
	}
	return false
}
