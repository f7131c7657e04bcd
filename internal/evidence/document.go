package evidence

import (
	"fmt"
	"strings"
)

// Buffer is one uploaded PDF: raw bytes tagged with a display name.
type Buffer struct {
	Name string
	Data []byte
}

// Page is one extracted evidence page. PageNumber is 1-indexed.
type Page struct {
	SourceName string
	PageNumber int
	Text       string
}

// Header returns the page marker that labels each chunk of the flattened
// evidence document.
func Header(sourceName string, pageNumber int) string {
	return fmt.Sprintf("\n\n=== REPORT: %s | PAGE %d ===\n", sourceName, pageNumber)
}

// Flatten concatenates pages into one evidence document: each page becomes
// its header marker followed by its text, chunks newline-joined, the whole
// result trimmed. Pages must already be in (source, page) order.
func Flatten(pages []Page) string {
	chunks := make([]string, 0, len(pages))
	for _, p := range pages {
		chunks = append(chunks, Header(p.SourceName, p.PageNumber)+p.Text)
	}
	return strings.TrimSpace(strings.Join(chunks, "\n"))
}
