package evidence

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"
)

// pageReader turns one PDF buffer into per-page plain text. Split out so the
// assembly logic is testable without real PDF bytes.
type pageReader func(buf Buffer) ([]string, error)

// Extractor is Stage 1: PDF buffers -> one flattened, page-labeled text
// document. Per-file failures are recovered as warnings; empty buffers are
// skipped silently.
type Extractor struct {
	read pageReader
	log  *slog.Logger
}

func NewExtractor(log *slog.Logger) *Extractor {
	if log == nil {
		log = slog.Default()
	}
	return &Extractor{read: readPDFPages, log: log}
}

// ExtractAll processes buffers strictly in order and returns the flattened
// evidence document plus any per-file warnings. An empty document is not an
// error here; the caller decides whether that is terminal.
func (e *Extractor) ExtractAll(bufs []Buffer) (string, []string) {
	var pages []Page
	var warnings []string

	for _, buf := range bufs {
		if len(buf.Data) == 0 {
			continue
		}
		texts, err := e.read(buf)
		if err != nil {
			w := fmt.Sprintf("Failed to read '%s': %v", buf.Name, err)
			e.log.Warn("evidence.extract.file_failed", "source", buf.Name, "error", err)
			warnings = append(warnings, w)
			continue
		}
		for i, t := range texts {
			pages = append(pages, Page{
				SourceName: buf.Name,
				PageNumber: i + 1,
				Text:       t,
			})
		}
		e.log.Debug("evidence.extract.file_ok", "source", buf.Name, "pages", len(texts))
	}

	doc := Flatten(pages)
	e.log.Info("evidence.extract.done",
		"files", len(bufs),
		"pages", len(pages),
		"warnings", len(warnings),
		"bytes", len(doc),
	)
	return doc, warnings
}

// readPDFPages extracts trimmed plain text per page. A page whose text
// cannot be decoded contributes an empty entry rather than failing the file;
// the page marker is still emitted so page numbering stays faithful.
func readPDFPages(buf Buffer) ([]string, error) {
	r, err := pdf.NewReader(bytes.NewReader(buf.Data), int64(len(buf.Data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	texts := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			texts = append(texts, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			texts = append(texts, "")
			continue
		}
		texts = append(texts, strings.TrimSpace(text))
	}
	return texts, nil
}
