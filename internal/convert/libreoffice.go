package convert

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// LibreOffice converts DOCX to PDF with a headless soffice invocation.
type LibreOffice struct {
	binary string
	runner Runner
	log    *slog.Logger
}

// Convert renders docxPath to pdfPath. soffice writes <basename>.pdf into
// the output directory, so the produced file is renamed when the requested
// name differs.
func (l *LibreOffice) Convert(ctx context.Context, docxPath, pdfPath string) error {
	outDir := filepath.Dir(pdfPath)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	_, stderr, err := l.runner.Run(ctx, l.binary,
		"--headless", "--convert-to", "pdf", "--outdir", outDir, docxPath)
	if err != nil {
		return fmt.Errorf("soffice convert: %w (%s)", err, strings.TrimSpace(string(stderr)))
	}

	base := strings.TrimSuffix(filepath.Base(docxPath), filepath.Ext(docxPath))
	produced := filepath.Join(outDir, base+".pdf")
	if produced != pdfPath {
		if err := os.Rename(produced, pdfPath); err != nil {
			return fmt.Errorf("rename converted pdf: %w", err)
		}
	}

	if st, err := os.Stat(pdfPath); err != nil || st.Size() == 0 {
		return fmt.Errorf("converted pdf missing or empty: %s", pdfPath)
	}
	l.log.Info("convert.pdf.ok", "docx", docxPath, "pdf", pdfPath)
	return nil
}
