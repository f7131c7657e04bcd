// Package convert renders generated DOCX reports to PDF through an optional,
// platform-gated capability. Availability is resolved once at process start
// and passed explicitly into the output stage; unavailability downgrades the
// run to a single deliverable and is never an error.
package convert

import (
	"context"
	"log/slog"
	"os/exec"
)

// Converter renders a DOCX file to PDF.
type Converter interface {
	Convert(ctx context.Context, docxPath, pdfPath string) error
}

// Capability describes whether PDF conversion is available in this process.
type Capability struct {
	Available bool
	Converter Converter
	Reason    string // set when unavailable
}

// Detect probes for the conversion binary (LibreOffice's soffice by
// default). Called once at startup.
func Detect(binary string, log *slog.Logger) Capability {
	if log == nil {
		log = slog.Default()
	}
	if binary == "" {
		binary = "soffice"
	}
	path, err := exec.LookPath(binary)
	if err != nil {
		log.Warn("convert.capability.unavailable", "binary", binary, "error", err)
		return Capability{Reason: "pdf conversion unavailable: " + binary + " not found"}
	}
	log.Info("convert.capability.available", "binary", path)
	return Capability{
		Available: true,
		Converter: &LibreOffice{binary: path, runner: execRunner{}, log: log},
	}
}
