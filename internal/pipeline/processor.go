// Package pipeline orchestrates one report run end to end: evidence text
// extraction, template flattening, LLM structured extraction, LLM report
// generation, document re-serialization, and output persistence. Control
// flow is strictly linear and single-shot; there is no branching, looping,
// or retry.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/glr-works/glreport/internal/common"
	"github.com/glr-works/glreport/internal/convert"
	"github.com/glr-works/glreport/internal/docbuild"
	"github.com/glr-works/glreport/internal/evidence"
	"github.com/glr-works/glreport/internal/export"
	"github.com/glr-works/glreport/internal/llm"
	"github.com/glr-works/glreport/internal/repository"
	"github.com/glr-works/glreport/internal/template"
)

// Output file names within a run directory.
const (
	ReportDocxName = "Completed_GLR.docx"
	ReportPDFName  = "Completed_GLR.pdf"
	FieldsXLSXName = "Extraction_Fields.xlsx"
)

// RunRequest carries the inputs of one pipeline invocation.
type RunRequest struct {
	TemplateName string
	Template     []byte
	Evidence     []evidence.Buffer
}

// RunResult carries the outcome of a successful run. PDFPath is empty when
// conversion was unavailable or failed (a reported degradation, not an
// error).
type RunResult struct {
	RunID      uuid.UUID
	Fields     map[string]string
	ReportText string
	DocxPath   string
	PDFPath    string
	XLSXPath   string
	Warnings   []string
}

// EvidenceExtractor is Stage 1: PDF buffers -> flattened evidence text plus
// per-file warnings.
type EvidenceExtractor interface {
	ExtractAll(bufs []evidence.Buffer) (text string, warnings []string)
}

// Processor wires the pipeline stages together.
type Processor struct {
	Logger    *slog.Logger
	Evidence  EvidenceExtractor
	LLM       llm.Client
	Converter convert.Capability
	Export    *export.Service
	Runs      repository.RunRepository
	DataDir   string
}

func NewProcessor(
	logger *slog.Logger,
	ev EvidenceExtractor,
	client llm.Client,
	converter convert.Capability,
	exp *export.Service,
	runs repository.RunRepository,
	dataDir string,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		Logger:    logger,
		Evidence:  ev,
		LLM:       client,
		Converter: converter,
		Export:    exp,
		Runs:      runs,
		DataDir:   dataDir,
	}
}

// Run executes the full pipeline for one request. All entities are created
// fresh per invocation; nothing is shared across runs except the output
// directory tree and the run store.
func (p *Processor) Run(ctx context.Context, req RunRequest) (*RunResult, error) {
	start := time.Now()

	if len(req.Template) == 0 {
		return nil, common.NewAppError("MISSING_TEMPLATE", "template document is required", common.ErrInvalidInput)
	}
	if len(req.Evidence) == 0 {
		return nil, common.NewAppError("MISSING_EVIDENCE", "at least one evidence PDF is required", common.ErrInvalidInput)
	}

	run, err := p.Runs.Start(ctx, req.TemplateName, len(req.Evidence))
	if err != nil {
		return nil, common.NewAppError("RUN_START", fmt.Sprintf("start run record: %v", err), common.ErrInternal)
	}
	ctx = common.WithRunID(ctx, run.ID.String())
	log := p.Logger.With("run_id", run.ID)
	log.Info("pipeline.run.start", "template", req.TemplateName, "evidence_files", len(req.Evidence))

	var warnings []string
	fail := func(appErr *common.AppError) (*RunResult, error) {
		_ = p.Runs.FinishFailure(ctx, run.ID, appErr.Error(), warnings)
		log.Error("pipeline.run.failed", "code", appErr.Code, "error", appErr)
		return nil, appErr
	}

	// Stage 1: evidence text. Empty output is terminal before any LLM call:
	// the inputs are most likely image-only scans.
	evidenceText, extractWarnings := p.Evidence.ExtractAll(req.Evidence)
	warnings = append(warnings, extractWarnings...)
	if evidenceText == "" {
		return fail(common.NewAppError("NO_TEXT_EXTRACTED",
			"no text extracted from PDFs; ensure they are text-based, not pure images",
			common.ErrInvalidInput))
	}

	// Stage 2: template text.
	tmplDoc, err := template.Read(req.Template)
	if err != nil {
		return fail(common.NewAppError("TEMPLATE_READ",
			fmt.Sprintf("could not read DOCX template: %v", err), common.ErrInvalidInput))
	}
	templateText := template.Flatten(tmplDoc)

	// Stage 3: structured extraction (deterministic).
	fields, _, err := llm.ExtractFields(ctx, p.LLM, evidenceText, log)
	if err != nil {
		return fail(common.NewAppError("LLM_EXTRACT",
			fmt.Sprintf("structured extraction failed: %v", err), common.ErrService))
	}

	// Stage 4: report generation (low, non-zero temperature).
	reportText, err := llm.GenerateReport(ctx, p.LLM, templateText, fields, log)
	if err != nil {
		return fail(common.NewAppError("LLM_GENERATE",
			fmt.Sprintf("report generation failed: %v", err), common.ErrService))
	}

	// Stage 5: re-serialize and persist outputs.
	runDir := filepath.Join(p.DataDir, "runs", run.ID.String())
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return fail(common.NewAppError("OUTPUT_DIR",
			fmt.Sprintf("create run output dir: %v", err), common.ErrInternal))
	}

	docxPath := filepath.Join(runDir, ReportDocxName)
	if err := docbuild.Save(docbuild.FromText(reportText), docxPath); err != nil {
		return fail(common.NewAppError("DOCX_WRITE",
			fmt.Sprintf("write report document: %v", err), common.ErrInternal))
	}

	xlsxPath := p.writeWorkbook(runDir, fields, &warnings, log)
	pdfPath := p.convertPDF(ctx, docxPath, runDir, &warnings, log)

	artifacts := repository.Artifacts{DocxPath: docxPath, PDFPath: pdfPath, XLSXPath: xlsxPath}
	if err := p.Runs.FinishSuccess(ctx, run.ID, artifacts, warnings); err != nil {
		return fail(common.NewAppError("RUN_FINISH",
			fmt.Sprintf("finish run record: %v", err), common.ErrInternal))
	}

	log.Info("pipeline.run.ok",
		"docx", docxPath,
		"pdf_ready", pdfPath != "",
		"warnings", len(warnings),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return &RunResult{
		RunID:      run.ID,
		Fields:     fields,
		ReportText: reportText,
		DocxPath:   docxPath,
		PDFPath:    pdfPath,
		XLSXPath:   xlsxPath,
		Warnings:   warnings,
	}, nil
}

// writeWorkbook emits the extraction review workbook. Failures degrade to a
// warning; the report itself is the primary deliverable.
func (p *Processor) writeWorkbook(runDir string, fields map[string]string, warnings *[]string, log *slog.Logger) string {
	if p.Export == nil {
		return ""
	}
	data, err := p.Export.FieldsWorkbook(fields)
	if err != nil {
		*warnings = append(*warnings, fmt.Sprintf("Extraction workbook failed: %v", err))
		log.Warn("pipeline.workbook.failed", "error", err)
		return ""
	}
	path := filepath.Join(runDir, FieldsXLSXName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		*warnings = append(*warnings, fmt.Sprintf("Extraction workbook failed: %v", err))
		log.Warn("pipeline.workbook.failed", "error", err)
		return ""
	}
	return path
}

// convertPDF renders the secondary deliverable when the capability is
// available. Unavailability or failure is a non-fatal, reported degradation.
func (p *Processor) convertPDF(ctx context.Context, docxPath, runDir string, warnings *[]string, log *slog.Logger) string {
	if !p.Converter.Available {
		if p.Converter.Reason != "" {
			*warnings = append(*warnings, p.Converter.Reason)
		}
		return ""
	}
	pdfPath := filepath.Join(runDir, ReportPDFName)
	if err := p.Converter.Converter.Convert(ctx, docxPath, pdfPath); err != nil {
		*warnings = append(*warnings, fmt.Sprintf("PDF conversion failed: %v", err))
		log.Warn("pipeline.convert.failed", "error", err)
		return ""
	}
	return pdfPath
}
