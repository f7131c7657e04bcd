package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/glr-works/glreport/internal/common"
)

// Run lifecycle statuses.
const (
	RunStatusRunning   = "RUNNING"
	RunStatusSucceeded = "SUCCEEDED"
	RunStatusFailed    = "FAILED"
)

// Run is one pipeline invocation and its artifacts.
type Run struct {
	ID            uuid.UUID `db:"id"`
	Status        string    `db:"status"`
	TemplateName  string    `db:"template_name"`
	EvidenceCount int       `db:"evidence_count"`
	Warnings      string    `db:"warnings"` // JSON array
	DocxPath      string    `db:"docx_path"`
	PDFPath       string    `db:"pdf_path"`
	XLSXPath      string    `db:"xlsx_path"`
	Error         string    `db:"error"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// WarningList decodes the stored warnings.
func (r *Run) WarningList() []string {
	var out []string
	_ = json.Unmarshal([]byte(r.Warnings), &out)
	return out
}

// Artifacts describes the output files a finished run produced. PDFPath is
// empty when the conversion capability was unavailable or failed.
type Artifacts struct {
	DocxPath string
	PDFPath  string
	XLSXPath string
}

// RunRepository persists run records.
type RunRepository interface {
	Start(ctx context.Context, templateName string, evidenceCount int) (*Run, error)
	FinishSuccess(ctx context.Context, id uuid.UUID, artifacts Artifacts, warnings []string) error
	FinishFailure(ctx context.Context, id uuid.UUID, errMsg string, warnings []string) error
	GetByID(ctx context.Context, id uuid.UUID) (*Run, error)
	List(ctx context.Context, limit int) ([]*Run, error)
}

type runRepository struct {
	db     *sqlx.DB
	logger *slog.Logger
}

func NewRunRepository(db *sqlx.DB, logger *slog.Logger) RunRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &runRepository{db: db, logger: logger}
}

func (r *runRepository) Start(ctx context.Context, templateName string, evidenceCount int) (*Run, error) {
	now := time.Now().UTC()
	run := &Run{
		ID:            uuid.New(),
		Status:        RunStatusRunning,
		TemplateName:  templateName,
		EvidenceCount: evidenceCount,
		Warnings:      "[]",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	const q = `INSERT INTO runs
		(id, status, template_name, evidence_count, warnings, docx_path, pdf_path, xlsx_path, error, created_at, updated_at)
		VALUES (:id, :status, :template_name, :evidence_count, :warnings, :docx_path, :pdf_path, :xlsx_path, :error, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, q, run); err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	r.logger.Info("run.start", "run_id", run.ID, "template", templateName, "evidence", evidenceCount)
	return run, nil
}

func (r *runRepository) FinishSuccess(ctx context.Context, id uuid.UUID, artifacts Artifacts, warnings []string) error {
	const q = `UPDATE runs SET status = ?, docx_path = ?, pdf_path = ?, xlsx_path = ?, warnings = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q,
		RunStatusSucceeded,
		artifacts.DocxPath, artifacts.PDFPath, artifacts.XLSXPath,
		marshalWarnings(warnings),
		time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	r.logger.Info("run.succeeded", "run_id", id, "pdf", artifacts.PDFPath != "")
	return nil
}

func (r *runRepository) FinishFailure(ctx context.Context, id uuid.UUID, errMsg string, warnings []string) error {
	const q = `UPDATE runs SET status = ?, error = ?, warnings = ?, updated_at = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q,
		RunStatusFailed, errMsg, marshalWarnings(warnings), time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("fail run: %w", err)
	}
	r.logger.Info("run.failed", "run_id", id, "error", errMsg)
	return nil
}

func (r *runRepository) GetByID(ctx context.Context, id uuid.UUID) (*Run, error) {
	var run Run
	if err := r.db.GetContext(ctx, &run, `SELECT * FROM runs WHERE id = ?`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewAppError("RUN_NOT_FOUND", "run not found: "+id.String(), common.ErrNotFound)
		}
		return nil, fmt.Errorf("get run: %w", err)
	}
	return &run, nil
}

func (r *runRepository) List(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 50
	}
	var runs []*Run
	if err := r.db.SelectContext(ctx, &runs, `SELECT * FROM runs ORDER BY created_at DESC LIMIT ?`, limit); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

func marshalWarnings(warnings []string) string {
	if len(warnings) == 0 {
		return "[]"
	}
	b, err := json.Marshal(warnings)
	if err != nil {
		return "[]"
	}
	return string(b)
}
