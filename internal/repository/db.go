package repository

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id             TEXT PRIMARY KEY,
	status         TEXT NOT NULL,
	template_name  TEXT NOT NULL,
	evidence_count INTEGER NOT NULL,
	warnings       TEXT NOT NULL DEFAULT '[]',
	docx_path      TEXT NOT NULL DEFAULT '',
	pdf_path       TEXT NOT NULL DEFAULT '',
	xlsx_path      TEXT NOT NULL DEFAULT '',
	error          TEXT NOT NULL DEFAULT '',
	created_at     TIMESTAMP NOT NULL,
	updated_at     TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS runs_created_at_idx ON runs (created_at);
`

// Open creates (if needed) and opens the embedded run store.
func Open(ctx context.Context, path string, logger *slog.Logger) (*sqlx.DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("opening run store", "path", path)

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create store dir: %w", err)
		}
	}

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		logger.Error("failed to open run store", "error", err)
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		logger.Error("failed to ping run store", "error", err)
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		logger.Error("failed to apply run store schema", "error", err)
		_ = db.Close()
		return nil, err
	}

	logger.Info("run store ready")
	return db, nil
}

// Close closes the run store gracefully.
func Close(db *sqlx.DB, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		logger.Error("failed to close run store", "error", err)
		return
	}
	logger.Info("run store closed")
}
