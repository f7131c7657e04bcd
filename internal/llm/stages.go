package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Sampling temperatures are fixed per deployment: extraction must be
// faithful and reproducible, generation may vary slightly in phrasing.
const (
	ExtractTemperature float32 = 0.0
	ReportTemperature  float32 = 0.1
)

// ExtractFields runs the structured-extraction round trip: evidence text in,
// coerced field mapping out. Returns the raw response body alongside the
// mapping for auditability.
func ExtractFields(ctx context.Context, c Client, evidenceText string, logger *slog.Logger) (map[string]string, []byte, error) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()
	logger.Info("llm.extract.start", "evidence_bytes", len(evidenceText), "fields", len(ExtractionFields))

	content, err := c.Complete(ctx, ChatRequest{
		System:      BuildExtractionSystemPrompt(),
		User:        BuildExtractionUserPrompt(evidenceText),
		Temperature: ExtractTemperature,
		JSONOnly:    true,
	})
	if err != nil {
		logger.Error("llm.extract.call_failed", "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return nil, nil, err
	}
	raw := []byte(strings.TrimSpace(content))

	if err := ValidateJSONAgainstSchema(BuildExtractionJSONSchema(), raw); err != nil {
		// Shape violations are recoverable: coercion below normalizes them.
		logger.Warn("llm.extract.schema_mismatch", "error", err)
	}

	fields, err := ParseExtraction(raw)
	if err != nil {
		logger.Error("llm.extract.parse_failed", "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds())
		return nil, raw, fmt.Errorf("parse extraction: %w", err)
	}

	nonEmpty := 0
	for _, v := range fields {
		if v != "" {
			nonEmpty++
		}
	}
	logger.Info("llm.extract.ok",
		"fields", len(fields),
		"non_empty", nonEmpty,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return fields, raw, nil
}

// GenerateReport runs the report-generation round trip: template text plus
// extracted mapping in, finished plain-text report out.
func GenerateReport(ctx context.Context, c Client, templateText string, fields map[string]string, logger *slog.Logger) (string, error) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()
	logger.Info("llm.generate.start", "template_bytes", len(templateText))

	content, err := c.Complete(ctx, ChatRequest{
		System:      BuildReportSystemPrompt(),
		User:        BuildReportUserPrompt(templateText, fields),
		Temperature: ReportTemperature,
	})
	if err != nil {
		logger.Error("llm.generate.call_failed", "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return "", err
	}

	text := strings.TrimSpace(content)
	if text == "" {
		logger.Error("llm.generate.empty_response", "elapsed_ms", time.Since(start).Milliseconds())
		return "", fmt.Errorf("empty report text in response")
	}
	logger.Info("llm.generate.ok", "report_bytes", len(text), "elapsed_ms", time.Since(start).Milliseconds())
	return text, nil
}
