// Package export produces the extraction review workbook: every schema
// field and the value the structured extractor copied for it, so an adjuster
// can audit the mapping behind a generated report.
package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/glr-works/glreport/internal/llm"
)

type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// FieldsWorkbook returns an XLSX workbook (as bytes) listing the extracted
// mapping in schema order.
func (s *Service) FieldsWorkbook(fields map[string]string) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Extraction"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{"Field", "Value", "Kind", "Status"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	filled := 0
	for _, name := range llm.ExtractionFields {
		value := fields[name]

		kind := "value"
		if llm.IsNarrativeField(name) {
			kind = "narrative"
		}
		status := "found"
		if value == "" {
			status = "empty"
		} else {
			filled++
		}

		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, name)
		write(2, value)
		write(3, kind)
		write(4, status)
		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 30)
	_ = f.SetColWidth(sheet, "B", "B", 80)
	_ = f.SetColWidth(sheet, "C", "D", 12)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"fields", len(llm.ExtractionFields),
		"filled", filled,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
