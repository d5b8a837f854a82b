// Package export produces an XLSX grading summary across a batch of
// converted documents, one row per question.
package export

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/pavelanni/examdoc/internal/model"
)

// GradingSummaryXLSX returns an XLSX workbook (as bytes) summarizing the
// grading signals of every question in the given documents.
func GradingSummaryXLSX(docs []*model.ExamDocument, logger *slog.Logger) ([]byte, error) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Grading"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Document",
		"Question",
		"Kind",
		"Status",
		"Score Awarded",
		"Score Max",
		"Issues",
		"Asset Required",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, doc := range docs {
		for _, q := range doc.Questions {
			write := func(col int, v any) {
				cell, _ := excelize.CoordinatesToCellName(col, row)
				_ = f.SetCellValue(sheet, cell, v)
			}

			write(1, doc.Source.FileName)
			write(2, q.Number)
			write(3, string(q.Kind))
			if q.Grading != nil && q.Grading.Status != nil {
				write(4, *q.Grading.Status)
			}
			if q.Grading != nil && q.Grading.ScoreAwarded != nil {
				write(5, *q.Grading.ScoreAwarded)
			}
			if q.Grading != nil && q.Grading.ScoreMax != nil {
				write(6, *q.Grading.ScoreMax)
			}
			write(7, issueCodes(q.Issues))
			write(8, q.Flags.AssetRequired)

			row++
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 40) // document
	_ = f.SetColWidth(sheet, "B", "C", 14)
	_ = f.SetColWidth(sheet, "D", "D", 24) // status
	_ = f.SetColWidth(sheet, "E", "F", 14)
	_ = f.SetColWidth(sheet, "G", "G", 48) // issues
	_ = f.SetColWidth(sheet, "H", "H", 14)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	logger.Info("export.xlsx.ok",
		"documents", len(docs),
		"rows", row-2,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func issueCodes(issues []model.Issue) string {
	if len(issues) == 0 {
		return ""
	}
	codes := make([]string, len(issues))
	for i, is := range issues {
		codes[i] = string(is.Code)
	}
	return strings.Join(codes, ", ")
}
