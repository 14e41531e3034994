// Package export produces an XLSX summary workbook for a batch run, one
// row per processed document, so a production team can review outcomes
// without opening individual JSON artifacts.
package export

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/prepline/recipe-extractor/internal/pipeline"
)

// Service renders batch results to XLSX bytes.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// SummaryXLSX returns an XLSX workbook (as bytes) summarizing results.
func (s *Service) SummaryXLSX(results []pipeline.DocumentResult) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Recipes"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	// drop the default sheet excelize creates
	if idx, _ := f.GetSheetIndex("Sheet1"); idx != -1 {
		_ = f.DeleteSheet("Sheet1")
	}

	headers := []string{
		"Source File",
		"Status",
		"Error Kind",
		"Recipe Name",
		"Chef",
		"Yield",
		"Allergens",
		"Components",
		"Output Path",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, r := range results {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, r.Source)
		if r.Failed() {
			write(2, "FAILED")
			write(3, r.ErrorKind())
		} else {
			write(2, "OK")
		}
		if r.Recipe != nil {
			write(4, r.Recipe.RecipeName)
			write(5, r.Recipe.Chef)
			write(6, r.Recipe.YieldCount)
			write(7, strings.Join(r.Recipe.Allergens, ", "))
			write(8, len(r.Recipe.Components))
		}
		write(9, r.OutputPath)
		row++
	}

	// Widen a few columns
	_ = f.SetColWidth(sheet, "A", "A", 48) // source
	_ = f.SetColWidth(sheet, "B", "C", 18) // status / kind
	_ = f.SetColWidth(sheet, "D", "D", 28) // recipe
	_ = f.SetColWidth(sheet, "E", "E", 20) // chef
	_ = f.SetColWidth(sheet, "G", "G", 32) // allergens
	_ = f.SetColWidth(sheet, "I", "I", 48) // output

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(results),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
