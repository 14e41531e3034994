// Package pdftext supplies the plain text of one input document.
//
// Extraction uses the ledongthuc/pdf library: pure Go, no CGO or external
// binaries, which keeps the batch tool a single deployable binary. Only
// PDFs with a text layer are supported; OCR for scanned documents is a
// separate concern and not handled here.
package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
)

// Extractor is the Text Source: document path -> raw text.
type Extractor interface {
	Extract(ctx context.Context, path string) (ExtractionResult, error)
}

// ExtractionResult holds the output of one document's text extraction.
type ExtractionResult struct {
	Text      string
	Pages     int
	WordCount int
	Duration  time.Duration
	Warnings  []string
}

// PDFExtractor reads the whole file into memory and walks pages with the
// pdf library. PDFs in this pipeline are single-recipe documents, a few
// pages at most, so buffering the file is fine.
type PDFExtractor struct {
	logger *slog.Logger
}

func NewPDFExtractor(logger *slog.Logger) *PDFExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &PDFExtractor{logger: logger}
}

// Extract reads path and returns the concatenated plain text of all pages.
// Pages whose text extraction fails are skipped with a warning rather than
// failing the document; some pages carry images only.
func (e *PDFExtractor) Extract(ctx context.Context, path string) (ExtractionResult, error) {
	start := time.Now()

	if err := ctx.Err(); err != nil {
		return ExtractionResult{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return ExtractionResult{}, fmt.Errorf("read pdf: %w", err)
	}
	if !IsPDF(data) {
		return ExtractionResult{}, fmt.Errorf("not a PDF file: %s", path)
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return ExtractionResult{}, fmt.Errorf("open pdf: %w", err)
	}

	pageCount := reader.NumPage()
	var b strings.Builder
	var warnings []string
	for i := 1; i <= pageCount; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("page %d: %v", i, err))
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(strings.TrimSpace(text))
	}

	res := ExtractionResult{
		Text:      strings.TrimSpace(b.String()),
		Pages:     pageCount,
		WordCount: len(strings.Fields(b.String())),
		Duration:  time.Since(start),
		Warnings:  warnings,
	}

	e.logger.Info("pdftext.extract.ok",
		"path", path,
		"pages", res.Pages,
		"words", res.WordCount,
		"warnings", len(res.Warnings),
		"elapsed_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

// IsPDF checks the %PDF- magic bytes.
func IsPDF(data []byte) bool {
	return len(data) >= 5 && string(data[:5]) == "%PDF-"
}
