package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/prepline/recipe-extractor/internal/common"
	"github.com/prepline/recipe-extractor/internal/export"
	"github.com/prepline/recipe-extractor/internal/ingest"
	"github.com/prepline/recipe-extractor/internal/llm"
	"github.com/prepline/recipe-extractor/internal/llm/openai"
	"github.com/prepline/recipe-extractor/internal/pdftext"
	"github.com/prepline/recipe-extractor/internal/pipeline"
	"github.com/prepline/recipe-extractor/internal/repository"
	"github.com/prepline/recipe-extractor/internal/store"
)

// resolveCatalogPath picks the extraction job catalog location: --inmem
// wins, then the --db flag, then the CATALOG_DB_PATH env value. An empty
// result opens an in-memory catalog.
func resolveCatalogPath(dbFlag string, inmem bool, envPath string) string {
	if inmem {
		return ""
	}
	if dbFlag != "" {
		return dbFlag
	}
	return envPath
}

// printError prints an error message to stderr, falling back to stdout if stderr fails.
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	// Parse CLI flags
	var (
		dir   = flag.String("dir", "", "directory of recipe PDFs to process (required)")
		out   = flag.String("out", "", "output directory for recipe JSON (defaults to <dir>/../output)")
		xlsx  = flag.String("xlsx", "", "optional XLSX summary path")
		db    = flag.String("db", "", "extraction job catalog path (overrides CATALOG_DB_PATH)")
		inmem = flag.Bool("inmem", false, "use an in-memory job catalog")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(2)
	}
	if *out == "" {
		*out = filepath.Join(filepath.Dir(filepath.Clean(*dir)), "output")
	}

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()

	// Load configuration
	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		printError("Error: %v\n", err)
		os.Exit(2)
	}

	// Job catalog (in-memory unless a path is configured)
	catalogPath := resolveCatalogPath(*db, *inmem, cfg.Catalog.Path)
	catalog, err := repository.Open(ctx, catalogPath, logger)
	if err != nil {
		logger.Error("failed to open job catalog", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := catalog.Close(); err != nil {
			logger.Warn("catalog close error", "error", err)
		}
	}()

	// Wire the pipeline
	textExtractor := pdftext.NewPDFExtractor(logger)
	completer := openai.NewClient(openai.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, logger)
	recipeExtractor := llm.NewExtractor(completer, logger)
	writer := store.NewWriter(*out, logger)
	processor := pipeline.NewProcessor(logger, textExtractor, recipeExtractor, writer, catalog)

	// Scan input directory
	ingestor := ingest.NewFSIngestor(logger)
	logger.Info("starting scan", "dir", *dir)
	docs, stats, err := ingestor.ScanDirectory(ctx, *dir, true)
	if err != nil {
		logger.Error("failed to scan directory", "error", err)
		os.Exit(1)
	}
	if len(docs) == 0 {
		printError("No PDF files found in %s\n", *dir)
		os.Exit(1)
	}

	// Process each document, independently and sequentially
	results, sum := processor.ProcessBatch(ctx, docs)

	// Optional XLSX summary
	if *xlsx != "" {
		svc := export.NewService(logger)
		b, err := svc.SummaryXLSX(results)
		if err != nil {
			logger.Error("failed to build summary workbook", "error", err)
		} else if err := os.WriteFile(*xlsx, b, 0o644); err != nil {
			logger.Error("failed to write summary workbook", "path", *xlsx, "error", err)
		} else {
			logger.Info("summary workbook written", "path", *xlsx)
		}
	}

	// Per-document report: succeeded vs failed, with the error kind
	fmt.Printf("Batch processing complete!\n")
	fmt.Printf("- Files scanned: %d (matched %d)\n", stats.Scanned, stats.Matched)
	fmt.Printf("- Processed: %d, succeeded: %d, failed: %d\n", sum.Processed, sum.Succeeded, sum.Failed)
	for _, r := range results {
		if r.Failed() {
			fmt.Printf("  FAIL %s [%s@%s]: %v\n", r.Source, r.ErrorKind(), r.Stage, r.Err)
		} else {
			fmt.Printf("  OK   %s -> %s\n", r.Source, r.OutputPath)
		}
	}

	if sum.Failed > 0 {
		os.Exit(1)
	}
}
