// Package pipeline coordinates the per-document flow: text extraction,
// prompt construction, model completion, JSON coercion, schema validation,
// and artifact writing. Errors are values collected per document; a failure
// aborts only its own document, never the batch.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/prepline/recipe-extractor/constants"
	"github.com/prepline/recipe-extractor/internal/common"
	"github.com/prepline/recipe-extractor/internal/entity"
	"github.com/prepline/recipe-extractor/internal/ingest"
	"github.com/prepline/recipe-extractor/internal/llm"
	"github.com/prepline/recipe-extractor/internal/pdftext"
	"github.com/prepline/recipe-extractor/internal/repository"
	"github.com/prepline/recipe-extractor/internal/store"
)

// DocumentResult is the per-document outcome: either a written recipe or a
// tagged error with the stage it occurred at.
type DocumentResult struct {
	Source     string
	Stem       string
	OutputPath string
	Recipe     *entity.Recipe
	Stage      constants.Stage
	Err        error
	Elapsed    time.Duration
}

// Failed reports whether the document's pipeline ended in an error.
func (r DocumentResult) Failed() bool { return r.Err != nil }

// ErrorKind returns the stable failure kind name, or "" on success.
func (r DocumentResult) ErrorKind() string { return common.ErrorKind(r.Err) }

// BatchSummary aggregates a run.
type BatchSummary struct {
	Processed int
	Succeeded int
	Failed    int
}

// Processor runs the full pipeline for one document at a time. Documents
// share no mutable state, so the processor itself is stateless between
// calls.
type Processor struct {
	logger    *slog.Logger
	text      pdftext.Extractor
	extractor llm.RecipeExtractor
	writer    *store.Writer
	catalog   *repository.Catalog // optional; nil disables job bookkeeping
}

func NewProcessor(
	logger *slog.Logger,
	text pdftext.Extractor,
	extractor llm.RecipeExtractor,
	writer *store.Writer,
	catalog *repository.Catalog,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		logger:    logger,
		text:      text,
		extractor: extractor,
		writer:    writer,
		catalog:   catalog,
	}
}

// ProcessDocument runs text extraction through artifact write for one
// document. It always returns a result; errors are carried in the result,
// not thrown past it.
func (p *Processor) ProcessDocument(ctx context.Context, doc ingest.Document) DocumentResult {
	start := time.Now()
	res := DocumentResult{Source: doc.SourcePath, Stem: doc.Stem}

	jobID := p.startJob(ctx, doc)

	defer func() {
		res.Elapsed = time.Since(start)
		p.finishJob(ctx, jobID, res)
	}()

	// 1) Text Source
	ext, err := p.text.Extract(ctx, doc.SourcePath)
	if err != nil {
		res.Stage = constants.StageTextExtract
		res.Err = common.WrapError(err, "extract text")
		p.logger.Error("pipeline.text_extract.failed", "source", doc.SourcePath, "error", err)
		return res
	}

	// 2-4) Prompt build, completion, coercion, validation
	recipe, _, err := p.extractor.ExtractRecipe(ctx, llm.ExtractRequest{
		DocumentText: ext.Text,
		FilenameHint: doc.Stem,
	})
	if err != nil {
		res.Stage = stageFor(err)
		res.Err = err
		p.logger.Error("pipeline.extract.failed",
			"source", doc.SourcePath,
			"stage", string(res.Stage),
			"kind", common.ErrorKind(err),
			"error", err,
		)
		return res
	}

	// 5) Recipe Writer
	out, err := p.writer.Write(recipe, doc.Stem)
	if err != nil {
		res.Stage = constants.StageWrite
		res.Err = err
		p.logger.Error("pipeline.write.failed", "source", doc.SourcePath, "error", err)
		return res
	}

	res.Recipe = &recipe
	res.OutputPath = out
	res.Stage = constants.StageWrite
	p.logger.Info("pipeline.document.ok",
		"source", doc.SourcePath,
		"output", out,
		"recipe", recipe.RecipeName,
		"components", len(recipe.Components),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return res
}

// ProcessBatch runs documents sequentially, one pipeline to completion
// before the next begins, and returns every per-document result. A failed
// document never aborts the rest of the batch.
func (p *Processor) ProcessBatch(ctx context.Context, docs []ingest.Document) ([]DocumentResult, BatchSummary) {
	results := make([]DocumentResult, 0, len(docs))
	var sum BatchSummary

	for _, doc := range docs {
		r := p.ProcessDocument(ctx, doc)
		results = append(results, r)
		sum.Processed++
		if r.Failed() {
			sum.Failed++
		} else {
			sum.Succeeded++
		}
	}

	p.logger.Info("pipeline.batch.done",
		"processed", sum.Processed,
		"succeeded", sum.Succeeded,
		"failed", sum.Failed,
	)
	return results, sum
}

// stageFor maps an extraction error to the pipeline stage that produced it.
func stageFor(err error) constants.Stage {
	var (
		empty     *common.EmptyInputError
		service   *common.ServiceUnavailableError
		malformed *common.MalformedResponseError
		schema    *common.SchemaViolationError
	)
	switch {
	case errors.As(err, &empty):
		return constants.StagePrompt
	case errors.As(err, &service):
		return constants.StageComplete
	case errors.As(err, &malformed):
		return constants.StageParse
	case errors.As(err, &schema):
		return constants.StageValidate
	default:
		return constants.StageComplete
	}
}

// Catalog bookkeeping is best-effort: a catalog write failure is logged
// and the document's pipeline continues.
func (p *Processor) startJob(ctx context.Context, doc ingest.Document) uuid.UUID {
	if p.catalog == nil {
		return uuid.Nil
	}
	id, err := p.catalog.Start(ctx, doc.SourcePath, doc.HashHex)
	if err != nil {
		p.logger.Warn("pipeline.catalog.start_failed", "source", doc.SourcePath, "error", err)
		return uuid.Nil
	}
	return id
}

func (p *Processor) finishJob(ctx context.Context, jobID uuid.UUID, res DocumentResult) {
	if p.catalog == nil || jobID == uuid.Nil {
		return
	}
	var err error
	if res.Failed() {
		err = p.catalog.FinishFailure(ctx, jobID, res.Stage, res.ErrorKind(), res.Err.Error())
	} else {
		err = p.catalog.FinishSuccess(ctx, jobID, res.OutputPath)
	}
	if err != nil {
		p.logger.Warn("pipeline.catalog.finish_failed", "source", res.Source, "error", err)
	}
}
