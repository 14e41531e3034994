package llm

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/prepline/recipe-extractor/internal/common"
	"github.com/prepline/recipe-extractor/internal/entity"
)

// Extractor implements RecipeExtractor on top of any Completer: it builds
// the prompt, issues exactly one completion request per document, coerces
// the free-form response into JSON, applies the defaulting policy, and
// validates against the recipe schema.
type Extractor struct {
	completer Completer
	logger    *slog.Logger
}

func NewExtractor(completer Completer, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{completer: completer, logger: logger}
}

func (e *Extractor) ExtractRecipe(ctx context.Context, req ExtractRequest) (entity.Recipe, []byte, error) {
	rid := uuid.New().String()
	start := time.Now()

	e.logger.Info("llm.extract.start",
		"req_id", rid,
		"source", req.FilenameHint,
		"text_len", len(req.DocumentText),
	)

	user, err := BuildUserPrompt(req)
	if err != nil {
		return entity.Recipe{}, nil, err
	}
	sys := BuildSystemPrompt()

	content, err := e.completer.Complete(ctx, sys, user)
	if err != nil {
		e.logger.Error("llm.extract.service_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return entity.Recipe{}, nil, &common.ServiceUnavailableError{Cause: err}
	}

	candidate, err := ExtractJSONObject(content)
	if err != nil {
		e.logger.Error("llm.extract.malformed_response",
			"req_id", rid, "raw_len", len(content),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return entity.Recipe{}, []byte(content), err
	}

	normalized, defaulted, err := NormalizeCandidate(candidate, e.logger)
	if err != nil {
		// Candidate parsed as JSON but not as an object; same failure class.
		e.logger.Error("llm.extract.normalize_failed", "req_id", rid, "error", err)
		return entity.Recipe{}, candidate, &common.MalformedResponseError{Raw: content, Cause: err}
	}

	recipe, err := ValidateCandidate(normalized)
	if err != nil {
		e.logger.Error("llm.extract.schema_validation_failed",
			"req_id", rid, "error", err, "content", string(normalized),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return entity.Recipe{}, normalized, err
	}

	e.logger.Info("llm.extract.ok",
		"req_id", rid,
		"recipe", recipe.RecipeName,
		"chef", recipe.Chef,
		"components", len(recipe.Components),
		"defaulted_fields", len(defaulted),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return recipe, normalized, nil
}
