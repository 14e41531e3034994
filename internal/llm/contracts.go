package llm

import (
	"context"

	"github.com/prepline/recipe-extractor/internal/entity"
)

// Completer is the single capability the pipeline needs from a language
// model service: one prompt in, one free-form completion out. A test
// harness substitutes a deterministic stub; production uses the openai
// subpackage.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// ExtractRequest carries one document's text plus reporting hints.
type ExtractRequest struct {
	DocumentText string
	FilenameHint string
}

// RecipeExtractor is the interface the pipeline depends on.
type RecipeExtractor interface {
	ExtractRecipe(ctx context.Context, req ExtractRequest) (entity.Recipe, []byte /*rawJSON*/, error)
}
