package llm

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepline/recipe-extractor/internal/common"
)

// stubCompleter returns a fixed reply (or error) and counts calls, so tests
// can exercise the parse/validate stages without a live network dependency.
type stubCompleter struct {
	reply string
	err   error
	calls int
}

func (s *stubCompleter) Complete(_ context.Context, _, _ string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func TestExtractRecipe_WellFormedResponse(t *testing.T) {
	stub := &stubCompleter{reply: fullCandidateJSON}
	ex := NewExtractor(stub, nil)

	recipe, raw, err := ex.ExtractRecipe(context.Background(), ExtractRequest{
		DocumentText: "Herb Roasted Chicken Plate ...",
		FilenameHint: "chicken",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, stub.calls, "exactly one outbound request per document")
	assert.Equal(t, "Herb Roasted Chicken Plate", recipe.RecipeName)
	assert.JSONEq(t, fullCandidateJSON, string(raw))
}

func TestExtractRecipe_FencedResponse(t *testing.T) {
	stub := &stubCompleter{reply: "```json\n" + fullCandidateJSON + "\n```"}
	ex := NewExtractor(stub, nil)

	recipe, _, err := ex.ExtractRecipe(context.Background(), ExtractRequest{
		DocumentText: "some recipe text",
	})
	require.NoError(t, err)
	assert.Equal(t, "Herb Roasted Chicken Plate", recipe.RecipeName)
}

func TestExtractRecipe_SparseResponseGetsDefaults(t *testing.T) {
	stub := &stubCompleter{reply: sparseCandidateJSON}
	ex := NewExtractor(stub, nil)

	recipe, _, err := ex.ExtractRecipe(context.Background(), ExtractRequest{
		DocumentText: "greens, steam until tender",
	})
	require.NoError(t, err)
	assert.Equal(t, "", recipe.Chef)
	assert.Equal(t, float64(0), recipe.YieldCount)
	assert.Equal(t, []string{}, recipe.Allergens)
}

func TestExtractRecipe_MalformedResponse(t *testing.T) {
	stub := &stubCompleter{reply: "I'm sorry, I can't find a recipe here."}
	ex := NewExtractor(stub, nil)

	_, raw, err := ex.ExtractRecipe(context.Background(), ExtractRequest{
		DocumentText: "not a recipe",
	})
	require.Error(t, err)
	var mr *common.MalformedResponseError
	require.True(t, errors.As(err, &mr), "want MalformedResponseError, got %T", err)
	assert.Equal(t, stub.reply, mr.Raw)
	assert.Equal(t, stub.reply, string(raw))
}

func TestExtractRecipe_ServiceFailure(t *testing.T) {
	stub := &stubCompleter{err: fmt.Errorf("openai status 429: rate limited")}
	ex := NewExtractor(stub, nil)

	_, _, err := ex.ExtractRecipe(context.Background(), ExtractRequest{
		DocumentText: "some recipe text",
	})
	require.Error(t, err)
	var su *common.ServiceUnavailableError
	require.True(t, errors.As(err, &su), "want ServiceUnavailableError, got %T", err)
	assert.Equal(t, 1, stub.calls, "no automatic retry")
}

func TestExtractRecipe_EmptyInputSkipsServiceCall(t *testing.T) {
	stub := &stubCompleter{reply: fullCandidateJSON}
	ex := NewExtractor(stub, nil)

	_, _, err := ex.ExtractRecipe(context.Background(), ExtractRequest{
		DocumentText: "   \n ",
		FilenameHint: "blank",
	})
	require.Error(t, err)
	var ei *common.EmptyInputError
	require.True(t, errors.As(err, &ei), "want EmptyInputError, got %T", err)
	assert.Equal(t, 0, stub.calls, "empty input must fail before any service call")
}

func TestExtractRecipe_SchemaViolationNotRemapped(t *testing.T) {
	// "dessert" is outside the component enum; the pipeline fails closed
	// rather than silently remapping the category.
	reply := `{"recipe_name": "Flan", "chef": "", "yield_count": 6, "allergens": ["dairy", "eggs"],
		"components": [{"name": "Flan", "type": "dessert", "prep_time_minutes": 20,
		"cook_time_minutes": 50, "cook_temp_fahrenheit": 325, "cook_method": "bake",
		"portion_weight_grams": 120, "ingredients": [{"name": "egg", "amount_per_portion_grams": 50}]}]}`
	stub := &stubCompleter{reply: reply}
	ex := NewExtractor(stub, nil)

	_, _, err := ex.ExtractRecipe(context.Background(), ExtractRequest{DocumentText: "flan recipe"})
	require.Error(t, err)
	var sv *common.SchemaViolationError
	require.True(t, errors.As(err, &sv), "want SchemaViolationError, got %T", err)
	assert.Contains(t, sv.Path, "/components/0/type")
}
