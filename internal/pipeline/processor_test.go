package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prepline/recipe-extractor/constants"
	"github.com/prepline/recipe-extractor/internal/common"
	"github.com/prepline/recipe-extractor/internal/ingest"
	"github.com/prepline/recipe-extractor/internal/llm"
	"github.com/prepline/recipe-extractor/internal/pdftext"
	"github.com/prepline/recipe-extractor/internal/repository"
	"github.com/prepline/recipe-extractor/internal/store"
)

// stubTextSource serves canned text per document path, standing in for the
// PDF extraction collaborator.
type stubTextSource struct {
	texts map[string]string
}

func (s *stubTextSource) Extract(_ context.Context, path string) (pdftext.ExtractionResult, error) {
	text, ok := s.texts[path]
	if !ok {
		return pdftext.ExtractionResult{}, fmt.Errorf("no such document: %s", path)
	}
	return pdftext.ExtractionResult{Text: text, Pages: 1, WordCount: len(strings.Fields(text))}, nil
}

// scriptedCompleter picks its reply by matching a marker inside the user
// prompt (which embeds the document text verbatim).
type scriptedCompleter struct {
	replies map[string]string // marker -> completion
	calls   int
}

func (s *scriptedCompleter) Complete(_ context.Context, _, user string) (string, error) {
	s.calls++
	for marker, reply := range s.replies {
		if strings.Contains(user, marker) {
			return reply, nil
		}
	}
	return "", fmt.Errorf("no scripted reply for prompt")
}

func recipeJSON(name string) string {
	return fmt.Sprintf(`{
		"recipe_name": %q, "chef": "", "yield_count": 4, "allergens": ["dairy"],
		"components": [{
			"name": "Main", "type": "protein", "prep_time_minutes": 10,
			"cook_time_minutes": 20, "cook_temp_fahrenheit": 350, "cook_method": "bake",
			"portion_weight_grams": 150,
			"ingredients": [{"name": "thing", "amount_per_portion_grams": 100}]
		}]
	}`, name)
}

func newTestProcessor(t *testing.T, texts map[string]string, replies map[string]string) (*Processor, string, *repository.Catalog) {
	t.Helper()
	outDir := t.TempDir()
	catalog, err := repository.Open(context.Background(), "", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = catalog.Close() })

	completer := &scriptedCompleter{replies: replies}
	p := NewProcessor(
		nil,
		&stubTextSource{texts: texts},
		llm.NewExtractor(completer, nil),
		store.NewWriter(outDir, nil),
		catalog,
	)
	return p, outDir, catalog
}

func TestProcessBatch_IsolatesPerDocumentFailures(t *testing.T) {
	ctx := context.Background()

	texts := map[string]string{
		"/in/first.pdf":  "FIRST recipe text",
		"/in/second.pdf": "SECOND recipe text",
		"/in/third.pdf":  "THIRD recipe text",
	}
	replies := map[string]string{
		"FIRST":  recipeJSON("First Plate"),
		"SECOND": "Sorry, I couldn't make sense of that document.",
		"THIRD":  recipeJSON("Third Plate"),
	}
	p, outDir, catalog := newTestProcessor(t, texts, replies)

	docs := []ingest.Document{
		{SourcePath: "/in/first.pdf", Stem: "first", HashHex: "h1"},
		{SourcePath: "/in/second.pdf", Stem: "second", HashHex: "h2"},
		{SourcePath: "/in/third.pdf", Stem: "third", HashHex: "h3"},
	}
	results, sum := p.ProcessBatch(ctx, docs)

	require.Len(t, results, 3)
	assert.Equal(t, 3, sum.Processed)
	assert.Equal(t, 2, sum.Succeeded)
	assert.Equal(t, 1, sum.Failed)

	// First and third persisted.
	assert.FileExists(t, filepath.Join(outDir, "first.json"))
	assert.FileExists(t, filepath.Join(outDir, "third.json"))
	_, err := os.Stat(filepath.Join(outDir, "second.json"))
	assert.True(t, os.IsNotExist(err))

	// The second failure is a MalformedResponseError tagged to its document.
	require.True(t, results[1].Failed())
	var mr *common.MalformedResponseError
	require.True(t, errors.As(results[1].Err, &mr), "want MalformedResponseError, got %T", results[1].Err)
	assert.Equal(t, "/in/second.pdf", results[1].Source)
	assert.Equal(t, constants.StageParse, results[1].Stage)
	assert.Equal(t, common.KindMalformedResponse, results[1].ErrorKind())

	// Catalog recorded one row per document with matching outcomes.
	jobs, err := catalog.ListJobs(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 3)
	byPath := map[string]repository.Job{}
	for _, j := range jobs {
		byPath[j.SourcePath] = j
	}
	assert.Equal(t, constants.JobStatusSucceeded, byPath["/in/first.pdf"].Status)
	assert.Equal(t, constants.JobStatusFailed, byPath["/in/second.pdf"].Status)
	assert.Equal(t, common.KindMalformedResponse, byPath["/in/second.pdf"].ErrorKind)
	assert.Equal(t, constants.JobStatusSucceeded, byPath["/in/third.pdf"].Status)
}

func TestProcessDocument_RoundTrip(t *testing.T) {
	texts := map[string]string{"/in/plate.pdf": "PLATE text"}
	replies := map[string]string{"PLATE": recipeJSON("Round Trip Plate")}
	p, _, _ := newTestProcessor(t, texts, replies)

	res := p.ProcessDocument(context.Background(), ingest.Document{
		SourcePath: "/in/plate.pdf", Stem: "plate", HashHex: "h",
	})
	require.False(t, res.Failed(), "unexpected error: %v", res.Err)
	require.NotNil(t, res.Recipe)

	// Re-parsing the persisted artifact reproduces the identical Recipe.
	reread, err := store.Read(res.OutputPath)
	require.NoError(t, err)
	assert.Equal(t, *res.Recipe, reread)
}

func TestProcessDocument_TextSourceFailure(t *testing.T) {
	p, _, _ := newTestProcessor(t, map[string]string{}, map[string]string{})

	res := p.ProcessDocument(context.Background(), ingest.Document{
		SourcePath: "/in/missing.pdf", Stem: "missing",
	})
	require.True(t, res.Failed())
	assert.Equal(t, constants.StageTextExtract, res.Stage)
}

func TestProcessDocument_EmptyTextFailsBeforeServiceCall(t *testing.T) {
	texts := map[string]string{"/in/blank.pdf": "   "}
	completer := &scriptedCompleter{replies: map[string]string{}}
	p := NewProcessor(
		nil,
		&stubTextSource{texts: texts},
		llm.NewExtractor(completer, nil),
		store.NewWriter(t.TempDir(), nil),
		nil,
	)

	res := p.ProcessDocument(context.Background(), ingest.Document{
		SourcePath: "/in/blank.pdf", Stem: "blank",
	})
	require.True(t, res.Failed())
	var ei *common.EmptyInputError
	require.True(t, errors.As(res.Err, &ei))
	assert.Equal(t, constants.StagePrompt, res.Stage)
	assert.Equal(t, 0, completer.calls)
}

func TestProcessDocument_NoChefInference(t *testing.T) {
	// The source text names a diner, not a chef; the extracted chef stays
	// empty rather than being attributed to whoever is mentioned.
	texts := map[string]string{"/in/review.pdf": "REVIEW: Martha Jones loved this dish."}
	replies := map[string]string{"REVIEW": recipeJSON("Reviewed Plate")}
	p, _, _ := newTestProcessor(t, texts, replies)

	res := p.ProcessDocument(context.Background(), ingest.Document{
		SourcePath: "/in/review.pdf", Stem: "review",
	})
	require.False(t, res.Failed())
	assert.Equal(t, "", res.Recipe.Chef)

	persisted, err := store.Read(res.OutputPath)
	require.NoError(t, err)
	assert.Equal(t, "", persisted.Chef)
}
