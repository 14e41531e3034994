package llm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/prepline/recipe-extractor/internal/common"
	"github.com/prepline/recipe-extractor/internal/entity"
)

// ValidateCandidate checks a candidate object (already normalized) against
// the recipe schema and decodes it into an entity.Recipe. On violation it
// returns a SchemaViolationError naming the first offending field path.
//
// No retries happen here; a violation is terminal for the document.
func ValidateCandidate(doc []byte) (entity.Recipe, error) {
	if err := validateJSONAgainstSchema(BuildRecipeJSONSchema(), doc); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			leaf := leafCause(ve)
			path := leaf.InstanceLocation
			if path == "" {
				path = "/"
			}
			return entity.Recipe{}, &common.SchemaViolationError{
				Path:  path,
				Cause: fmt.Errorf("%s", leaf.Message),
			}
		}
		return entity.Recipe{}, &common.SchemaViolationError{Path: "/", Cause: err}
	}

	var out entity.Recipe
	if err := json.Unmarshal(doc, &out); err != nil {
		return entity.Recipe{}, &common.SchemaViolationError{Path: "/", Cause: err}
	}
	// The schema leaves absent-vs-empty ambiguous for decoded slices; keep
	// the persisted form schema-complete.
	if out.Allergens == nil {
		out.Allergens = []string{}
	}
	for i := range out.Components {
		if out.Components[i].Ingredients == nil {
			out.Components[i].Ingredients = []entity.Ingredient{}
		}
	}
	return out, nil
}

// validateJSONAgainstSchema validates data against schemaMap.
func validateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	return schema.Validate(v)
}

// leafCause walks to the deepest first cause, which names the specific
// instance location that failed rather than the document root.
func leafCause(ve *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return ve
}
