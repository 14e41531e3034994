package llm

// BuildRecipeJSONSchema returns the recipe output contract as a JSON-Schema
// (draft 2020-12 subset) generic map. It is embedded in the prompt as a
// structured-output constraint and also used locally to validate.
func BuildRecipeJSONSchema() map[string]any {
	ingredient := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"name":                     map[string]any{"type": "string", "minLength": 1},
			"amount_per_portion_grams": map[string]any{"type": "number", "minimum": 0.0},
		},
		"required": []string{"name", "amount_per_portion_grams"},
	}

	component := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"name": map[string]any{"type": "string", "minLength": 1},
			// Closed enum: downstream systems key on this field, so an
			// out-of-enum value must fail validation, not slip through.
			"type":                 map[string]any{"type": "string", "enum": []string{"protein", "starch", "vegetable", "sauce"}},
			"prep_time_minutes":    map[string]any{"type": "number", "minimum": 0.0},
			"cook_time_minutes":    map[string]any{"type": "number", "minimum": 0.0},
			"cook_temp_fahrenheit": map[string]any{"type": "number"},
			"cook_method":          map[string]any{"type": "string"},
			"portion_weight_grams": map[string]any{"type": "number"},
			"ingredients":          map[string]any{"type": "array", "items": ingredient},
		},
		"required": []string{
			"name", "type", "prep_time_minutes", "cook_time_minutes",
			"cook_temp_fahrenheit", "cook_method", "portion_weight_grams", "ingredients",
		},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"recipe_name": map[string]any{"type": "string", "minLength": 1},
			"chef":        map[string]any{"type": "string"},
			"yield_count": map[string]any{"type": "number", "minimum": 0.0},
			"allergens":   map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"components":  map[string]any{"type": "array", "minItems": 1, "items": component},
		},
		"required": []string{"recipe_name", "chef", "yield_count", "allergens", "components"},
	}
}
