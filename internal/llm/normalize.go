package llm

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

var (
	recipeNumericKeys     = []string{"yield_count"}
	componentNumericKeys  = []string{"prep_time_minutes", "cook_time_minutes", "cook_temp_fahrenheit", "portion_weight_grams"}
	ingredientNumericKeys = []string{"amount_per_portion_grams"}

	recipeAllowedKeys = map[string]struct{}{
		"recipe_name": {}, "chef": {}, "yield_count": {}, "allergens": {}, "components": {},
	}
	componentAllowedKeys = map[string]struct{}{
		"name": {}, "type": {}, "prep_time_minutes": {}, "cook_time_minutes": {},
		"cook_temp_fahrenheit": {}, "cook_method": {}, "portion_weight_grams": {}, "ingredients": {},
	}
	ingredientAllowedKeys = map[string]struct{}{
		"name": {}, "amount_per_portion_grams": {},
	}
)

// NormalizeCandidate applies the defaulting policy to a candidate object
// before schema validation, so the record is schema-complete even when the
// source data is incomplete:
//   - missing/null numeric leaf -> 0 (numeric strings are coerced)
//   - missing/null allergens    -> empty array
//   - missing/null string leaf  -> "" (then trimmed)
//   - unknown keys removed at every level
//
// It deliberately does NOT touch components[].type (out-of-enum values must
// fail closed in validation) and passes chef through unchanged: absence
// becomes "", but a present value is never inferred, stripped, or renamed.
func NormalizeCandidate(doc []byte, logger *slog.Logger) ([]byte, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var m map[string]any
	if err := json.Unmarshal(doc, &m); err != nil {
		return nil, nil, fmt.Errorf("normalize: decode: %w", err)
	}

	var changed []string
	note := func(path string) { changed = append(changed, path) }

	dropUnknown(m, recipeAllowedKeys, "", note)
	defaultString(m, "chef", "", note)
	trimString(m, "recipe_name")
	trimString(m, "chef")
	for _, k := range recipeNumericKeys {
		defaultNumber(m, k, "", note)
	}

	if _, ok := m["allergens"]; !ok || m["allergens"] == nil {
		m["allergens"] = []any{}
		note("allergens")
	}

	if comps, ok := m["components"].([]any); ok {
		for i, cv := range comps {
			comp, ok := cv.(map[string]any)
			if !ok {
				continue // validator reports the mistyped element
			}
			prefix := fmt.Sprintf("components/%d/", i)
			dropUnknown(comp, componentAllowedKeys, prefix, note)
			trimString(comp, "name")
			defaultString(comp, "cook_method", prefix, note)
			for _, k := range componentNumericKeys {
				defaultNumber(comp, k, prefix, note)
			}
			if _, ok := comp["ingredients"]; !ok || comp["ingredients"] == nil {
				comp["ingredients"] = []any{}
				note(prefix + "ingredients")
			}
			if ings, ok := comp["ingredients"].([]any); ok {
				for j, iv := range ings {
					ing, ok := iv.(map[string]any)
					if !ok {
						continue
					}
					ingPrefix := fmt.Sprintf("%singredients/%d/", prefix, j)
					dropUnknown(ing, ingredientAllowedKeys, ingPrefix, note)
					trimString(ing, "name")
					for _, k := range ingredientNumericKeys {
						defaultNumber(ing, k, ingPrefix, note)
					}
				}
			}
		}
	}

	out, err := json.Marshal(m)
	if err != nil {
		return nil, changed, fmt.Errorf("normalize: encode: %w", err)
	}
	if len(changed) > 0 {
		logger.Debug("llm.extract.normalize", "defaulted", changed)
	}
	return out, changed, nil
}

// defaultNumber coerces a missing/null numeric leaf to 0 and parses numeric
// strings the model occasionally emits (e.g. "350"). Genuinely mistyped
// values are left for the validator to flag.
func defaultNumber(m map[string]any, key, prefix string, note func(string)) {
	v, ok := m[key]
	if !ok || v == nil {
		m[key] = float64(0)
		note(prefix + key)
		return
	}
	if s, ok := v.(string); ok {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			m[key] = f
			note(prefix + key)
		}
	}
}

func defaultString(m map[string]any, key, prefix string, note func(string)) {
	if v, ok := m[key]; !ok || v == nil {
		m[key] = ""
		note(prefix + key)
	}
}

func trimString(m map[string]any, key string) {
	if s, ok := m[key].(string); ok {
		m[key] = strings.TrimSpace(s)
	}
}

func dropUnknown(m map[string]any, allowed map[string]struct{}, prefix string, note func(string)) {
	for k := range m {
		if _, ok := allowed[k]; !ok {
			delete(m, k)
			note(prefix + k + "(unknown)")
		}
	}
}
