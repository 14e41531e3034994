package constants

import (
	"strings"
)

// ComponentType classifies one preparable element of a recipe.
// Downstream production systems key on this field, so the set is closed:
// anything outside it must be rejected, never passed through.
type ComponentType string

const (
	Protein   ComponentType = "protein"
	Starch    ComponentType = "starch"
	Vegetable ComponentType = "vegetable"
	Sauce     ComponentType = "sauce"
)

var allComponentTypes = []ComponentType{
	Protein,
	Starch,
	Vegetable,
	Sauce,
}

// ComponentTypes returns the enum as plain strings, in stable order.
func ComponentTypes() []string {
	result := make([]string, len(allComponentTypes))
	for i, ct := range allComponentTypes {
		result[i] = string(ct)
	}
	return result
}

// IsComponentType reports whether input is exactly one of the four
// enumerated values (case-sensitive; the schema stores lowercase).
func IsComponentType(input string) bool {
	for _, ct := range allComponentTypes {
		if input == string(ct) {
			return true
		}
	}
	return false
}

// CommonAllergens is the vocabulary hinted to the model when identifying
// allergens. It is guidance only; the schema accepts any string.
var CommonAllergens = []string{
	"dairy",
	"eggs",
	"fish",
	"shellfish",
	"tree nuts",
	"peanuts",
	"wheat",
	"soy",
}

// CommonCookMethods lists descriptive cook method terms suggested to the
// model. Free text is still accepted.
var CommonCookMethods = []string{
	"bake", "grill", "sauté", "steam", "fry", "roast", "simmer", "braise",
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// AllowedExtensions holds the file extensions accepted for recipe ingestion.
// Only text-layer PDFs are supported; scanned-image OCR is out of scope.
var AllowedExtensions = map[string]struct{}{
	"pdf": {},
}
