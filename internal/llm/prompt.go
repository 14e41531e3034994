package llm

import (
	"encoding/json"
	"strings"

	"github.com/prepline/recipe-extractor/constants"
	"github.com/prepline/recipe-extractor/internal/common"
)

// BuildSystemPrompt composes the fixed extraction instruction: output shape
// pinned to the recipe JSON schema field-for-field, the anti-hallucination
// rule for chef, and the unknown-numeric defaulting rule. Pure function of
// the fixed rule set.
func BuildSystemPrompt() string {
	parts := []string{
		"You are a data extraction assistant for a food production company.",
		"You will receive raw text from a chef's PDF recipe. Parse it into structured JSON.",
		"Return ONLY valid JSON that matches the provided JSON Schema. Do not include any explanatory text, markdown, or code fences.",
		"Use 0 for any missing or unstated times, temperatures, weights, or counts.",
		"Every component must be classified as exactly one of: " + strings.Join(constants.ComponentTypes(), ", ") + ". If a component fits none of them, choose the closest one; never invent a fifth category.",
		"For allergens, identify common allergens such as: " + strings.Join(constants.CommonAllergens, ", ") + ".",
		"For cook methods, use descriptive terms like: " + strings.Join(constants.CommonCookMethods, ", ") + ".",
		"For portion_weight_grams, estimate the final plated weight per portion from the ingredient amounts when it is not stated.",
		"If yield_count is not specified, estimate it from typical portion sizes.",

		// Chef attribution is the one field where guessing is forbidden.
		"Only set 'chef' to a name that is explicitly written in the text (patterns like \"Chef [Name]\" or \"[Name]'s Recipe\").",
		"If no chef is explicitly named, set 'chef' to an empty string.",
		"Do NOT infer or invent a chef name; names of diners, reviewers, or other people mentioned in the text are not the chef.",

		"JSON Schema:\n" + mustJSON(BuildRecipeJSONSchema()),
	}
	return strings.Join(parts, "\n")
}

// BuildUserPrompt embeds the document text verbatim as the object to parse.
// Fails with EmptyInputError when the text is empty or whitespace-only,
// before any service call is made.
func BuildUserPrompt(req ExtractRequest) (string, error) {
	text := strings.TrimSpace(req.DocumentText)
	if text == "" {
		return "", &common.EmptyInputError{Source: req.FilenameHint}
	}

	var b strings.Builder
	b.WriteString("Please parse this recipe text into the specified JSON format:\n\n")
	b.WriteString(text)
	return b.String(), nil
}

func mustJSON(v any) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}
