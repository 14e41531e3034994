package entity

// Recipe is the root record produced per input document. Components and
// Ingredients are owned by their parent and have no independent lifecycle;
// a Recipe is immutable once validated and written.
type Recipe struct {
	RecipeName string      `json:"recipe_name"`
	Chef       string      `json:"chef"`
	YieldCount float64     `json:"yield_count"`
	Allergens  []string    `json:"allergens"`
	Components []Component `json:"components"`
}

// Component is one preparable element of a recipe. Type is strictly one of
// the four values in constants.ComponentTypes.
type Component struct {
	Name               string       `json:"name"`
	Type               string       `json:"type"`
	PrepTimeMinutes    float64      `json:"prep_time_minutes"`
	CookTimeMinutes    float64      `json:"cook_time_minutes"`
	CookTempFahrenheit float64      `json:"cook_temp_fahrenheit"`
	CookMethod         string       `json:"cook_method"`
	PortionWeightGrams float64      `json:"portion_weight_grams"`
	Ingredients        []Ingredient `json:"ingredients"`
}

// Ingredient is a single ingredient line within a component.
type Ingredient struct {
	Name                  string  `json:"name"`
	AmountPerPortionGrams float64 `json:"amount_per_portion_grams"`
}
