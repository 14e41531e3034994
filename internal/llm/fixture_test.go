package llm

// Shared candidate fixtures for the normalize/validate/extract tests.

const fullCandidateJSON = `{
  "recipe_name": "Herb Roasted Chicken Plate",
  "chef": "Jean-Pierre Dubois",
  "yield_count": 4,
  "allergens": ["dairy", "wheat"],
  "components": [
    {
      "name": "Roasted Chicken Breast",
      "type": "protein",
      "prep_time_minutes": 15,
      "cook_time_minutes": 35,
      "cook_temp_fahrenheit": 375,
      "cook_method": "roast",
      "portion_weight_grams": 170,
      "ingredients": [
        {"name": "chicken breast", "amount_per_portion_grams": 180},
        {"name": "butter", "amount_per_portion_grams": 10}
      ]
    },
    {
      "name": "Garlic Mashed Potatoes",
      "type": "starch",
      "prep_time_minutes": 10,
      "cook_time_minutes": 25,
      "cook_temp_fahrenheit": 0,
      "cook_method": "simmer",
      "portion_weight_grams": 150,
      "ingredients": [
        {"name": "potato", "amount_per_portion_grams": 160},
        {"name": "cream", "amount_per_portion_grams": 20}
      ]
    }
  ]
}`

// sparseCandidateJSON is missing numeric leaves, allergens, and chef —
// everything the defaulting policy must resolve before validation.
const sparseCandidateJSON = `{
  "recipe_name": "Steamed Greens",
  "components": [
    {
      "name": "Seasonal Greens",
      "type": "vegetable",
      "cook_method": "steam",
      "ingredients": [
        {"name": "green beans"}
      ]
    }
  ]
}`
