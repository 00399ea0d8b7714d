// Package heuristics derives a health score and ingredient warnings from
// parsed ingredient lists and nutrition facts. Pure functions, no I/O.
package heuristics

import (
	"strings"

	"foodscan/internal/models"
)

// ComputeHealthScore returns a score in [1,10], or nil when the ingredient
// list is empty (score not computable). Each ingredient contributes at most
// one adjustment: concerning terms are checked before beneficial ones and
// the first match wins. Clamping happens after every single step, not only
// at the end.
func ComputeHealthScore(ingredients []string, nutrition *models.NutritionInfo) *int {
	if len(ingredients) == 0 {
		return nil
	}

	score := baseScore

	for _, ingredient := range ingredients {
		lower := strings.ToLower(ingredient)

		switch {
		case containsAny(lower, concerningIngredients):
			score = max(minScore, score-1)
		case containsAny(lower, beneficialIngredients):
			score = min(maxScore, score+1)
		}
	}

	if nutrition != nil {
		if nutrition.Sodium != nil && *nutrition.Sodium > sodiumThreshold {
			score = max(minScore, score-1)
		}
		if nutrition.SaturatedFat != nil && *nutrition.SaturatedFat > saturatedFatThreshold {
			score = max(minScore, score-1)
		}
		if nutrition.Sugars != nil && *nutrition.Sugars > sugarsThreshold {
			score = max(minScore, score-1)
		}
		if nutrition.Calories != nil && *nutrition.Calories < lowCaloriesThreshold {
			score = min(maxScore, score+1)
		}
	}

	return &score
}

func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}
