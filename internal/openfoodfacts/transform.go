package openfoodfacts

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"foodscan/internal/models"
)

const (
	maxIngredients = 50
	maxAllergens   = 10
)

var (
	ingredientSeparators = regexp.MustCompile(`[,.;:]`)
	allergenSeparators   = regexp.MustCompile(`[,;]`)
	nonNumeric           = regexp.MustCompile(`[^\d.-]`)
)

// transformProduct normalizes one upstream document. Health score and
// warnings are left unset; deriving them is the pipeline's job.
func transformProduct(raw rawProduct) (*models.ProductData, error) {
	barcode := raw.Code
	if barcode == "" {
		// Some documents only carry a composite _id like "product#0123".
		if parts := strings.Split(raw.ID, "#"); len(parts) > 1 {
			barcode = parts[1]
		}
	}
	if barcode == "" {
		return nil, ErrMissingBarcode
	}

	name := raw.ProductName
	if name == "" {
		name = "Unknown Product"
	}

	return &models.ProductData{
		Barcode:       barcode,
		Name:          name,
		Brand:         raw.Brands,
		Description:   extractDescription(raw),
		Ingredients:   extractIngredients(raw.IngredientsText),
		Allergens:     extractAllergens(raw.Allergens),
		Warnings:      []string{},
		NutritionInfo: extractNutritionInfo(raw.Nutriments),
		ImageURL:      raw.ImageURL,
		Source:        models.SourceOpenFoodFacts,
		ExternalID:    raw.ID,
	}, nil
}

// extractDescription prefers the generic name, then the plain ingredients
// text, then the concatenation of every localized ingredients_text_* field.
func extractDescription(raw rawProduct) string {
	if raw.GenericName != "" {
		return raw.GenericName
	}
	if raw.IngredientsText != "" {
		return raw.IngredientsText
	}

	keys := make([]string, 0)
	for key := range raw.Extra {
		if strings.HasPrefix(key, "ingredients_text") {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		if value, ok := raw.Extra[key].(string); ok && value != "" {
			parts = append(parts, value)
		}
	}
	return strings.Join(parts, " ")
}

func extractIngredients(ingredientsText string) []string {
	ingredients := []string{}
	if ingredientsText == "" {
		return ingredients
	}

	seen := map[string]struct{}{}
	for _, piece := range ingredientSeparators.Split(strings.ToLower(ingredientsText), -1) {
		ingredient := strings.TrimSpace(piece)
		if ingredient == "" {
			continue
		}
		if _, ok := seen[ingredient]; ok {
			continue
		}
		seen[ingredient] = struct{}{}
		ingredients = append(ingredients, ingredient)
		if len(ingredients) == maxIngredients {
			break
		}
	}
	return ingredients
}

func extractAllergens(allergensText string) []string {
	allergens := []string{}
	if allergensText == "" {
		return allergens
	}

	cleaned := strings.NewReplacer("<", "", ">", "").Replace(strings.ToLower(allergensText))

	seen := map[string]struct{}{}
	for _, piece := range allergenSeparators.Split(cleaned, -1) {
		allergen := strings.TrimSpace(piece)
		if allergen == "" {
			continue
		}
		if _, ok := seen[allergen]; ok {
			continue
		}
		seen[allergen] = struct{}{}
		allergens = append(allergens, allergen)
		if len(allergens) == maxAllergens {
			break
		}
	}
	return allergens
}

// extractNutritionInfo pulls the per-100g nutriment fields. Missing or
// unparsable values stay nil; the serving size is the provider's fixed
// per-100g basis.
func extractNutritionInfo(nutriments map[string]any) *models.NutritionInfo {
	if nutriments == nil {
		return nil
	}

	return &models.NutritionInfo{
		Calories:      extractNumber(nutriments["energy-kcal_100g"]),
		Protein:       extractNumber(nutriments["proteins_100g"]),
		Carbohydrates: extractNumber(nutriments["carbohydrates_100g"]),
		Fat:           extractNumber(nutriments["fat_100g"]),
		SaturatedFat:  extractNumber(nutriments["saturated-fat_100g"]),
		TransFat:      extractNumber(nutriments["trans-fat_100g"]),
		Cholesterol:   extractNumber(nutriments["cholesterol_100g"]),
		Sodium:        extractNumber(nutriments["sodium_100g"]),
		DietaryFiber:  extractNumber(nutriments["fiber_100g"]),
		Sugars:        extractNumber(nutriments["sugars_100g"]),
		VitaminA:      extractNumber(nutriments["vitamin-a_100g"]),
		VitaminC:      extractNumber(nutriments["vitamin-c_100g"]),
		Calcium:       extractNumber(nutriments["calcium_100g"]),
		Iron:          extractNumber(nutriments["iron_100g"]),
		Potassium:     extractNumber(nutriments["potassium_100g"]),
		ServingSize:   "100g",
	}
}

// extractNumber handles the provider's mixed value types: plain numbers,
// or strings like "15 g" with units attached.
func extractNumber(value any) *float64 {
	switch typed := value.(type) {
	case float64:
		return &typed
	case string:
		cleaned := nonNumeric.ReplaceAllString(typed, "")
		parsed, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return nil
		}
		return &parsed
	default:
		return nil
	}
}
