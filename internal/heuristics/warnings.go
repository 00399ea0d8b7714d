package heuristics

import "strings"

// DeriveWarnings scans ingredients in order and collects human-readable
// warnings, at most 5. Once a warning mentioning allergic reactions has been
// recorded, no further allergen warnings are added; concerning-substance
// warnings have no such guard and can accumulate.
func DeriveWarnings(ingredients []string) []string {
	warnings := []string{}

	if len(ingredients) == 0 {
		return warnings
	}

	for _, ingredient := range ingredients {
		lower := strings.ToLower(ingredient)

		for _, entry := range allergenWarnings {
			if strings.Contains(lower, entry.term) && !hasAllergicWarning(warnings) {
				warnings = append(warnings, entry.warning)
				break
			}
		}

		for _, entry := range substanceWarnings {
			if strings.Contains(lower, entry.term) {
				warnings = append(warnings, entry.warning)
				break
			}
		}
	}

	if len(warnings) > maxWarnings {
		warnings = warnings[:maxWarnings]
	}
	return warnings
}

func hasAllergicWarning(warnings []string) bool {
	for _, w := range warnings {
		if strings.Contains(w, "allergic") {
			return true
		}
	}
	return false
}
