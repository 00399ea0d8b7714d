package heuristics

import (
	"strings"
	"testing"
)

func TestDeriveWarningsEmpty(t *testing.T) {
	if got := DeriveWarnings(nil); len(got) != 0 {
		t.Fatalf("expected no warnings for nil ingredients, got %v", got)
	}
	if got := DeriveWarnings([]string{"water", "salt"}); len(got) != 0 {
		t.Fatalf("expected no warnings for neutral ingredients, got %v", got)
	}
}

func TestDeriveWarningsSingleAllergyWarning(t *testing.T) {
	got := DeriveWarnings([]string{"whole milk", "peanut butter", "sugar"})

	allergic := 0
	for _, w := range got {
		if strings.Contains(w, "allergic") {
			allergic++
		}
	}
	if allergic != 1 {
		t.Fatalf("expected exactly one allergy warning, got %d in %v", allergic, got)
	}
	if got[0] != "Contains dairy - may cause allergic reactions" {
		t.Fatalf("expected the milk warning first, got %v", got)
	}
}

func TestDeriveWarningsSubstancesAccumulate(t *testing.T) {
	got := DeriveWarnings([]string{"aspartame", "partially hydrogenated soybean oil", "msg"})

	want := []string{
		"Contains artificial sweetener - may cause sensitivities",
		"Contains soy - common allergen",
		"Contains hydrogenated oils - contains trans fats",
		"Contains MSG - may cause sensitivities in some people",
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d warnings, got %v", len(want), got)
	}
	for i, w := range want {
		if got[i] != w {
			t.Fatalf("warning %d: expected %q, got %q", i, w, got[i])
		}
	}
}

func TestDeriveWarningsCappedAtFive(t *testing.T) {
	ingredients := []string{
		"milk", "aspartame", "high fructose corn syrup",
		"hydrogenated oil", "msg", "sodium nitrate", "aspartame",
	}
	got := DeriveWarnings(ingredients)
	if len(got) != 5 {
		t.Fatalf("expected warnings capped at 5, got %d: %v", len(got), got)
	}
}

func TestDeriveWarningsEarliestEntriesWin(t *testing.T) {
	// An ingredient matching several substance terms reports only the first
	// table entry.
	got := DeriveWarnings([]string{"high fructose corn syrup with msg"})
	if len(got) != 1 || got[0] != "Contains refined sugar - may impact metabolism" {
		t.Fatalf("expected first table match only, got %v", got)
	}
}
