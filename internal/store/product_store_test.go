package store

import (
	"testing"
	"time"

	"foodscan/internal/models"
)

func strptr(s string) *string { return &s }
func intptr(v int) *int       { return &v }

func TestNewProductSetsTimestampsAndDefaults(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	product := newProduct(models.ProductData{
		Barcode: "012345678901",
		Name:    "Granola",
		Source:  models.SourceOpenFoodFacts,
	}, now)

	if product.CreatedAt != now || product.UpdatedAt != now {
		t.Fatalf("expected both timestamps set to %v, got created=%v updated=%v", now, product.CreatedAt, product.UpdatedAt)
	}
	if product.Ingredients == nil || product.Allergens == nil || product.Warnings == nil {
		t.Fatal("expected list fields to default to empty, not nil")
	}
	if product.HealthScore != nil {
		t.Fatalf("expected absent health score, got %d", *product.HealthScore)
	}
}

func TestBuildUpdateDocumentOnlySetFields(t *testing.T) {
	set := buildUpdateDocument(models.ProductUpdate{
		Name:        strptr("Renamed"),
		HealthScore: intptr(4),
	})

	if len(set) != 2 {
		t.Fatalf("expected exactly 2 fields in update, got %v", set)
	}
	if set["name"] != "Renamed" {
		t.Fatalf("expected name update, got %v", set["name"])
	}
	if set["healthScore"] != 4 {
		t.Fatalf("expected healthScore update, got %v", set["healthScore"])
	}
	if _, ok := set["barcode"]; ok {
		t.Fatal("barcode must never appear in an update document")
	}
}

func TestBuildUpdateDocumentNormalizesNilLists(t *testing.T) {
	var nilList []string
	set := buildUpdateDocument(models.ProductUpdate{Warnings: &nilList})

	warnings, ok := set["warnings"].(models.StringList)
	if !ok || warnings == nil {
		t.Fatalf("expected empty StringList for nil warnings, got %T %v", set["warnings"], set["warnings"])
	}
	if len(warnings) != 0 {
		t.Fatalf("expected empty warnings, got %v", warnings)
	}
}
