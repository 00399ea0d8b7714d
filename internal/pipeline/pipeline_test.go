package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"foodscan/internal/models"
	"foodscan/internal/openfoodfacts"
	"foodscan/internal/store"
)

type fakeStore struct {
	products  map[string]*models.Product
	findErr   error
	createErr error
	created   []models.ProductData
}

func newFakeStore() *fakeStore {
	return &fakeStore{products: map[string]*models.Product{}}
}

func (s *fakeStore) FindByBarcode(_ context.Context, barcode string) (*models.Product, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.products[barcode], nil
}

func (s *fakeStore) Create(_ context.Context, data models.ProductData) (*models.Product, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.created = append(s.created, data)
	product := &models.Product{
		ID:          primitive.NewObjectID(),
		Barcode:     data.Barcode,
		Name:        data.Name,
		Ingredients: models.StringList(data.Ingredients),
		HealthScore: data.HealthScore,
		Warnings:    models.StringList(data.Warnings),
		Source:      data.Source,
	}
	s.products[data.Barcode] = product
	return product, nil
}

type fakeSource struct {
	products map[string]*models.ProductData
	fetchErr error
	searchFn func(term string, page, pageSize int) (*openfoodfacts.SearchResult, error)
	fetches  int
}

func (s *fakeSource) FetchByBarcode(_ context.Context, barcode string) (*models.ProductData, error) {
	s.fetches++
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	return s.products[barcode], nil
}

func (s *fakeSource) SearchProducts(_ context.Context, term string, page, pageSize int) (*openfoodfacts.SearchResult, error) {
	if s.searchFn != nil {
		return s.searchFn(term, page, pageSize)
	}
	return &openfoodfacts.SearchResult{Products: []models.ProductData{}}, nil
}

func externalProduct(barcode string) *models.ProductData {
	return &models.ProductData{
		Barcode:     barcode,
		Name:        "Granola Crunch",
		Ingredients: []string{"organic", "sugar", "salt"},
		Allergens:   []string{},
		Warnings:    []string{},
		NutritionInfo: &models.NutritionInfo{
			Sodium: func() *float64 { v := 600.0; return &v }(),
		},
		Source: models.SourceOpenFoodFacts,
	}
}

func TestFetchAndStoreReturnsExistingWithoutRefetch(t *testing.T) {
	st := newFakeStore()
	existing := &models.Product{ID: primitive.NewObjectID(), Barcode: "012345678901", Name: "Old"}
	st.products["012345678901"] = existing
	src := &fakeSource{products: map[string]*models.ProductData{}}

	p := New(st, src)
	got, err := p.FetchAndStoreProduct(context.Background(), "012345678901")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != existing {
		t.Fatalf("expected the existing record verbatim, got %+v", got)
	}
	if src.fetches != 0 {
		t.Fatalf("expected no external fetch for an existing record, got %d", src.fetches)
	}
}

func TestFetchAndStoreDerivesScoreAndPersists(t *testing.T) {
	st := newFakeStore()
	src := &fakeSource{products: map[string]*models.ProductData{
		"012345678901": externalProduct("012345678901"),
	}}

	p := New(st, src)
	got, err := p.FetchAndStoreProduct(context.Background(), "012345678901")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil {
		t.Fatal("expected a stored product")
	}
	// baseline 7, +1 organic, -1 sodium 600mg
	if got.HealthScore == nil || *got.HealthScore != 7 {
		t.Fatalf("expected health score 7, got %v", got.HealthScore)
	}
	if got.Source != "openfoodfacts" {
		t.Fatalf("expected openfoodfacts source, got %q", got.Source)
	}
	if len(st.created) != 1 {
		t.Fatalf("expected exactly one create, got %d", len(st.created))
	}
	if st.created[0].Warnings == nil {
		t.Fatal("expected warnings to be attached before persist")
	}
}

func TestFetchAndStoreNotFoundAnywhere(t *testing.T) {
	st := newFakeStore()
	src := &fakeSource{products: map[string]*models.ProductData{}}

	p := New(st, src)
	got, err := p.FetchAndStoreProduct(context.Background(), "000000000000")
	if err != nil {
		t.Fatalf("not-found must not be an error, got %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil product, got %+v", got)
	}
}

func TestFetchAndStoreSourceErrorDegradesToNotFound(t *testing.T) {
	st := newFakeStore()
	src := &fakeSource{fetchErr: &openfoodfacts.StatusError{StatusCode: 503, Status: "503 Service Unavailable"}}

	p := New(st, src)
	got, err := p.FetchAndStoreProduct(context.Background(), "012345678901")
	if err != nil {
		t.Fatalf("source failure must degrade to not-found, got error %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil product, got %+v", got)
	}
	if len(st.created) != 0 {
		t.Fatal("nothing may be persisted when the source fails")
	}
}

func TestFetchAndStoreSurfacesCreateConflict(t *testing.T) {
	st := newFakeStore()
	st.createErr = store.ErrDuplicate
	src := &fakeSource{products: map[string]*models.ProductData{
		"012345678901": externalProduct("012345678901"),
	}}

	p := New(st, src)
	_, err := p.FetchAndStoreProduct(context.Background(), "012345678901")
	if !errors.Is(err, store.ErrDuplicate) {
		t.Fatalf("expected the conflict to surface, got %v", err)
	}
	if !strings.Contains(err.Error(), "012345678901") {
		t.Fatalf("expected the barcode in the error context, got %v", err)
	}
}

func TestFetchAndStoreWrapsStoreLookupError(t *testing.T) {
	st := newFakeStore()
	st.findErr = errors.New("connection reset")
	src := &fakeSource{}

	p := New(st, src)
	_, err := p.FetchAndStoreProduct(context.Background(), "012345678901")
	if err == nil || !strings.Contains(err.Error(), "012345678901") {
		t.Fatalf("expected wrapped store error with barcode, got %v", err)
	}
}

func TestImportProductsBySearchCounts(t *testing.T) {
	st := newFakeStore()
	st.products["111111111111"] = &models.Product{Barcode: "111111111111"}

	src := &fakeSource{products: map[string]*models.ProductData{
		"222222222222": externalProduct("222222222222"),
	}}
	src.searchFn = func(term string, page, pageSize int) (*openfoodfacts.SearchResult, error) {
		switch term {
		case "granola":
			return &openfoodfacts.SearchResult{Products: []models.ProductData{
				*externalProduct("111111111111"), // already stored
				*externalProduct("222222222222"), // importable
				*externalProduct("333333333333"), // fetch will miss
			}}, nil
		case "broken":
			return nil, errors.New("search exploded")
		default:
			return &openfoodfacts.SearchResult{Products: []models.ProductData{}}, nil
		}
	}

	p := New(st, src)
	result := p.ImportProductsBySearch(context.Background(), []string{"granola", "broken", "empty"}, 10)

	if result.Duplicates != 1 {
		t.Fatalf("expected 1 duplicate, got %d", result.Duplicates)
	}
	// 222... imports; 333... runs the pipeline, resolves to nothing, and still
	// completes without error.
	if result.Imported != 2 {
		t.Fatalf("expected 2 imported, got %d", result.Imported)
	}
	if result.Errors != 1 {
		t.Fatalf("expected 1 error from the broken term, got %d", result.Errors)
	}
	if len(result.Details) != 1 || !strings.Contains(result.Details[0], "broken") {
		t.Fatalf("expected a detail line for the broken term, got %v", result.Details)
	}
}

func TestImportProductsBySearchEmptyTermContinues(t *testing.T) {
	st := newFakeStore()
	src := &fakeSource{}

	p := New(st, src)
	result := p.ImportProductsBySearch(context.Background(), []string{"nothing"}, 10)

	if result.Imported != 0 || result.Duplicates != 0 || result.Errors != 0 {
		t.Fatalf("expected all-zero result for an empty term, got %+v", result)
	}
}

func TestImportProductsBySearchCapsTerms(t *testing.T) {
	st := newFakeStore()
	searched := []string{}
	src := &fakeSource{}
	src.searchFn = func(term string, page, pageSize int) (*openfoodfacts.SearchResult, error) {
		searched = append(searched, term)
		return &openfoodfacts.SearchResult{Products: []models.ProductData{}}, nil
	}

	p := New(st, src)
	p.ImportProductsBySearch(context.Background(), []string{"a", "b", "c", "d", "e", "f", "g"}, 10)

	if len(searched) != 5 {
		t.Fatalf("expected only the first 5 terms to be searched, got %v", searched)
	}
}
