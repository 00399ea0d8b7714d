// Package pipeline orchestrates the product data flow: local lookup,
// external fetch on miss, health scoring, and exactly-once persistence.
package pipeline

import (
	"context"
	"fmt"
	"log"

	"foodscan/internal/heuristics"
	"foodscan/internal/models"
	"foodscan/internal/openfoodfacts"
)

// Store is the persistence surface the pipeline needs.
type Store interface {
	FindByBarcode(ctx context.Context, barcode string) (*models.Product, error)
	Create(ctx context.Context, data models.ProductData) (*models.Product, error)
}

// Source is one external product database, queried by barcode or free text.
type Source interface {
	FetchByBarcode(ctx context.Context, barcode string) (*models.ProductData, error)
	SearchProducts(ctx context.Context, term string, page, pageSize int) (*openfoodfacts.SearchResult, error)
}

const maxSearchTerms = 5

// BulkImportResult aggregates a best-effort bulk import. Individual failures
// land in Errors/Details; they never abort the batch.
type BulkImportResult struct {
	Imported   int      `json:"imported"`
	Duplicates int      `json:"duplicates"`
	Errors     int      `json:"errors"`
	Details    []string `json:"details"`
}

type Pipeline struct {
	store  Store
	source Source
}

func New(store Store, source Source) *Pipeline {
	return &Pipeline{store: store, source: source}
}

// FetchAndStoreProduct resolves a barcode to a stored product. An existing
// record is returned as-is, however stale; on miss the external source is
// queried, the health score and warnings are derived, and the result is
// persisted exactly once. A (nil, nil) return means the barcode could not be
// resolved anywhere.
func (p *Pipeline) FetchAndStoreProduct(ctx context.Context, barcode string) (*models.Product, error) {
	log.Printf("pipeline: lookup start barcode=%s", barcode)

	existing, err := p.store.FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, fmt.Errorf("fetch and store product %s: %w", barcode, err)
	}
	if existing != nil {
		log.Printf("pipeline: product exists barcode=%s id=%s source=%s", barcode, existing.ID.Hex(), existing.Source)
		return existing, nil
	}

	data := p.fetchFromSources(ctx, barcode)
	if data == nil {
		log.Printf("pipeline: product not found externally barcode=%s", barcode)
		return nil, nil
	}

	data.HealthScore = heuristics.ComputeHealthScore(data.Ingredients, data.NutritionInfo)
	data.Warnings = heuristics.DeriveWarnings(data.Ingredients)

	stored, err := p.store.Create(ctx, *data)
	if err != nil {
		// A duplicate here means a concurrent caller won the race for this
		// barcode; surfaced to the caller rather than retried in-process.
		return nil, fmt.Errorf("fetch and store product %s: %w", barcode, err)
	}

	log.Printf("pipeline: product stored barcode=%s id=%s score=%v", barcode, stored.ID.Hex(), stored.HealthScore)
	return stored, nil
}

// fetchFromSources tries the configured external sources in priority order.
// A source failure is logged and treated as a miss for that source, so with
// a single source any failure degrades to "not found".
func (p *Pipeline) fetchFromSources(ctx context.Context, barcode string) *models.ProductData {
	data, err := p.source.FetchByBarcode(ctx, barcode)
	if err != nil {
		log.Printf("pipeline: source error barcode=%s: %v", barcode, err)
		return nil
	}
	if data != nil {
		log.Printf("pipeline: product found barcode=%s source=%s", barcode, data.Source)
	}
	return data
}

// ImportProductsBySearch populates the store from free-text search terms.
// At most the first 5 terms are processed, strictly sequentially; every
// per-term and per-product failure is converted into a counter and a detail
// line instead of aborting the batch.
func (p *Pipeline) ImportProductsBySearch(ctx context.Context, searchTerms []string, limitPerTerm int) *BulkImportResult {
	result := &BulkImportResult{Details: []string{}}

	if limitPerTerm <= 0 {
		limitPerTerm = 10
	}
	if len(searchTerms) > maxSearchTerms {
		searchTerms = searchTerms[:maxSearchTerms]
	}

	log.Printf("pipeline: bulk import start terms=%v limitPerTerm=%d", searchTerms, limitPerTerm)

	for _, term := range searchTerms {
		searchResult, err := p.source.SearchProducts(ctx, term, 1, limitPerTerm)
		if err != nil {
			result.Errors++
			result.Details = append(result.Details, fmt.Sprintf("Failed to search %q: %v", term, err))
			continue
		}

		for _, product := range searchResult.Products {
			existing, err := p.store.FindByBarcode(ctx, product.Barcode)
			if err != nil {
				result.Errors++
				result.Details = append(result.Details, fmt.Sprintf("Failed to import %s: %v", product.Barcode, err))
				continue
			}
			if existing != nil {
				result.Duplicates++
				continue
			}

			// Re-run the full pipeline instead of trusting the search payload,
			// so imported products get identical treatment to single lookups.
			if _, err := p.FetchAndStoreProduct(ctx, product.Barcode); err != nil {
				result.Errors++
				result.Details = append(result.Details, fmt.Sprintf("Failed to import %s: %v", product.Barcode, err))
				continue
			}
			result.Imported++
		}
	}

	log.Printf("pipeline: bulk import complete imported=%d duplicates=%d errors=%d",
		result.Imported, result.Duplicates, result.Errors)
	return result
}
