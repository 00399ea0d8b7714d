// Package openfoodfacts fetches product data from the Open Food Facts API
// and normalizes it into the internal product shape. Provider-specific field
// names and quirks stay inside this package.
package openfoodfacts

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"foodscan/internal/models"
)

const (
	DefaultBaseURL   = "https://world.openfoodfacts.org/api/v0"
	DefaultUserAgent = "FoodScanApp/1.0"
	DefaultTimeout   = 15 * time.Second
)

// productResponse is the barcode-lookup envelope. Status 0 means "product
// not found", status 1 means found.
type productResponse struct {
	Status  int        `json:"status"`
	Product rawProduct `json:"product"`
}

type searchResponse struct {
	Products []rawProduct `json:"products"`
	Count    int          `json:"count"`
	PageSize int          `json:"page_size"`
}

// rawProduct mirrors the loosely-typed upstream document. Nutriment values
// arrive as either numbers or strings ("15 g"), so they are kept as any and
// parsed later. Extra is the full document for ingredients_text_* fallbacks.
type rawProduct struct {
	Code            string         `json:"code"`
	ID              string         `json:"_id"`
	ProductName     string         `json:"product_name"`
	GenericName     string         `json:"generic_name"`
	Brands          string         `json:"brands"`
	IngredientsText string         `json:"ingredients_text"`
	Allergens       string         `json:"allergens"`
	ImageURL        string         `json:"image_url"`
	Nutriments      map[string]any `json:"nutriments"`

	Extra map[string]any `json:"-"`
}

func (p *rawProduct) UnmarshalJSON(data []byte) error {
	type plain rawProduct
	if err := json.Unmarshal(data, (*plain)(p)); err != nil {
		return err
	}
	return json.Unmarshal(data, &p.Extra)
}

// SearchResult carries normalized search hits plus the provider's paging info.
type SearchResult struct {
	Products []models.ProductData `json:"products"`
	Count    int                  `json:"count"`
	PageSize int                  `json:"pageSize"`
}

// Client talks to one Open Food Facts instance. Construct with NewClient and
// share; it is safe for concurrent use.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

func NewClient(baseURL, userAgent string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    baseURL,
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// FetchByBarcode looks up a single product. A (nil, nil) return means the
// provider does not know the barcode; that is a normal negative result, not
// an error.
func (c *Client) FetchByBarcode(ctx context.Context, barcode string) (*models.ProductData, error) {
	endpoint := fmt.Sprintf("%s/product/%s", c.baseURL, url.PathEscape(barcode))

	var payload productResponse
	found, err := c.getJSON(ctx, endpoint, &payload)
	if err != nil {
		return nil, err
	}
	if !found || payload.Status == 0 {
		return nil, nil
	}

	product, err := transformProduct(payload.Product)
	if err != nil {
		return nil, err
	}
	return product, nil
}

// SearchProducts runs a free-text search. Hits that cannot be normalized
// (no derivable barcode) are skipped rather than failing the whole search.
func (c *Client) SearchProducts(ctx context.Context, term string, page, pageSize int) (*SearchResult, error) {
	query := url.Values{}
	query.Set("search_terms", term)
	query.Set("page", strconv.Itoa(page))
	query.Set("page_size", strconv.Itoa(pageSize))
	query.Set("sort_by", "unique_scans_n")
	query.Set("fields", "product_name,code,image_url,nutriments,ingredients_text,allergens")

	endpoint := fmt.Sprintf("%s/search?%s", c.baseURL, query.Encode())

	var payload searchResponse
	found, err := c.getJSON(ctx, endpoint, &payload)
	if err != nil {
		return nil, fmt.Errorf("search products %q: %w", term, err)
	}
	if !found {
		return &SearchResult{Products: []models.ProductData{}}, nil
	}

	result := &SearchResult{
		Products: make([]models.ProductData, 0, len(payload.Products)),
		Count:    payload.Count,
		PageSize: payload.PageSize,
	}
	for _, raw := range payload.Products {
		product, err := transformProduct(raw)
		if err != nil {
			log.Printf("SearchProducts: skipping result without barcode (term=%q)", term)
			continue
		}
		result.Products = append(result.Products, *product)
	}
	return result, nil
}

// getJSON performs the request and decodes the body. The bool result is
// false for a 404, which callers treat as "not found".
func (c *Client) getJSON(ctx context.Context, endpoint string, out any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	log.Printf("openfoodfacts: GET %s", endpoint)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("open food facts request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, fmt.Errorf("decode open food facts response: %w", err)
	}
	return true, nil
}
