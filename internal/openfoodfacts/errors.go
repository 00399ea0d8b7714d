package openfoodfacts

import (
	"errors"
	"fmt"
)

// ErrMissingBarcode marks an upstream payload without a derivable barcode.
// Such a product cannot be imported and the fetch is not retried.
var ErrMissingBarcode = errors.New("product missing barcode - cannot import")

// StatusError reports a non-2xx response from Open Food Facts, other than
// the 404 / status-0 "not found" cases which are normal negative results.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("open food facts api error: %d - %s", e.StatusCode, e.Status)
}
