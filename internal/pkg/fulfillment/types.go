// internal/pkg/fulfillment/types.go
package fulfillment

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// ProductAPI is the capability surface for SKU/product lookups against the
// fulfillment provider.
type ProductAPI interface {
	GetProductDetails(ctx context.Context, sku string) (*ProductDetails, error)
}

// QuoteAPI is the capability surface for pricing and shipping quotes.
// The provider historically shipped two client generations for these two
// concerns; they are modeled as separate interfaces behind one HTTP client
// so consumers depend only on the capability they use.
type QuoteAPI interface {
	Quote(ctx context.Context, req QuoteRequest) (*QuoteResponse, error)
}

// ProductDetails describes one base product in the provider catalog.
type ProductDetails struct {
	SKU         string   `json:"sku"`
	Description string   `json:"description"`
	ProductType string   `json:"productType"`
	Variants    []string `json:"variants,omitempty"`
}

/// QuoteItem is one configuration to quote. Quantity is deliberately absent:
// the caller multiplies unit costs locally, so identical configurations
// never fan out into extra provider traffic.
type QuoteItem struct {
	SKU        string            `json:"sku"`
	Attributes map[string]string `json:"attributes"`
}

// QuoteRequest asks the provider for unit costs and shipping options for a
// set of configurations going to one destination.
type QuoteRequest struct {
	DestinationCountry string      `json:"destinationCountryCode"`
	ShippingMethod     string      `json:"shippingMethod,omitempty"`
	Items              []QuoteItem `json:"items"`
}

// QuoteLine is one priced configuration in a provider response. The
// provider echoes the SKU and attributes it priced, which is what lets the
// caller match lines back to its request by quote key instead of by array
// position.
type QuoteLine struct {
	SKU        string            `json:"sku"`
	Attributes map[string]string `json:"attributes"`
	UnitCost   decimal.Decimal   `json:"unitCost"`
}

// ShippingQuote is one shipping option in a provider response.
type ShippingQuote struct {
	Method        string          `json:"method"`
	Cost          decimal.Decimal `json:"cost"`
	Currency      string          `json:"currency"`
	EstimatedDays int             `json:"estimatedDays"`
}

// QuoteResponse carries the provider's priced lines and shipping options.
// Lines are not guaranteed to preserve request order, and identical
// configurations may be merged into one line.
type QuoteResponse struct {
	Currency        string          `json:"currency"`
	Items           []QuoteLine     `json:"items"`
	ShippingOptions []ShippingQuote `json:"shippingOptions,omitempty"`
}

// APIError is a non-retryable provider error: the provider answered with a
// 4xx-class status describing a problem with the request itself.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("fulfillment provider returned %d: %s", e.StatusCode, e.Message)
}

// UpstreamError is a retryable-class failure that survived the retry
// policy: provider timeout, network error or 5xx response.
type UpstreamError struct {
	Attempts int
	Err      error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("fulfillment provider unavailable after %d attempts: %v", e.Attempts, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
