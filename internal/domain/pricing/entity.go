// internal/domain/pricing/entity.go
package pricing

import (
	"fmt"
	"net/http"
)

// Result is an aggregate, currency-correct price for a set of order lines.
// When conversion occurred, the original currency, total and exchange rate
// are retained for audit.
type Result struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
	Currency string  `json:"currency"`

	OriginalCurrency string  `json:"original_currency,omitempty"`
	OriginalTotal    float64 `json:"original_total,omitempty"`
	ExchangeRate     float64 `json:"exchange_rate,omitempty"`

	// UnitPrices maps each input line index to its unit price in the
	// output currency. sum(UnitPrices[i] * quantity[i]) decomposes the
	// subtotal within a cent per distinct line.
	UnitPrices map[int]float64 `json:"unit_prices"`

	ShippingMethod string `json:"shipping_method,omitempty"`
}

// Error is a typed pricing failure carrying an HTTP-like status and a
// details payload describing what failed. A pricing call either returns an
// authoritative Result or an Error; there is no silent substitution with an
// averaged or stale price.
type Error struct {
	Status  int                    `json:"status"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("pricing failed (%d): %s", e.Status, e.Message)
}

func newValidationError(message string, details map[string]interface{}) *Error {
	return &Error{Status: http.StatusUnprocessableEntity, Message: message, Details: details}
}

func newUpstreamError(message string, details map[string]interface{}) *Error {
	return &Error{Status: http.StatusBadGateway, Message: message, Details: details}
}
