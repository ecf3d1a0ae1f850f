// internal/domain/shipping/entity.go
package shipping

import (
	"errors"
	"fmt"
	"strings"
)

// minPostalCodeLength is the plausible minimum for a postal code; anything
// shorter is treated as an incomplete address.
const minPostalCodeLength = 3

// Address is a shipping destination. Country, city and a plausible postal
// code are required before any shipping can be quoted.
type Address struct {
	Line1      string `json:"line1,omitempty"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// Validate reports the missing or implausible fields of an address.
// An insufficient address is an error result, never an estimated guess.
func (a Address) Validate() error {
	var missing []string
	if strings.TrimSpace(a.Country) == "" {
		missing = append(missing, "country")
	}
	if strings.TrimSpace(a.City) == "" {
		missing = append(missing, "city")
	}
	if len(strings.TrimSpace(a.PostalCode)) < minPostalCodeLength {
		missing = append(missing, "postal_code")
	}
	if len(missing) > 0 {
		return &InvalidAddressError{Fields: missing}
	}
	return nil
}

// Option is one way to ship an order: a method label, a non-negative cost
// and a non-negative delivery estimate.
type Option struct {
	Method        string  `json:"method"`
	Cost          float64 `json:"cost"`
	Currency      string  `json:"currency"`
	EstimatedDays int     `json:"estimated_days"`
}

// InvalidAddressError reports which address fields block a shipping quote.
type InvalidAddressError struct {
	Fields []string
}

func (e *InvalidAddressError) Error() string {
	return fmt.Sprintf("address is missing or has invalid fields: %s", strings.Join(e.Fields, ", "))
}

// ErrNoOptions is returned when the provider yields zero shipping options.
// An empty option list is a failure to quote, not free shipping.
var ErrNoOptions = errors.New("no shipping options available for destination")
