// internal/domain/shipping/service.go
package shipping

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/printframe-backend/internal/domain/product"
	"github.com/your-org/printframe-backend/internal/pkg/fulfillment"
)

// Service computes shipping options for a set of order lines and a
// destination. It derives normalized attributes and resolved SKUs through
// the same product functions as the pricing service, so the two never
// disagree about what is being shipped.
type Service struct {
	quotes fulfillment.QuoteAPI
	logger *logrus.Logger
}

// NewService creates a shipping service.
func NewService(quotes fulfillment.QuoteAPI, logger *logrus.Logger) *Service {
	return &Service{quotes: quotes, logger: logger}
}

// Calculate returns the shipping options for an order going to an address.
// When a method is requested only that option is returned; otherwise all
// options, cheapest first.
func (s *Service) Calculate(ctx context.Context, items []product.Line, address Address, method string) ([]Option, error) {
	if err := address.Validate(); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("at least one item is required")
	}

	options, err := s.quoteOptions(ctx, items, strings.ToUpper(strings.TrimSpace(address.Country)), method)
	if err != nil {
		return nil, err
	}
	return options, nil
}

// EstimateCost returns the aggregate shipping cost the pricing service
// folds into its total: the requested method's cost, or the cheapest
// option when no method is named. The returned label identifies the option
// that was chosen.
func (s *Service) EstimateCost(ctx context.Context, items []product.Line, country, method string) (decimal.Decimal, string, error) {
	options, err := s.quoteOptions(ctx, items, country, method)
	if err != nil {
		return decimal.Zero, "", err
	}
	chosen := options[0]
	return decimal.NewFromFloat(chosen.Cost), chosen.Method, nil
}

// quoteOptions queries the provider with the canonical line derivation and
// validates the returned options.
func (s *Service) quoteOptions(ctx context.Context, items []product.Line, country, method string) ([]Option, error) {
	quoteItems := make([]fulfillment.QuoteItem, len(items))
	for i, item := range items {
		quoteItems[i] = fulfillment.QuoteItem{
			SKU:        item.ResolvedSKU(),
			Attributes: product.NormalizeAttributes(item.Configuration).Map(),
		}
	}

	resp, err := s.quotes.Quote(ctx, fulfillment.QuoteRequest{
		DestinationCountry: country,
		ShippingMethod:     method,
		Items:              quoteItems,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to quote shipping: %w", err)
	}

	options := make([]Option, 0, len(resp.ShippingOptions))
	for _, quoted := range resp.ShippingOptions {
		if quoted.Cost.IsNegative() || quoted.EstimatedDays < 0 {
			s.logger.WithFields(logrus.Fields{
				"method":         quoted.Method,
				"cost":           quoted.Cost.String(),
				"estimated_days": quoted.EstimatedDays,
			}).Warn("Discarding implausible shipping option from provider")
			continue
		}
		if method != "" && !strings.EqualFold(quoted.Method, method) {
			continue
		}
		currencyCode := quoted.Currency
		if currencyCode == "" {
			currencyCode = resp.Currency
		}
		options = append(options, Option{
			Method:        quoted.Method,
			Cost:          quoted.Cost.Round(2).InexactFloat64(),
			Currency:      currencyCode,
			EstimatedDays: quoted.EstimatedDays,
		})
	}

	if len(options) == 0 {
		return nil, ErrNoOptions
	}

	sort.Slice(options, func(i, j int) bool {
		return options[i].Cost < options[j].Cost
	})
	return options, nil
}
