// internal/domain/pricing/service.go
package pricing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/printframe-backend/internal/domain/product"
	"github.com/your-org/printframe-backend/internal/pkg/currency"
	"github.com/your-org/printframe-backend/internal/pkg/fulfillment"
	"github.com/your-org/printframe-backend/internal/pkg/quotecache"
	"golang.org/x/sync/singleflight"
)

// MaxLineQuantity bounds the quantity of a single order line.
const MaxLineQuantity = 10

// ShippingEstimator supplies an aggregate shipping cost for a set of order
// lines. Implemented by the shipping service, which derives attributes and
// SKUs through the same product functions as this service.
type ShippingEstimator interface {
	EstimateCost(ctx context.Context, items []product.Line, country, method string) (decimal.Decimal, string, error)
}

// taxRates maps destination countries to a flat additive tax rate applied
// to the subtotal. Unlisted countries are untaxed at quote time; the
// fulfillment provider settles duties on its side.
var taxRates = map[string]decimal.Decimal{
	"GB": decimal.NewFromFloat(0.20),
	"DE": decimal.NewFromFloat(0.19),
	"FR": decimal.NewFromFloat(0.20),
	"AU": decimal.NewFromFloat(0.10),
	"CA": decimal.NewFromFloat(0.05),
}

// Service computes aggregate pricing for order lines: per-configuration
// unit costs from the fulfillment provider (deduplicated by quote key and
// cached), shipping via the shipping estimator, tax, and optional currency
// conversion.
type Service struct {
	quotes   fulfillment.QuoteAPI
	cache    quotecache.Cache
	rates    currency.RateProvider
	shipping ShippingEstimator
	cacheTTL time.Duration
	logger   *logrus.Logger

	// group collapses concurrent provider calls for the same quote key.
	// Best-effort: a key may still occasionally miss twice across the
	// cache TTL boundary, which is acceptable.
	group singleflight.Group
}

// NewService creates a pricing service with explicit collaborators.
func NewService(quotes fulfillment.QuoteAPI, cache quotecache.Cache, rates currency.RateProvider, shipping ShippingEstimator, cacheTTL time.Duration, logger *logrus.Logger) *Service {
	return &Service{
		quotes:   quotes,
		cache:    cache,
		rates:    rates,
		shipping: shipping,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// lineDerivation holds everything derived once per input line.
type lineDerivation struct {
	resolvedSKU string
	canonical   product.CanonicalAttributes
	quoteKey    string
}

// Calculate prices a set of order lines for a destination country. When
// outputCurrency differs from the provider's native currency, all amounts
// are converted and the original total is retained. A partial upstream
// failure (some configurations priced, others not) fails the whole call.
func (s *Service) Calculate(ctx context.Context, items []product.Line, destinationCountry, shippingMethod, outputCurrency string) (*Result, error) {
	if err := validateItems(items); err != nil {
		return nil, err
	}
	destinationCountry = strings.ToUpper(strings.TrimSpace(destinationCountry))
	if destinationCountry == "" {
		return nil, newValidationError("destination country is required", nil)
	}

	// Derive resolved SKU, canonical attributes and quote key once per
	// line, then deduplicate by quote key: quantity multiplies line
	// totals, never provider traffic.
	derivations := make([]lineDerivation, len(items))
	distinct := make(map[string]lineDerivation)
	for i, item := range items {
		canonical := product.NormalizeAttributes(item.Configuration)
		d := lineDerivation{
			resolvedSKU: item.ResolvedSKU(),
			canonical:   canonical,
		}
		d.quoteKey = product.QuoteKeyFromCanonical(d.resolvedSKU, canonical)
		derivations[i] = d
		if _, ok := distinct[d.quoteKey]; !ok {
			distinct[d.quoteKey] = d
		}
	}

	costs := make(map[string]quotecache.Entry, len(distinct))
	for key, d := range distinct {
		entry, err := s.unitCost(ctx, key, d, destinationCountry)
		if err != nil {
			return nil, err
		}
		costs[key] = *entry
	}

	nativeCurrency, err := commonCurrency(costs)
	if err != nil {
		return nil, err
	}

	// Per-line unit prices are rounded to cents first and the subtotal is
	// built from the rounded values, so the result decomposes exactly
	// into the returned unit-price mapping.
	unitPrices := make(map[int]decimal.Decimal, len(items))
	subtotal := decimal.Zero
	for i, item := range items {
		unit := costs[derivations[i].quoteKey].UnitCost.Round(2)
		unitPrices[i] = unit
		subtotal = subtotal.Add(unit.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	shippingCost := decimal.Zero
	resolvedMethod := shippingMethod
	if s.shipping != nil {
		cost, method, err := s.shipping.EstimateCost(ctx, items, destinationCountry, shippingMethod)
		if err != nil {
			return nil, s.asPricingError(err, "failed to obtain shipping cost", nil)
		}
		shippingCost = cost.Round(2)
		resolvedMethod = method
	}

	tax := decimal.Zero
	if rate, ok := taxRates[destinationCountry]; ok {
		tax = subtotal.Mul(rate).Round(2)
	}

	total := subtotal.Add(shippingCost).Add(tax)

	result := &Result{
		Subtotal:       subtotal.InexactFloat64(),
		Shipping:       shippingCost.InexactFloat64(),
		Tax:            tax.InexactFloat64(),
		Total:          total.InexactFloat64(),
		Currency:       nativeCurrency,
		UnitPrices:     make(map[int]float64, len(unitPrices)),
		ShippingMethod: resolvedMethod,
	}
	for i, unit := range unitPrices {
		result.UnitPrices[i] = unit.InexactFloat64()
	}

	outputCurrency = strings.ToUpper(strings.TrimSpace(outputCurrency))
	if outputCurrency != "" && outputCurrency != nativeCurrency {
		if err := s.convert(ctx, result, unitPrices, subtotal, shippingCost, tax, total, nativeCurrency, outputCurrency); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// unitCost resolves the unit cost for one distinct configuration: cache
// first, then a single-flighted provider quote on miss.
func (s *Service) unitCost(ctx context.Context, key string, d lineDerivation, country string) (*quotecache.Entry, error) {
	if entry, ok, err := s.cache.Get(ctx, key); err != nil {
		s.logger.WithError(err).WithField("quote_key", key).Warn("Quote cache read failed")
	} else if ok {
		return entry, nil
	}

	value, err, _ := s.group.Do(key, func() (interface{}, error) {
		// Another flight may have populated the cache while this one
		// queued.
		if entry, ok, err := s.cache.Get(ctx, key); err == nil && ok {
			return entry, nil
		}

		resp, err := s.quotes.Quote(ctx, fulfillment.QuoteRequest{
			DestinationCountry: country,
			Items: []fulfillment.QuoteItem{{
				SKU:        d.resolvedSKU,
				Attributes: d.canonical.Map(),
			}},
		})
		if err != nil {
			return nil, err
		}

		entry, err := matchQuoteLine(resp, key)
		if err != nil {
			return nil, err
		}

		if err := s.cache.Set(ctx, key, *entry, s.cacheTTL); err != nil {
			s.logger.WithError(err).WithField("quote_key", key).Warn("Quote cache write failed")
		}
		return entry, nil
	})
	if err != nil {
		return nil, s.asPricingError(err, "failed to price configuration", map[string]interface{}{
			"sku":       d.resolvedSKU,
			"quote_key": key,
		})
	}

	return value.(*quotecache.Entry), nil
}

// matchQuoteLine finds the response line whose echoed SKU and attributes
// rebuild the requested quote key. Matching by key rather than by array
// position is what makes the response order, and any merging of identical
// lines on the provider side, irrelevant.
func matchQuoteLine(resp *fulfillment.QuoteResponse, key string) (*quotecache.Entry, error) {
	for _, line := range resp.Items {
		echoed := product.QuoteKey(line.SKU, product.Attributes(line.Attributes))
		if echoed == key {
			if line.UnitCost.IsNegative() {
				return nil, fmt.Errorf("provider returned negative unit cost for %s", line.SKU)
			}
			return &quotecache.Entry{UnitCost: line.UnitCost, Currency: resp.Currency}, nil
		}
	}
	return nil, fmt.Errorf("provider response did not price quote key %s", key)
}

// convert rewrites the result into the requested output currency, keeping
// the original currency and total for audit.
func (s *Service) convert(ctx context.Context, result *Result, unitPrices map[int]decimal.Decimal, subtotal, shippingCost, tax, total decimal.Decimal, from, to string) error {
	rate, err := s.rates.Rate(ctx, from, to)
	if err != nil {
		return newUpstreamError("failed to convert currency", map[string]interface{}{
			"from": from,
			"to":   to,
		})
	}

	result.OriginalCurrency = from
	result.OriginalTotal = total.InexactFloat64()
	result.ExchangeRate = rate.InexactFloat64()
	result.Currency = to

	result.Subtotal = subtotal.Mul(rate).Round(2).InexactFloat64()
	result.Shipping = shippingCost.Mul(rate).Round(2).InexactFloat64()
	result.Tax = tax.Mul(rate).Round(2).InexactFloat64()
	result.Total = total.Mul(rate).Round(2).InexactFloat64()
	for i, unit := range unitPrices {
		result.UnitPrices[i] = unit.Mul(rate).Round(2).InexactFloat64()
	}
	return nil
}

// asPricingError maps collaborator failures onto the typed pricing error.
func (s *Service) asPricingError(err error, message string, details map[string]interface{}) *Error {
	var pricingErr *Error
	if errors.As(err, &pricingErr) {
		return pricingErr
	}

	if details == nil {
		details = map[string]interface{}{}
	}
	details["cause"] = err.Error()

	var apiErr *fulfillment.APIError
	if errors.As(err, &apiErr) {
		details["provider_status"] = apiErr.StatusCode
		return newValidationError(message, details)
	}
	return newUpstreamError(message, details)
}

// validateItems checks structural line validity before any provider
// traffic.
func validateItems(items []product.Line) *Error {
	if len(items) == 0 {
		return newValidationError("at least one item is required", nil)
	}

	for i, item := range items {
		if strings.TrimSpace(item.SKU) == "" {
			return newValidationError("item is missing a SKU", map[string]interface{}{"index": i})
		}
		if item.Quantity < 1 || item.Quantity > MaxLineQuantity {
			return newValidationError(
				fmt.Sprintf("quantity must be between 1 and %d", MaxLineQuantity),
				map[string]interface{}{"index": i, "quantity": item.Quantity},
			)
		}
		if item.Category != "" {
			if !item.Category.Valid() {
				return newValidationError("unknown product category", map[string]interface{}{
					"index":    i,
					"category": string(item.Category),
				})
			}
			if missing := product.ValidateConfiguration(item.Category, item.Configuration); len(missing) > 0 {
				return newValidationError("configuration is missing required attributes", map[string]interface{}{
					"index":   i,
					"missing": missing,
				})
			}
		}
	}
	return nil
}

// commonCurrency asserts every cached cost shares one native currency.
func commonCurrency(costs map[string]quotecache.Entry) (string, *Error) {
	currencyCode := ""
	for key, entry := range costs {
		if entry.Currency == "" {
			return "", newUpstreamError("provider quote is missing a currency", map[string]interface{}{"quote_key": key})
		}
		if currencyCode == "" {
			currencyCode = entry.Currency
			continue
		}
		if entry.Currency != currencyCode {
			return "", newUpstreamError("provider quotes span multiple currencies", map[string]interface{}{
				"currencies": []string{currencyCode, entry.Currency},
			})
		}
	}
	return currencyCode, nil
}
