// internal/pkg/currency/provider.go
package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/your-org/printframe-backend/internal/config"
)

// RateProvider resolves an exchange rate for a currency pair.
type RateProvider interface {
	Rate(ctx context.Context, from, to string) (decimal.Decimal, error)
}

// CachedHTTPProvider fetches exchange rates over HTTP and caches them
// process-wide. Rates older than the configured staleness bound are never
// served; inside the bound, a failed refresh falls back to the last-known
// rate.
type CachedHTTPProvider struct {
	baseURL    string
	maxRateAge time.Duration
	httpClient *http.Client
	logger     *logrus.Logger

	mu    sync.Mutex
	rates map[string]cachedRates // keyed by base currency
}

type cachedRates struct {
	rates     map[string]decimal.Decimal
	fetchedAt time.Time
}

// ratesResponse is the provider wire format: a base currency and a rate
// table quoted against it.
type ratesResponse struct {
	BaseCode string             `json:"base_code"`
	Rates    map[string]float64 `json:"rates"`
}

// NewCachedHTTPProvider creates a rate provider from configuration.
func NewCachedHTTPProvider(cfg *config.Config, logger *logrus.Logger) *CachedHTTPProvider {
	return &CachedHTTPProvider{
		baseURL:    cfg.Currency.APIBaseURL,
		maxRateAge: cfg.Currency.MaxRateAge,
		httpClient: &http.Client{Timeout: cfg.Currency.RequestTimeout},
		logger:     logger,
		rates:      make(map[string]cachedRates),
	}
}

// Rate returns the exchange rate from one currency to another. Identical
// currencies always resolve to 1 without a lookup.
func (p *CachedHTTPProvider) Rate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))

	if from == "" || to == "" {
		return decimal.Zero, fmt.Errorf("currency codes are required")
	}
	if from == to {
		return decimal.NewFromInt(1), nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	cached, ok := p.rates[from]
	age := time.Since(cached.fetchedAt)

	// Refresh when there is no usable snapshot yet, or the snapshot is
	// older than half the staleness bound. Early refresh keeps the
	// fallback window open when the upstream flaps.
	if !ok || age > p.maxRateAge/2 {
		fresh, err := p.fetch(ctx, from)
		if err != nil {
			if !ok || age > p.maxRateAge {
				return decimal.Zero, fmt.Errorf("failed to fetch exchange rates for %s: %w", from, err)
			}
			p.logger.WithFields(logrus.Fields{
				"base":     from,
				"rate_age": age.String(),
			}).Warn("Exchange rate refresh failed, serving last-known rate")
		} else {
			cached = cachedRates{rates: fresh, fetchedAt: time.Now()}
			p.rates[from] = cached
		}
	}

	rate, ok := cached.rates[to]
	if !ok {
		return decimal.Zero, fmt.Errorf("no exchange rate available for %s/%s", from, to)
	}
	return rate, nil
}

// fetch retrieves the full rate table for one base currency.
func (p *CachedHTTPProvider) fetch(ctx context.Context, base string) (map[string]decimal.Decimal, error) {
	url := fmt.Sprintf("%s/%s", p.baseURL, base)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("rate provider returned %d: %s", resp.StatusCode, string(body))
	}

	var parsed ratesResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode rate response: %w", err)
	}
	if len(parsed.Rates) == 0 {
		return nil, fmt.Errorf("rate provider returned no rates for %s", base)
	}

	rates := make(map[string]decimal.Decimal, len(parsed.Rates))
	for code, value := range parsed.Rates {
		rates[strings.ToUpper(code)] = decimal.NewFromFloat(value)
	}
	return rates, nil
}
