package currency

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvider(baseURL string, maxRateAge time.Duration) *CachedHTTPProvider {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return &CachedHTTPProvider{
		baseURL:    baseURL,
		maxRateAge: maxRateAge,
		httpClient: &http.Client{Timeout: time.Second},
		logger:     logger,
		rates:      make(map[string]cachedRates),
	}
}

func rateServer(t *testing.T, calls *atomic.Int32, rates map[string]float64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		json.NewEncoder(w).Encode(ratesResponse{BaseCode: "USD", Rates: rates})
	}))
}

func TestRateIdenticalCurrencies(t *testing.T) {
	provider := newTestProvider("http://unused.invalid", time.Hour)

	rate, err := provider.Rate(context.Background(), "usd", "USD")
	require.NoError(t, err)
	assert.True(t, rate.Equal(decimal.NewFromInt(1)))
}

func TestRateRequiresCurrencyCodes(t *testing.T) {
	provider := newTestProvider("http://unused.invalid", time.Hour)

	_, err := provider.Rate(context.Background(), "", "GBP")
	assert.Error(t, err)
	_, err = provider.Rate(context.Background(), "USD", "  ")
	assert.Error(t, err)
}

func TestRateFetchesAndCaches(t *testing.T) {
	var calls atomic.Int32
	server := rateServer(t, &calls, map[string]float64{"gbp": 0.8, "EUR": 0.92})
	defer server.Close()

	provider := newTestProvider(server.URL, time.Hour)

	rate, err := provider.Rate(context.Background(), "USD", "GBP")
	require.NoError(t, err)
	assert.Equal(t, "0.8", rate.String())

	// Codes in the wire payload are uppercased on ingest.
	rate, err = provider.Rate(context.Background(), "USD", "eur")
	require.NoError(t, err)
	assert.Equal(t, "0.92", rate.String())

	assert.Equal(t, int32(1), calls.Load(), "fresh snapshot must be reused")
}

func TestRateUnknownTargetCurrency(t *testing.T) {
	var calls atomic.Int32
	server := rateServer(t, &calls, map[string]float64{"GBP": 0.8})
	defer server.Close()

	provider := newTestProvider(server.URL, time.Hour)

	_, err := provider.Rate(context.Background(), "USD", "XXX")
	assert.Error(t, err)
}

func TestRateServesLastKnownInsideStalenessBound(t *testing.T) {
	var calls atomic.Int32
	var failing atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if failing.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(ratesResponse{BaseCode: "USD", Rates: map[string]float64{"GBP": 0.8}})
	}))
	defer server.Close()

	provider := newTestProvider(server.URL, time.Hour)

	_, err := provider.Rate(context.Background(), "USD", "GBP")
	require.NoError(t, err)

	// Age the snapshot past the refresh threshold but inside the bound,
	// then break the upstream.
	provider.mu.Lock()
	snapshot := provider.rates["USD"]
	snapshot.fetchedAt = time.Now().Add(-45 * time.Minute)
	provider.rates["USD"] = snapshot
	provider.mu.Unlock()
	failing.Store(true)

	rate, err := provider.Rate(context.Background(), "USD", "GBP")
	require.NoError(t, err)
	assert.Equal(t, "0.8", rate.String())
	assert.Equal(t, int32(2), calls.Load(), "a refresh must have been attempted")
}

func TestRateRefusesRatesBeyondStalenessBound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	provider := newTestProvider(server.URL, time.Hour)
	provider.rates["USD"] = cachedRates{
		rates:     map[string]decimal.Decimal{"GBP": decimal.NewFromFloat(0.8)},
		fetchedAt: time.Now().Add(-2 * time.Hour),
	}

	_, err := provider.Rate(context.Background(), "USD", "GBP")
	assert.Error(t, err, "rates past the bound must not be served")
}

func TestRateFirstFetchFailureIsAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	provider := newTestProvider(server.URL, time.Hour)
	_, err := provider.Rate(context.Background(), "USD", "GBP")
	assert.Error(t, err)
}

func TestRateRejectsEmptyRateTable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ratesResponse{BaseCode: "USD"})
	}))
	defer server.Close()

	provider := newTestProvider(server.URL, time.Hour)
	_, err := provider.Rate(context.Background(), "USD", "GBP")
	assert.Error(t, err)
}
