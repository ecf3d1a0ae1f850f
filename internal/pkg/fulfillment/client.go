// internal/pkg/fulfillment/client.go
package fulfillment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/printframe-backend/internal/config"
)

// Client talks to the print-on-demand provider's REST API. It implements
// both ProductAPI and QuoteAPI.
type Client struct {
	baseURL    string
	apiKey     string
	maxRetries int
	baseDelay  time.Duration
	httpClient *http.Client
	logger     *logrus.Logger
}

var _ ProductAPI = (*Client)(nil)
var _ QuoteAPI = (*Client)(nil)

// NewClient creates a provider client from configuration.
func NewClient(cfg *config.Config, logger *logrus.Logger) *Client {
	return &Client{
		baseURL:    cfg.Fulfillment.BaseURL,
		apiKey:     cfg.Fulfillment.APIKey,
		maxRetries: cfg.Fulfillment.MaxRetries,
		baseDelay:  cfg.Fulfillment.RetryBaseDelay,
		httpClient: &http.Client{
			Timeout: cfg.Fulfillment.RequestTimeout,
		},
		logger: logger,
	}
}

// GetProductDetails fetches one base product from the provider catalog.
func (c *Client) GetProductDetails(ctx context.Context, sku string) (*ProductDetails, error) {
	var details ProductDetails
	if err := c.doJSON(ctx, http.MethodGet, "/products/"+sku, nil, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// Quote requests unit costs and shipping options for a set of
// configurations.
func (c *Client) Quote(ctx context.Context, req QuoteRequest) (*QuoteResponse, error) {
	if len(req.Items) == 0 {
		return nil, &APIError{StatusCode: http.StatusBadRequest, Message: "quote request has no items"}
	}

	var resp QuoteResponse
	if err := c.doJSON(ctx, http.MethodPost, "/quotes", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// doJSON issues one JSON request with the retry policy: network errors and
// 5xx responses are retried with exponential backoff up to maxRetries
// additional attempts, 4xx responses surface immediately as APIError.
func (c *Client) doJSON(ctx context.Context, method, path string, body, dest interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	var lastErr error
	attempts := c.maxRetries + 1

	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := c.baseDelay << (attempt - 1)
			c.logger.WithFields(logrus.Fields{
				"path":    path,
				"attempt": attempt + 1,
				"delay":   delay.String(),
			}).Warn("Retrying fulfillment provider request")

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return &UpstreamError{Attempts: attempt, Err: ctx.Err()}
			}
		}

		retryable, err := c.attempt(ctx, method, path, payload, dest)
		if err == nil {
			return nil
		}
		if !retryable {
			return err
		}
		lastErr = err
	}

	return &UpstreamError{Attempts: attempts, Err: lastErr}
}

// attempt performs a single HTTP exchange. The bool result reports whether
// the failure class is retryable.
func (c *Client) attempt(ctx context.Context, method, path string, payload []byte, dest interface{}) (bool, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return false, fmt.Errorf("failed to create provider request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return true, fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return true, fmt.Errorf("failed to read provider response: %w", err)
	}

	switch {
	case resp.StatusCode >= 500:
		return true, fmt.Errorf("provider returned %d: %s", resp.StatusCode, string(respBody))
	case resp.StatusCode >= 400:
		return false, &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	if dest != nil {
		if err := json.Unmarshal(respBody, dest); err != nil {
			// A malformed body from a 2xx response is an upstream fault,
			// not a caller mistake.
			return true, fmt.Errorf("failed to decode provider response: %w", err)
		}
	}
	return false, nil
}
