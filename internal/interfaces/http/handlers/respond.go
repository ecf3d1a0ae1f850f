// internal/interfaces/http/handlers/respond.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/printframe-backend/internal/domain/cart"
	"github.com/your-org/printframe-backend/internal/domain/pricing"
	"github.com/your-org/printframe-backend/internal/domain/shipping"
	"github.com/your-org/printframe-backend/internal/pkg/fulfillment"
)

// respondError translates typed domain errors into HTTP responses.
// Validation failures carry field detail; upstream failures report the
// quote as blocked rather than substituting a price.
func respondError(c *gin.Context, err error) {
	var pricingErr *pricing.Error
	if errors.As(err, &pricingErr) {
		c.JSON(pricingErr.Status, gin.H{
			"error":   pricingErr.Message,
			"details": pricingErr.Details,
		})
		return
	}

	var addressErr *shipping.InvalidAddressError
	if errors.As(err, &addressErr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "Shipping address is incomplete",
			"fields": addressErr.Fields,
		})
		return
	}

	if errors.Is(err, shipping.ErrNoOptions) {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "No shipping options could be quoted for this destination",
		})
		return
	}

	if errors.Is(err, cart.ErrItemNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Cart item not found",
		})
		return
	}

	if errors.Is(err, cart.ErrQuantityOutOfRange) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error": err.Error(),
		})
		return
	}

	var apiErr *fulfillment.APIError
	if errors.As(err, &apiErr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "Fulfillment provider rejected the request",
			"details": apiErr.Message,
		})
		return
	}

	var upstreamErr *fulfillment.UpstreamError
	if errors.As(err, &upstreamErr) {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Fulfillment provider is unavailable",
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"error": "Internal server error",
	})
}
