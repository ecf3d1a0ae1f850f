// internal/interfaces/http/handlers/pricing.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/printframe-backend/internal/domain/pricing"
	"github.com/your-org/printframe-backend/internal/domain/product"
)

// PricingHandler handles pricing endpoints
type PricingHandler struct {
	pricingService *pricing.Service
}

// NewPricingHandler creates a new pricing handler
func NewPricingHandler(pricingService *pricing.Service) *PricingHandler {
	return &PricingHandler{pricingService: pricingService}
}

// ItemRequest is one order line as the storefront submits it. Price is a
// display hint only; the authoritative unit price always comes from the
// provider.
type ItemRequest struct {
	SKU           string            `json:"sku" binding:"required"`
	ImageID       string            `json:"image_id"`
	Category      string            `json:"category"`
	Quantity      int               `json:"quantity" binding:"required"`
	Price         float64           `json:"price"`
	Configuration map[string]string `json:"configuration"`
}

// CalculatePricingRequest represents a pricing calculation request
type CalculatePricingRequest struct {
	Items          []ItemRequest `json:"items" binding:"required,min=1,dive"`
	Country        string        `json:"country" binding:"required"`
	ShippingMethod string        `json:"shipping_method"`
	Currency       string        `json:"currency"`
}

// Lines converts request items to domain order lines.
func toLines(items []ItemRequest) []product.Line {
	lines := make([]product.Line, len(items))
	for i, item := range items {
		lines[i] = product.Line{
			SKU:           item.SKU,
			ImageID:       item.ImageID,
			Category:      product.Category(item.Category),
			Quantity:      item.Quantity,
			Configuration: product.Attributes(item.Configuration),
		}
	}
	return lines
}

// Calculate handles POST /pricing/calculate
func (h *PricingHandler) Calculate(c *gin.Context) {
	var req CalculatePricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	result, err := h.pricingService.Calculate(c.Request.Context(), toLines(req.Items), req.Country, req.ShippingMethod, req.Currency)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Pricing calculated successfully",
		"data":    result,
	})
}
