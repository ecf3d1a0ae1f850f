// internal/interfaces/http/handlers/shipping.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/printframe-backend/internal/domain/shipping"
)

// ShippingHandler handles shipping endpoints
type ShippingHandler struct {
	shippingService *shipping.Service
}

// NewShippingHandler creates a new shipping handler
func NewShippingHandler(shippingService *shipping.Service) *ShippingHandler {
	return &ShippingHandler{shippingService: shippingService}
}

// CalculateShippingRequest represents a shipping calculation request
type CalculateShippingRequest struct {
	Items   []ItemRequest    `json:"items" binding:"required,min=1,dive"`
	Address shipping.Address `json:"address" binding:"required"`
	Method  string           `json:"method"`
}

// Calculate handles POST /shipping/calculate
func (h *ShippingHandler) Calculate(c *gin.Context) {
	var req CalculateShippingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	options, err := h.shippingService.Calculate(c.Request.Context(), toLines(req.Items), req.Address, req.Method)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Shipping options calculated successfully",
		"data":    options,
	})
}
