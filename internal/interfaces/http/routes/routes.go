// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	redislib "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/printframe-backend/internal/config"
	"github.com/your-org/printframe-backend/internal/domain/cart"
	"github.com/your-org/printframe-backend/internal/domain/pricing"
	"github.com/your-org/printframe-backend/internal/domain/shipping"
	"github.com/your-org/printframe-backend/internal/interfaces/http/handlers"
	"github.com/your-org/printframe-backend/internal/interfaces/http/middleware"
	"github.com/your-org/printframe-backend/internal/pkg/currency"
	"github.com/your-org/printframe-backend/internal/pkg/fulfillment"
	"github.com/your-org/printframe-backend/internal/pkg/quotecache"
	"gorm.io/gorm"
)

// SetupRoutes wires services to their collaborators and registers all API
// routes. Pricing and shipping share the fulfillment client so both derive
// quotes from the same provider surface.
func SetupRoutes(rg *gin.RouterGroup, db *gorm.DB, redisClient *redislib.Client, cfg *config.Config, logger *logrus.Logger) {
	providerClient := fulfillment.NewClient(cfg, logger)
	rateProvider := currency.NewCachedHTTPProvider(cfg, logger)
	quoteCache := quotecache.NewRedisCache(redisClient)

	shippingService := shipping.NewService(providerClient, logger)
	pricingService := pricing.NewService(providerClient, quoteCache, rateProvider, shippingService, cfg.Pricing.QuoteCacheTTL, logger)
	cartService := cart.NewService(cart.NewRepository(db), pricingService, providerClient, logger)

	pricingHandler := handlers.NewPricingHandler(pricingService)
	shippingHandler := handlers.NewShippingHandler(shippingService)
	cartHandler := handlers.NewCartHandler(cartService)

	pricingRoutes := rg.Group("/pricing")
	{
		pricingRoutes.POST("/calculate", pricingHandler.Calculate)
	}

	shippingRoutes := rg.Group("/shipping")
	{
		shippingRoutes.POST("/calculate", shippingHandler.Calculate)
	}

	cartRoutes := rg.Group("/cart")
	cartRoutes.Use(middleware.AuthMiddleware(cfg))
	{
		cartRoutes.GET("", cartHandler.GetCart)
		cartRoutes.POST("/items", cartHandler.AddItem)
		cartRoutes.PUT("/items/:id", cartHandler.UpdateQuantity)
		cartRoutes.DELETE("/items/:id", cartHandler.RemoveItem)
	}
}
