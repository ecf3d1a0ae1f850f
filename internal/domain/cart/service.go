// internal/domain/cart/service.go
package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/your-org/printframe-backend/internal/domain/pricing"
	"github.com/your-org/printframe-backend/internal/domain/product"
	"github.com/your-org/printframe-backend/internal/pkg/fulfillment"
)

// Pricer computes fresh pricing for a set of order lines. Implemented by
// the pricing service.
type Pricer interface {
	Calculate(ctx context.Context, items []product.Line, destinationCountry, shippingMethod, outputCurrency string) (*pricing.Result, error)
}

// Service owns per-user cart rows. SKUs are resolved on add; prices are
// recomputed on every read instead of trusting what was stored.
type Service struct {
	repo     Repository
	pricer   Pricer
	products fulfillment.ProductAPI
	logger   *logrus.Logger
}

// NewService creates a cart service. products may be nil when base-product
// verification against the provider catalog is not wanted.
func NewService(repo Repository, pricer Pricer, products fulfillment.ProductAPI, logger *logrus.Logger) *Service {
	return &Service{
		repo:     repo,
		pricer:   pricer,
		products: products,
		logger:   logger,
	}
}

// AddItem validates the request, resolves the SKU from the requested
// configuration and image identity, and persists the row with the raw
// attribute map.
func (s *Service) AddItem(ctx context.Context, userID uint, req *AddItemRequest) (*Item, error) {
	if req.Quantity < MinQuantity || req.Quantity > MaxQuantity {
		return nil, ErrQuantityOutOfRange
	}

	category, err := product.ParseCategory(req.Category)
	if err != nil {
		return nil, err
	}
	if missing := product.ValidateConfiguration(category, req.Configuration); len(missing) > 0 {
		return nil, fmt.Errorf("configuration is missing required attributes: %v", missing)
	}

	sku := product.ResolveSKU(req.SKU, req.ImageID)

	if s.products != nil {
		if _, err := s.products.GetProductDetails(ctx, req.SKU); err != nil {
			return nil, fmt.Errorf("base product %s not available: %w", req.SKU, err)
		}
	}

	item := &Item{
		UserID:        userID,
		SKU:           sku,
		ImageID:       req.ImageID,
		Category:      string(category),
		Quantity:      req.Quantity,
		Configuration: ConfigurationJSON(req.Configuration),
		DisplayPrice:  req.PriceHint,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": userID,
		"sku":     sku,
	}).Info("Cart item added")

	return item, nil
}

// GetCart returns the user's cart with pricing recomputed against the
// provider's current rates. A pricing failure fails the read: a cart with
// a stale or guessed total is worse than an explicit error.
func (s *Service) GetCart(ctx context.Context, userID uint, destinationCountry, shippingMethod, outputCurrency string) (*Cart, error) {
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart := &Cart{Items: make([]ItemView, len(items))}
	if len(items) == 0 {
		return cart, nil
	}

	lines := make([]product.Line, len(items))
	for i, item := range items {
		lines[i] = item.Line()
	}

	result, err := s.pricer.Calculate(ctx, lines, destinationCountry, shippingMethod, outputCurrency)
	if err != nil {
		return nil, err
	}

	for i, item := range items {
		unit := result.UnitPrices[i]
		cart.Items[i] = ItemView{
			Item:      item,
			UnitPrice: unit,
			LineTotal: unit * float64(item.Quantity),
		}
	}
	cart.Pricing = result
	return cart, nil
}

// UpdateQuantity changes one row's quantity. Ownership is re-validated by
// the repository's conditional update.
func (s *Service) UpdateQuantity(ctx context.Context, userID uint, itemID uuid.UUID, quantity int) error {
	if quantity < MinQuantity || quantity > MaxQuantity {
		return ErrQuantityOutOfRange
	}
	return s.repo.UpdateQuantity(ctx, itemID, userID, quantity)
}

// RemoveItem deletes one row, again conditioned on ownership.
func (s *Service) RemoveItem(ctx context.Context, userID uint, itemID uuid.UUID) error {
	return s.repo.Delete(ctx, itemID, userID)
}
