package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/printframe-backend/internal/domain/pricing"
	"github.com/your-org/printframe-backend/internal/domain/product"
	"github.com/your-org/printframe-backend/internal/pkg/fulfillment"
)

type fakeRepository struct {
	items map[uuid.UUID]Item
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{items: make(map[uuid.UUID]Item)}
}

func (r *fakeRepository) Create(_ context.Context, item *Item) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	r.items[item.ID] = *item
	return nil
}

func (r *fakeRepository) ListByUser(_ context.Context, userID uint) ([]Item, error) {
	var out []Item
	for _, item := range r.items {
		if item.UserID == userID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *fakeRepository) UpdateQuantity(_ context.Context, id uuid.UUID, userID uint, quantity int) error {
	item, ok := r.items[id]
	if !ok || item.UserID != userID {
		return ErrItemNotFound
	}
	item.Quantity = quantity
	r.items[id] = item
	return nil
}

func (r *fakeRepository) Delete(_ context.Context, id uuid.UUID, userID uint) error {
	item, ok := r.items[id]
	if !ok || item.UserID != userID {
		return ErrItemNotFound
	}
	delete(r.items, id)
	return nil
}

type stubPricer struct {
	calculateFn func(items []product.Line) (*pricing.Result, error)
	calls       int
}

func (s *stubPricer) Calculate(_ context.Context, items []product.Line, _, _, _ string) (*pricing.Result, error) {
	s.calls++
	if s.calculateFn != nil {
		return s.calculateFn(items)
	}
	result := &pricing.Result{Currency: "USD", UnitPrices: map[int]float64{}}
	for i, item := range items {
		result.UnitPrices[i] = 21.95
		result.Subtotal += 21.95 * float64(item.Quantity)
	}
	result.Total = result.Subtotal
	return result, nil
}

type stubProductAPI struct {
	err error
}

func (s *stubProductAPI) GetProductDetails(_ context.Context, sku string) (*fulfillment.ProductDetails, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &fulfillment.ProductDetails{SKU: sku}, nil
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func addRequest() *AddItemRequest {
	return &AddItemRequest{
		SKU:      "global-can-8x20",
		ImageID:  "abcd1234ef567890",
		Category: "canvas",
		Quantity: 2,
		Configuration: map[string]string{
			"size": "8x20", "wrap": "Black", "edge": "38mm",
		},
		PriceHint: 21.95,
	}
}

func TestAddItemResolvesSKU(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, &stubPricer{}, &stubProductAPI{}, testLogger())

	item, err := svc.AddItem(context.Background(), 7, addRequest())
	require.NoError(t, err)

	assert.Equal(t, "global-can-8x20-abcd1234", item.SKU)
	assert.Equal(t, uint(7), item.UserID)
	assert.Equal(t, "canvas", item.Category)

	// The raw configuration is persisted untouched; normalization happens
	// at pricing time only.
	assert.Equal(t, "Black", item.Configuration["wrap"])
}

func TestAddItemQuantityBounds(t *testing.T) {
	svc := NewService(newFakeRepository(), &stubPricer{}, nil, testLogger())

	for _, quantity := range []int{0, -1, MaxQuantity + 1} {
		req := addRequest()
		req.Quantity = quantity
		_, err := svc.AddItem(context.Background(), 7, req)
		assert.ErrorIs(t, err, ErrQuantityOutOfRange, "quantity %d", quantity)
	}
}

func TestAddItemValidatesConfiguration(t *testing.T) {
	svc := NewService(newFakeRepository(), &stubPricer{}, nil, testLogger())

	req := addRequest()
	req.Category = "hologram"
	_, err := svc.AddItem(context.Background(), 7, req)
	assert.Error(t, err)

	req = addRequest()
	req.Configuration = map[string]string{"size": "8x20"}
	_, err = svc.AddItem(context.Background(), 7, req)
	assert.Error(t, err)
}

func TestAddItemRejectsUnknownBaseProduct(t *testing.T) {
	svc := NewService(newFakeRepository(), &stubPricer{}, &stubProductAPI{err: errors.New("not found")}, testLogger())

	_, err := svc.AddItem(context.Background(), 7, addRequest())
	assert.Error(t, err)
}

func TestGetCartRecomputesPricing(t *testing.T) {
	repo := newFakeRepository()
	pricer := &stubPricer{}
	svc := NewService(repo, pricer, nil, testLogger())

	_, err := svc.AddItem(context.Background(), 7, addRequest())
	require.NoError(t, err)

	cart, err := svc.GetCart(context.Background(), 7, "US", "", "")
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)

	assert.Equal(t, 1, pricer.calls, "read must recompute pricing")
	assert.InDelta(t, 21.95, cart.Items[0].UnitPrice, 0.001)
	assert.InDelta(t, 43.90, cart.Items[0].LineTotal, 0.001)
	require.NotNil(t, cart.Pricing)
	assert.InDelta(t, 43.90, cart.Pricing.Subtotal, 0.001)

	// A second read recomputes again; nothing stored is trusted.
	_, err = svc.GetCart(context.Background(), 7, "US", "", "")
	require.NoError(t, err)
	assert.Equal(t, 2, pricer.calls)
}

func TestGetCartEmptySkipsPricing(t *testing.T) {
	pricer := &stubPricer{}
	svc := NewService(newFakeRepository(), pricer, nil, testLogger())

	cart, err := svc.GetCart(context.Background(), 7, "US", "", "")
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Nil(t, cart.Pricing)
	assert.Zero(t, pricer.calls)
}

func TestGetCartPricingFailureFailsRead(t *testing.T) {
	repo := newFakeRepository()
	pricer := &stubPricer{calculateFn: func([]product.Line) (*pricing.Result, error) {
		return nil, &pricing.Error{Status: 502, Message: "provider unavailable"}
	}}
	svc := NewService(repo, pricer, nil, testLogger())

	_, err := svc.AddItem(context.Background(), 7, addRequest())
	require.NoError(t, err)

	_, err = svc.GetCart(context.Background(), 7, "US", "", "")
	require.Error(t, err)

	var pricingErr *pricing.Error
	assert.ErrorAs(t, err, &pricingErr)
}

func TestUpdateQuantityOwnership(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, &stubPricer{}, nil, testLogger())

	item, err := svc.AddItem(context.Background(), 7, addRequest())
	require.NoError(t, err)

	require.NoError(t, svc.UpdateQuantity(context.Background(), 7, item.ID, 5))

	// Another user touching the row gets not-found, not forbidden.
	err = svc.UpdateQuantity(context.Background(), 8, item.ID, 5)
	assert.ErrorIs(t, err, ErrItemNotFound)

	err = svc.UpdateQuantity(context.Background(), 7, item.ID, 0)
	assert.ErrorIs(t, err, ErrQuantityOutOfRange)
}

func TestRemoveItemOwnership(t *testing.T) {
	repo := newFakeRepository()
	svc := NewService(repo, &stubPricer{}, nil, testLogger())

	item, err := svc.AddItem(context.Background(), 7, addRequest())
	require.NoError(t, err)

	err = svc.RemoveItem(context.Background(), 8, item.ID)
	assert.ErrorIs(t, err, ErrItemNotFound)

	require.NoError(t, svc.RemoveItem(context.Background(), 7, item.ID))

	err = svc.RemoveItem(context.Background(), 7, item.ID)
	assert.ErrorIs(t, err, ErrItemNotFound)
}
