// internal/domain/cart/entity.go
package cart

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/your-org/printframe-backend/internal/domain/pricing"
	"github.com/your-org/printframe-backend/internal/domain/product"
	"gorm.io/gorm"
)

// Quantity bounds for a single cart row.
const (
	MinQuantity = 1
	MaxQuantity = 10
)

// ConfigurationJSON stores a raw attribute map as a jsonb column. The raw
// form is persisted deliberately: normalization is applied at
// pricing/shipping time, never baked into storage, so synonym-table or
// casing-policy changes apply retroactively without a data migration.
type ConfigurationJSON product.Attributes

// Value implements driver.Valuer.
func (c ConfigurationJSON) Value() (driver.Value, error) {
	if c == nil {
		return "{}", nil
	}
	data, err := json.Marshal(map[string]string(c))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (c *ConfigurationJSON) Scan(value interface{}) error {
	if value == nil {
		*c = ConfigurationJSON{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported configuration column type %T", value)
	}

	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	*c = ConfigurationJSON(m)
	return nil
}

// Item is one cart row, owned by exactly one user. DisplayPrice is a
// denormalized convenience captured at add time; it is never treated as
// authoritative at checkout, where pricing is recomputed from the provider.
type Item struct {
	ID            uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uint              `gorm:"not null;index" json:"user_id"`
	SKU           string            `gorm:"not null" json:"sku"`
	ImageID       string            `json:"image_id,omitempty"`
	Category      string            `gorm:"not null" json:"category"`
	Quantity      int               `gorm:"not null;default:1" json:"quantity"`
	Configuration ConfigurationJSON `gorm:"type:jsonb" json:"configuration"`
	DisplayPrice  float64           `json:"display_price"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
	DeletedAt     gorm.DeletedAt    `gorm:"index" json:"-"`
}

// TableName overrides the table name
func (Item) TableName() string {
	return "cart_items"
}

// BeforeCreate assigns the row ID.
func (i *Item) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// Line converts the stored row into the shared order-line form used by the
// pricing and shipping services.
func (i Item) Line() product.Line {
	return product.Line{
		SKU:           i.SKU,
		ImageID:       i.ImageID,
		Category:      product.Category(i.Category),
		Quantity:      i.Quantity,
		Configuration: product.Attributes(i.Configuration),
	}
}

// AddItemRequest represents an add-to-cart request
type AddItemRequest struct {
	SKU           string            `json:"sku" binding:"required"`
	ImageID       string            `json:"image_id"`
	Category      string            `json:"category" binding:"required"`
	Quantity      int               `json:"quantity" binding:"required"`
	Configuration map[string]string `json:"configuration" binding:"required"`
	PriceHint     float64           `json:"price_hint"`
}

// UpdateQuantityRequest represents a quantity update request
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// Cart is a user's cart with freshly computed pricing. Pricing is nil only
// when the cart is empty.
type Cart struct {
	Items   []ItemView      `json:"items"`
	Pricing *pricing.Result `json:"pricing,omitempty"`
}

// ItemView is one cart row with its current unit price.
type ItemView struct {
	Item      Item    `json:"item"`
	UnitPrice float64 `json:"unit_price"`
	LineTotal float64 `json:"line_total"`
}

// Sentinel errors for cart operations. Ownership mismatches surface as
// ErrItemNotFound rather than a permission error, so they do not leak
// whether the row exists.
var (
	ErrItemNotFound       = errors.New("cart item not found")
	ErrQuantityOutOfRange = fmt.Errorf("quantity must be between %d and %d", MinQuantity, MaxQuantity)
)
