// internal/domain/cart/repository.go
package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository is the persistence collaborator for cart rows. Every
// operation is scoped by ownership; mutations target a single row so the
// store's row-level atomicity is all the serialization the service needs.
type Repository interface {
	Create(ctx context.Context, item *Item) error
	ListByUser(ctx context.Context, userID uint) ([]Item, error)
	UpdateQuantity(ctx context.Context, id uuid.UUID, userID uint, quantity int) error
	Delete(ctx context.Context, id uuid.UUID, userID uint) error
}

// gormRepository implements Repository on a gorm-managed Postgres table.
type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a gorm-backed cart repository.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, item *Item) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("failed to create cart item: %w", err)
	}
	return nil
}

func (r *gormRepository) ListByUser(ctx context.Context, userID uint) ([]Item, error) {
	var items []Item
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}
	return items, nil
}

// UpdateQuantity updates one row conditioned on ownership. A zero
// rows-affected result means the row does not exist or belongs to someone
// else; both cases report ErrItemNotFound.
func (r *gormRepository) UpdateQuantity(ctx context.Context, id uuid.UUID, userID uint, quantity int) error {
	result := r.db.WithContext(ctx).
		Model(&Item{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("quantity", quantity)
	if result.Error != nil {
		return fmt.Errorf("failed to update cart item quantity: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID, userID uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&Item{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete cart item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}
