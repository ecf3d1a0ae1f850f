// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"

	"github.com/your-org/printframe-backend/internal/domain/cart"
	"gorm.io/gorm"
)

// Migration handles database schema migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration runner
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{db: db}
}

// RunAutoMigrations runs gorm auto-migrations for all persisted entities
func (m *Migration) RunAutoMigrations() error {
	if err := m.db.AutoMigrate(&cart.Item{}); err != nil {
		return fmt.Errorf("failed to migrate cart items: %w", err)
	}
	return nil
}

// CreateIndexes creates indexes that auto-migration does not cover
func (m *Migration) CreateIndexes() error {
	// Composite index backing the ownership-scoped row operations.
	return m.db.Exec(
		"CREATE INDEX IF NOT EXISTS idx_cart_items_user_sku ON cart_items (user_id, sku)",
	).Error
}
