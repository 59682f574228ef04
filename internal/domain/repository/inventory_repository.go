package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrInventoryNotFound is returned when no inventory row matches a variant.
var ErrInventoryNotFound = errors.New("inventory item not found")

// InventoryRepository defines stock persistence operations. Mutations that
// participate in reserve/fulfill flows must run inside a transaction and use
// FindVariantForUpdate to take a row lock first.
type InventoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.InventoryItem, error)

	// FindVariant retrieves the inventory row for one (product, size, color).
	FindVariant(ctx context.Context, productID uuid.UUID, size, color string) (*entity.InventoryItem, error)

	// FindVariantForUpdate is FindVariant with SELECT ... FOR UPDATE semantics.
	// Only valid inside a transaction.
	FindVariantForUpdate(ctx context.Context, productID uuid.UUID, size, color string) (*entity.InventoryItem, error)

	// ListByProduct retrieves all variant rows for a product.
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]*entity.InventoryItem, error)

	// ListLowStock retrieves rows with quantity at or below their reorder level.
	ListLowStock(ctx context.Context) ([]*entity.InventoryItem, error)

	Create(ctx context.Context, item *entity.InventoryItem) error
	Update(ctx context.Context, item *entity.InventoryItem) error
}

// StockMovementRepository persists the append-only inventory audit log.
type StockMovementRepository interface {
	// Create appends one movement row. Movements are never updated or deleted.
	Create(ctx context.Context, movement *entity.StockMovement) error

	// ListByInventory retrieves movements for one inventory row, newest first.
	ListByInventory(ctx context.Context, inventoryID uuid.UUID, limit, offset int) ([]*entity.StockMovement, error)
}
