package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrCartItemNotFound is returned when a cart line does not exist.
var ErrCartItemNotFound = errors.New("cart item not found")

// CartRepository defines shopping cart persistence operations.
type CartRepository interface {
	// ListByUser retrieves all cart lines for one user, oldest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entity.CartItem, error)

	// FindByID retrieves one cart line by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.CartItem, error)

	// FindVariant retrieves the cart line for one (user, product, size, color).
	FindVariant(ctx context.Context, userID, productID uuid.UUID, size, color string) (*entity.CartItem, error)

	// Create persists a new cart line.
	Create(ctx context.Context, item *entity.CartItem) error

	// Update modifies an existing cart line (quantity changes).
	Update(ctx context.Context, item *entity.CartItem) error

	// Delete removes one cart line.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteByUser removes every cart line for one user.
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}
