package usecase

import (
	"context"

	"storefront/internal/domain/entity"
)

// AddCartItemInput defines the data required to add a product variant to a cart.
type AddCartItemInput struct {
	ProductID string
	Size      string
	Color     string
	Quantity  int
}

// UpdateCartItemInput changes the quantity of an existing cart line.
type UpdateCartItemInput struct {
	ItemID   string
	Quantity int
}

// CartOutput is the cart as returned to the delivery layer.
type CartOutput struct {
	Items []*entity.CartItem `json:"items"`
	Total float64            `json:"total"`
}

// CartUsecase defines cart operations. All operations are scoped to the
// owning user; ownership checks happen in the delivery layer.
type CartUsecase interface {
	GetCart(ctx context.Context, userID string) (*CartOutput, error)
	AddItem(ctx context.Context, userID string, input AddCartItemInput) (*entity.CartItem, error)
	UpdateItemQuantity(ctx context.Context, userID string, input UpdateCartItemInput) (*entity.CartItem, error)
	RemoveItem(ctx context.Context, userID, itemID string) error
	ClearCart(ctx context.Context, userID string) error
}
