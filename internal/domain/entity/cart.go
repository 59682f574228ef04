package entity

import (
	"time"

	"github.com/google/uuid"
)

// CartItem is one line in a user's shopping cart. Uniqueness is
// (UserID, ProductID, Size, Color); adding the same variant again
// increases the quantity instead of creating a second line.
type CartItem struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	ProductID uuid.UUID `json:"product_id"`
	Size      string    `json:"size"`
	Color     string    `json:"color"`
	Quantity  int       `json:"quantity"`
	Price     float64   `json:"price"` // Unit price snapshot taken when the item was added.
	AddedAt   time.Time `json:"added_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Subtotal returns the line total for this cart item.
func (i *CartItem) Subtotal() float64 {
	return float64(i.Quantity) * i.Price
}
