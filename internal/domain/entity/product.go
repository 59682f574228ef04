package entity

import (
	"time"

	"github.com/google/uuid"
)

// Product is a catalog item. Stock is tracked per (size, color) variant in
// InventoryItem rows, not on the product itself.
type Product struct {
	ID          uuid.UUID `json:"id"`          // The unique identifier for the product.
	Name        string    `json:"name"`        // Display name shown in the catalog.
	Description string    `json:"description"` // Long-form description.
	Category    string    `json:"category"`    // Catalog category, e.g. "hoodies".
	Price       float64   `json:"price"`       // Current unit price; cart items snapshot it on add.
	ImageURL    string    `json:"image_url"`   // Public URL of the primary product image.
	Active      bool      `json:"active"`      // Inactive products are hidden from the public catalog.
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
