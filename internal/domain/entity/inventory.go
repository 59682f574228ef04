package entity

import (
	"time"

	"github.com/google/uuid"
)

// InventoryItem tracks stock for one (product, size, color) variant.
// Invariant: 0 <= ReservedQuantity <= Quantity. Available stock is always
// derived, never stored.
type InventoryItem struct {
	ID               uuid.UUID `json:"id"`
	ProductID        uuid.UUID `json:"product_id"`
	Size             string    `json:"size"`
	Color            string    `json:"color"`
	Quantity         int       `json:"quantity"`          // Units physically on hand.
	ReservedQuantity int       `json:"reserved_quantity"` // Units held for in-flight checkouts.
	ReorderLevel     int       `json:"reorder_level"`     // At or below this level the variant shows up in low-stock reports.
	MaxStockLevel    int       `json:"max_stock_level"`   // Soft ceiling for restocks; 0 means unlimited.
	Location         string    `json:"location"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Available returns the sellable quantity.
func (i *InventoryItem) Available() int {
	return i.Quantity - i.ReservedQuantity
}

// MovementType classifies a stock movement audit row.
type MovementType string

const (
	MovementIn         MovementType = "in"
	MovementOut        MovementType = "out"
	MovementAdjustment MovementType = "adjustment"
	MovementReserved   MovementType = "reserved"
	MovementReleased   MovementType = "released"
)

// StockMovement is an append-only audit row written after every inventory
// mutation. Rows are never updated or deleted.
type StockMovement struct {
	ID          uuid.UUID    `json:"id"`
	InventoryID uuid.UUID    `json:"inventory_id"`
	Type        MovementType `json:"type"`
	Quantity    int          `json:"quantity"` // Magnitude of the change; sign is carried by Type.
	Reason      string       `json:"reason"`
	PerformedBy uuid.UUID    `json:"performed_by"` // User who triggered the mutation.
	CreatedAt   time.Time    `json:"created_at"`
}
