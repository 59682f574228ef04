package model

import (
	"time"

	"github.com/google/uuid"
)

// InventoryModel mirrors the 'inventory_items' table, one row per
// (product, size, color) variant. The check constraint backs the domain
// invariant 0 <= reserved_quantity <= quantity.
type InventoryModel struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	ProductID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_variant"`
	Size             string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_inventory_variant"`
	Color            string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_inventory_variant"`
	Quantity         int       `gorm:"not null;default:0;check:quantity >= reserved_quantity"`
	ReservedQuantity int       `gorm:"not null;default:0;check:reserved_quantity >= 0"`
	ReorderLevel     int       `gorm:"not null;default:0"`
	MaxStockLevel    int       `gorm:"not null;default:0"`
	Location         string    `gorm:"type:varchar(100)"`
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Movements []StockMovementModel `gorm:"foreignKey:InventoryID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (InventoryModel) TableName() string {
	return "inventory_items"
}

// StockMovementModel mirrors the append-only 'stock_movements' audit table.
type StockMovementModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	InventoryID uuid.UUID `gorm:"type:uuid;not null;index"`
	Type        string    `gorm:"type:varchar(20);not null"`
	Quantity    int       `gorm:"not null"`
	Reason      string    `gorm:"type:varchar(255)"`
	PerformedBy uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (StockMovementModel) TableName() string {
	return "stock_movements"
}
