package model

import (
	"time"

	"github.com/google/uuid"
)

// CartItemModel mirrors the 'cart_items' table. The composite unique index
// enforces one line per (user, product, size, color) variant.
type CartItemModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_variant;index"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cart_variant"`
	Size      string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_cart_variant"`
	Color     string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_cart_variant"`
	Quantity  int       `gorm:"not null"`
	Price     float64   `gorm:"type:numeric(12,2);not null"`
	AddedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (CartItemModel) TableName() string {
	return "cart_items"
}
