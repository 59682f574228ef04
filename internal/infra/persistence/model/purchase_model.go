package model

import (
	"time"

	"github.com/google/uuid"
)

// PurchaseModel mirrors the 'purchases' table.
type PurchaseModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;index"`
	Status          string    `gorm:"type:varchar(20);not null;index"`
	TotalAmount     float64   `gorm:"type:numeric(12,2);not null"`
	ShippingAddress string    `gorm:"type:text"`
	PaymentMethod   string    `gorm:"type:varchar(50)"`
	TrackingNumber  string    `gorm:"type:varchar(40);index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Items []PurchaseItemModel `gorm:"foreignKey:PurchaseID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (PurchaseModel) TableName() string {
	return "purchases"
}

// PurchaseItemModel mirrors the 'purchase_items' table. Lines are frozen
// at checkout; the unit price never tracks later catalogue changes.
type PurchaseItemModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	PurchaseID uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null"`
	Size       string    `gorm:"type:varchar(20);not null"`
	Color      string    `gorm:"type:varchar(50);not null"`
	Quantity   int       `gorm:"not null"`
	UnitPrice  float64   `gorm:"type:numeric(12,2);not null"`
}

// TableName explicitly sets the table name for GORM.
func (PurchaseItemModel) TableName() string {
	return "purchase_items"
}
