package entity

import (
	"time"

	"github.com/google/uuid"
)

// PurchaseStatus is the lifecycle state of an order.
type PurchaseStatus string

const (
	PurchasePending    PurchaseStatus = "pending"
	PurchaseConfirmed  PurchaseStatus = "confirmed"
	PurchaseProcessing PurchaseStatus = "processing"
	PurchaseShipped    PurchaseStatus = "shipped"
	PurchaseDelivered  PurchaseStatus = "delivered"
	PurchaseCancelled  PurchaseStatus = "cancelled"
	PurchaseRefunded   PurchaseStatus = "refunded"
)

// statusTransitions is the fixed order lifecycle:
// pending -> confirmed -> processing -> shipped -> delivered, with
// cancelled/refunded as side exits.
var statusTransitions = map[PurchaseStatus][]PurchaseStatus{
	PurchasePending:    {PurchaseConfirmed, PurchaseCancelled},
	PurchaseConfirmed:  {PurchaseProcessing, PurchaseCancelled},
	PurchaseProcessing: {PurchaseShipped, PurchaseCancelled},
	PurchaseShipped:    {PurchaseDelivered},
	PurchaseDelivered:  {PurchaseRefunded},
	PurchaseCancelled:  {},
	PurchaseRefunded:   {},
}

// Valid reports whether the status is a known lifecycle state.
func (s PurchaseStatus) Valid() bool {
	_, ok := statusTransitions[s]

	return ok
}

// CanTransitionTo reports whether the lifecycle permits moving to next.
func (s PurchaseStatus) CanTransitionTo(next PurchaseStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}

	return false
}

// Purchase is an order created from a user's cart at checkout.
type Purchase struct {
	ID              uuid.UUID       `json:"id"`
	UserID          uuid.UUID       `json:"user_id"`
	Status          PurchaseStatus  `json:"status"`
	TotalAmount     float64         `json:"total_amount"`
	ShippingAddress string          `json:"shipping_address"`
	PaymentMethod   string          `json:"payment_method"`
	TrackingNumber  string          `json:"tracking_number,omitempty"` // Assigned when the order ships.
	Items           []*PurchaseItem `json:"items"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// PurchaseItem is one order line, frozen at checkout time.
type PurchaseItem struct {
	ID         uuid.UUID `json:"id"`
	PurchaseID uuid.UUID `json:"purchase_id"`
	ProductID  uuid.UUID `json:"product_id"`
	Size       string    `json:"size"`
	Color      string    `json:"color"`
	Quantity   int       `json:"quantity"`
	UnitPrice  float64   `json:"unit_price"`
}

// PurchaseStats aggregates order data for the admin dashboard.
type PurchaseStats struct {
	TotalOrders    int64                    `json:"total_orders"`
	TotalRevenue   float64                  `json:"total_revenue"`
	CountsByStatus map[PurchaseStatus]int64 `json:"counts_by_status"`
}
