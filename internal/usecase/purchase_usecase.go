package usecase

import (
	"context"

	"storefront/internal/domain/entity"
)

// CheckoutInput creates a purchase from the user's current cart.
type CheckoutInput struct {
	UserID          string
	ShippingAddress string
	PaymentMethod   string
}

// UpdatePurchaseStatusInput moves a purchase along its status machine.
type UpdatePurchaseStatusInput struct {
	PurchaseID  string
	Status      entity.PurchaseStatus
	PerformedBy string
}

// ListPurchasesInput filters the purchase listing. UserID is empty for
// admin listings across all users.
type ListPurchasesInput struct {
	UserID string
	Status entity.PurchaseStatus
	Limit  int
	Offset int
}

// TrackOutput is the public tracking view of a purchase, with a QR code
// linking back to the tracking page.
type TrackOutput struct {
	Purchase *entity.Purchase
	QRCode   []byte // PNG
}

// PurchaseUsecase defines the order lifecycle. Checkout reserves stock,
// snapshots cart prices and clears the cart in one transaction.
type PurchaseUsecase interface {
	Checkout(ctx context.Context, input CheckoutInput) (*entity.Purchase, error)
	GetPurchase(ctx context.Context, id string) (*entity.Purchase, error)
	ListPurchases(ctx context.Context, input ListPurchasesInput) ([]*entity.Purchase, error)
	UpdateStatus(ctx context.Context, input UpdatePurchaseStatusInput) (*entity.Purchase, error)
	CancelPurchase(ctx context.Context, id, performedBy string) (*entity.Purchase, error)
	DeletePurchase(ctx context.Context, id string) error
	Stats(ctx context.Context) (*entity.PurchaseStats, error)
	Track(ctx context.Context, trackingNumber string) (*TrackOutput, error)
}
