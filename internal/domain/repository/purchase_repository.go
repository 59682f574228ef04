package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrPurchaseNotFound is returned when an order does not exist.
var ErrPurchaseNotFound = errors.New("purchase not found")

// PurchaseFilter narrows List results. A nil UserID means all users.
type PurchaseFilter struct {
	UserID *uuid.UUID
	Status entity.PurchaseStatus
	Limit  int
	Offset int
}

// PurchaseRepository defines order persistence operations.
type PurchaseRepository interface {
	// FindByID retrieves an order with its items.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Purchase, error)

	// FindByTrackingNumber retrieves a shipped order by its carrier tracking number.
	FindByTrackingNumber(ctx context.Context, trackingNumber string) (*entity.Purchase, error)

	// List retrieves orders matching the filter, newest first, with items.
	List(ctx context.Context, filter PurchaseFilter) ([]*entity.Purchase, error)

	// Create persists a new order together with its items.
	Create(ctx context.Context, purchase *entity.Purchase) error

	// Update modifies order header fields (status, tracking number).
	Update(ctx context.Context, purchase *entity.Purchase) error

	// Delete removes an order and its items.
	Delete(ctx context.Context, id uuid.UUID) error

	// Stats aggregates order counts and revenue for the admin dashboard.
	Stats(ctx context.Context) (*entity.PurchaseStats, error)
}
