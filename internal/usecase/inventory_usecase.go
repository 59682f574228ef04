package usecase

import (
	"context"

	"storefront/internal/domain/entity"
)

// StockRequest identifies a product variant and a requested quantity.
type StockRequest struct {
	ProductID string `json:"product_id"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity"`
}

// AvailabilityResult reports whether a single stock request can be satisfied.
type AvailabilityResult struct {
	Request   StockRequest `json:"request"`
	Available bool         `json:"available"`
	InStock   int          `json:"in_stock"` // quantity minus reserved at the time of the check
}

// SetStockInput replaces the stock level of a variant, creating the
// inventory row if it does not exist yet.
type SetStockInput struct {
	ProductID     string
	Size          string
	Color         string
	Quantity      int
	ReorderLevel  int
	MaxStockLevel int
	Location      string
	PerformedBy   string
}

// AdjustStockInput applies a signed delta to a variant's stock level.
type AdjustStockInput struct {
	ProductID   string
	Size        string
	Color       string
	Delta       int
	Reason      string
	PerformedBy string
}

// InventoryUsecase defines stock operations. Reservation, release and
// fulfilment each run inside a single transaction with the affected rows
// locked, so the availability check and the write cannot race.
type InventoryUsecase interface {
	// CheckAvailability reads current levels without locking. The result
	// is advisory; Reserve re-checks under a row lock.
	CheckAvailability(ctx context.Context, requests []StockRequest) ([]AvailabilityResult, error)

	// Reserve moves quantity into reservedQuantity for every request, or
	// fails the whole batch if any variant has too little available stock.
	Reserve(ctx context.Context, requests []StockRequest, performedBy string) error

	// Release returns previously reserved quantity to the available pool.
	Release(ctx context.Context, requests []StockRequest, performedBy string) error

	// Fulfill deducts reserved quantity permanently after shipment.
	Fulfill(ctx context.Context, requests []StockRequest, performedBy string) error

	SetStock(ctx context.Context, input SetStockInput) (*entity.InventoryItem, error)
	AdjustStock(ctx context.Context, input AdjustStockInput) (*entity.InventoryItem, error)

	ListByProduct(ctx context.Context, productID string) ([]*entity.InventoryItem, error)
	ListLowStock(ctx context.Context) ([]*entity.InventoryItem, error)
	ListMovements(ctx context.Context, inventoryID string, limit, offset int) ([]*entity.StockMovement, error)
}
