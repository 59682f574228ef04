package impl

import (
	"context"
	"log/slog"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// inventoryService implements the InventoryUsecase interface.
//
// Reserve, Release and Fulfill each lock the affected inventory rows with
// SELECT ... FOR UPDATE inside a single transaction, so the availability
// check and the write cannot race with a concurrent checkout.
type inventoryService struct {
	txManager     repository.TransactionManager
	inventoryRepo repository.InventoryRepository
	movementRepo  repository.StockMovementRepository
	logger        *slog.Logger
}

// InventoryServiceParams holds dependencies for inventoryService, injected by Fx.
type InventoryServiceParams struct {
	fx.In

	TxManager     repository.TransactionManager
	InventoryRepo repository.InventoryRepository
	MovementRepo  repository.StockMovementRepository
	Logger        *slog.Logger
}

// NewInventoryService is the constructor for inventoryService.
func NewInventoryService(params InventoryServiceParams) usecase.InventoryUsecase {
	return &inventoryService{
		txManager:     params.TxManager,
		inventoryRepo: params.InventoryRepo,
		movementRepo:  params.MovementRepo,
		logger:        params.Logger,
	}
}

func (srv *inventoryService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// CheckAvailability reads current stock levels without locking. The result
// is advisory only; Reserve repeats the check under a row lock.
func (srv *inventoryService) CheckAvailability(ctx context.Context, requests []usecase.StockRequest) ([]usecase.AvailabilityResult, error) {
	results := make([]usecase.AvailabilityResult, 0, len(requests))

	for _, req := range requests {
		productID, err := parseID(req.ProductID)
		if err != nil {
			return nil, errors.Wrap(domainerrors.ErrProductNotFound, "invalid product id")
		}

		item, err := srv.inventoryRepo.FindVariant(ctx, productID, req.Size, req.Color)
		if err != nil {
			if errors.Is(err, repository.ErrInventoryNotFound) {
				results = append(results, usecase.AvailabilityResult{Request: req, Available: false, InStock: 0})

				continue
			}

			return nil, errors.Wrap(err, "failed to find inventory row")
		}

		results = append(results, usecase.AvailabilityResult{
			Request:   req,
			Available: item.Available() >= req.Quantity,
			InStock:   item.Available(),
		})
	}

	return results, nil
}

// Reserve holds stock for every request or fails the whole batch.
func (srv *inventoryService) Reserve(ctx context.Context, requests []usecase.StockRequest, performedBy string) error {
	return srv.mutateBatch(ctx, requests, performedBy, entity.MovementReserved, "stock reserved for checkout", reserveVariant)
}

// Release returns previously reserved stock to the available pool, e.g.
// when an order is cancelled before shipping.
func (srv *inventoryService) Release(ctx context.Context, requests []usecase.StockRequest, performedBy string) error {
	return srv.mutateBatch(ctx, requests, performedBy, entity.MovementReleased, "reservation released", releaseVariant)
}

// Fulfill permanently deducts reserved stock after shipment.
func (srv *inventoryService) Fulfill(ctx context.Context, requests []usecase.StockRequest, performedBy string) error {
	return srv.mutateBatch(ctx, requests, performedBy, entity.MovementOut, "order fulfilled", fulfillVariant)
}

// mutateBatch applies mutate to each requested variant under row locks in
// one transaction and appends an audit movement per row. Any failure rolls
// back the whole batch.
func (srv *inventoryService) mutateBatch(
	ctx context.Context,
	requests []usecase.StockRequest,
	performedBy string,
	movementType entity.MovementType,
	reason string,
	mutate stockMutation,
) error {
	if len(requests) == 0 {
		return nil
	}

	actorID, err := parseID(performedBy)
	if err != nil {
		return errors.Wrap(domainerrors.ErrUserNotFound, "invalid actor id")
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		for _, req := range requests {
			productID, err := parseID(req.ProductID)
			if err != nil {
				return errors.Wrap(domainerrors.ErrProductNotFound, "invalid product id")
			}

			if err := lockAndMutateVariant(ctx, repoFactory, productID, req.Size, req.Color,
				req.Quantity, movementType, reason, actorID, mutate); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Inventory batch mutation failed",
			slog.String("movement", string(movementType)), slog.Int("requests", len(requests)), slog.Any("error", err))

		return errors.Wrap(err, "failed to execute inventory transaction")
	}

	return nil
}

// SetStock replaces the stock level of a variant, creating the inventory
// row on first use.
func (srv *inventoryService) SetStock(ctx context.Context, input usecase.SetStockInput) (*entity.InventoryItem, error) {
	productID, err := parseID(input.ProductID)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrProductNotFound, "invalid product id")
	}
	actorID, err := parseID(input.PerformedBy)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrUserNotFound, "invalid actor id")
	}
	if input.Quantity < 0 {
		return nil, domainerrors.ErrValidationFailed.WithDetails("quantity must not be negative")
	}

	var result *entity.InventoryItem
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		inventoryRepo := repoFactory.InventoryRepo()

		if _, err := repoFactory.ProductRepo().FindByID(ctx, productID); err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return errors.Wrap(domainerrors.ErrProductNotFound, "product lookup failed")
			}

			return errors.Wrap(err, "failed to find product")
		}

		item, err := inventoryRepo.FindVariantForUpdate(ctx, productID, input.Size, input.Color)
		if errors.Is(err, repository.ErrInventoryNotFound) {
			item = &entity.InventoryItem{
				ProductID:     productID,
				Size:          input.Size,
				Color:         input.Color,
				Quantity:      input.Quantity,
				ReorderLevel:  input.ReorderLevel,
				MaxStockLevel: input.MaxStockLevel,
				Location:      input.Location,
			}
			if err := inventoryRepo.Create(ctx, item); err != nil {
				return errors.Wrap(err, "failed to create inventory row")
			}

			return srv.appendMovement(ctx, repoFactory, item, entity.MovementIn, input.Quantity, "initial stock", actorID, &result)
		}
		if err != nil {
			return errors.Wrap(err, "failed to lock inventory row")
		}

		if input.Quantity < item.ReservedQuantity {
			return domainerrors.ErrConflict.WithDetails("new quantity is below the reserved quantity")
		}

		delta := input.Quantity - item.Quantity
		item.Quantity = input.Quantity
		if input.ReorderLevel > 0 {
			item.ReorderLevel = input.ReorderLevel
		}
		if input.MaxStockLevel > 0 {
			item.MaxStockLevel = input.MaxStockLevel
		}
		if input.Location != "" {
			item.Location = input.Location
		}

		if err := inventoryRepo.Update(ctx, item); err != nil {
			return errors.Wrap(err, "failed to update inventory row")
		}

		movementType := entity.MovementIn
		if delta < 0 {
			movementType = entity.MovementOut
			delta = -delta
		}
		if delta == 0 {
			result = item

			return nil
		}

		return srv.appendMovement(ctx, repoFactory, item, movementType, delta, "stock level set", actorID, &result)
	})
	if err != nil {
		srv.log(ctx).Error("Failed to set stock", slog.Any("productID", productID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute set-stock transaction")
	}

	srv.log(ctx).Info("Stock level set", slog.Any("inventoryID", result.ID), slog.Int("quantity", result.Quantity))

	return result, nil
}

// AdjustStock applies a signed delta to a variant's stock level, e.g. for
// shrinkage corrections after a stocktake.
func (srv *inventoryService) AdjustStock(ctx context.Context, input usecase.AdjustStockInput) (*entity.InventoryItem, error) {
	productID, err := parseID(input.ProductID)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrProductNotFound, "invalid product id")
	}
	actorID, err := parseID(input.PerformedBy)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrUserNotFound, "invalid actor id")
	}
	if input.Delta == 0 {
		return nil, domainerrors.ErrValidationFailed.WithDetails("delta must not be zero")
	}

	var result *entity.InventoryItem
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		inventoryRepo := repoFactory.InventoryRepo()

		item, err := inventoryRepo.FindVariantForUpdate(ctx, productID, input.Size, input.Color)
		if err != nil {
			if errors.Is(err, repository.ErrInventoryNotFound) {
				return errors.Wrap(domainerrors.ErrInventoryNotFound, "inventory row lookup failed")
			}

			return errors.Wrap(err, "failed to lock inventory row")
		}

		newQuantity := item.Quantity + input.Delta
		if newQuantity < item.ReservedQuantity {
			return domainerrors.ErrConflict.WithDetails("adjustment would drop quantity below reserved stock")
		}
		if item.MaxStockLevel > 0 && newQuantity > item.MaxStockLevel {
			return domainerrors.ErrConflict.WithDetails("adjustment exceeds the maximum stock level")
		}

		item.Quantity = newQuantity
		if err := inventoryRepo.Update(ctx, item); err != nil {
			return errors.Wrap(err, "failed to update inventory row")
		}

		magnitude := input.Delta
		if magnitude < 0 {
			magnitude = -magnitude
		}
		reason := input.Reason
		if reason == "" {
			reason = "manual adjustment"
		}

		return srv.appendMovement(ctx, repoFactory, item, entity.MovementAdjustment, magnitude, reason, actorID, &result)
	})
	if err != nil {
		srv.log(ctx).Error("Failed to adjust stock", slog.Any("productID", productID), slog.Int("delta", input.Delta), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute stock adjustment transaction")
	}

	return result, nil
}

func (srv *inventoryService) appendMovement(
	ctx context.Context,
	repoFactory repository.RepositoryFactory,
	item *entity.InventoryItem,
	movementType entity.MovementType,
	quantity int,
	reason string,
	actorID uuid.UUID,
	out **entity.InventoryItem,
) error {
	movement := &entity.StockMovement{
		InventoryID: item.ID,
		Type:        movementType,
		Quantity:    quantity,
		Reason:      reason,
		PerformedBy: actorID,
	}
	if err := repoFactory.MovementRepo().Create(ctx, movement); err != nil {
		return errors.Wrap(err, "failed to append stock movement")
	}

	*out = item

	return nil
}

// ListByProduct retrieves every variant row for a product.
func (srv *inventoryService) ListByProduct(ctx context.Context, productID string) ([]*entity.InventoryItem, error) {
	id, err := parseID(productID)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrProductNotFound, "invalid product id")
	}

	items, err := srv.inventoryRepo.ListByProduct(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list inventory rows")
	}

	return items, nil
}

// ListLowStock retrieves variants at or below their reorder level.
func (srv *inventoryService) ListLowStock(ctx context.Context) ([]*entity.InventoryItem, error) {
	items, err := srv.inventoryRepo.ListLowStock(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list low-stock rows")
	}

	return items, nil
}

// ListMovements retrieves the audit trail for one inventory row, newest first.
func (srv *inventoryService) ListMovements(ctx context.Context, inventoryID string, limit, offset int) ([]*entity.StockMovement, error) {
	id, err := parseID(inventoryID)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrInventoryNotFound, "invalid inventory id")
	}

	movements, err := srv.movementRepo.ListByInventory(ctx, id, normalizeLimit(limit), offset)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list stock movements")
	}

	return movements, nil
}
