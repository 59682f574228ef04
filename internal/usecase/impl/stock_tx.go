package impl

import (
	"context"
	"fmt"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// stockMutation changes one locked inventory row in place. Returning an
// error rolls back the surrounding transaction.
type stockMutation func(item *entity.InventoryItem, qty int) error

// lockAndMutateVariant locks the inventory row for one variant, applies the
// mutation and appends the audit movement. Must run inside a transaction.
func lockAndMutateVariant(
	ctx context.Context,
	repoFactory repository.RepositoryFactory,
	productID uuid.UUID,
	size, color string,
	quantity int,
	movementType entity.MovementType,
	reason string,
	actorID uuid.UUID,
	mutate stockMutation,
) error {
	if quantity <= 0 {
		return domainerrors.ErrValidationFailed.WithDetails("quantity must be a positive number")
	}

	inventoryRepo := repoFactory.InventoryRepo()

	item, err := inventoryRepo.FindVariantForUpdate(ctx, productID, size, color)
	if err != nil {
		if errors.Is(err, repository.ErrInventoryNotFound) {
			return errors.Wrap(domainerrors.ErrInventoryNotFound, "inventory row lookup failed")
		}

		return errors.Wrap(err, "failed to lock inventory row")
	}

	if err := mutate(item, quantity); err != nil {
		return err
	}

	if err := inventoryRepo.Update(ctx, item); err != nil {
		return errors.Wrap(err, "failed to update inventory row")
	}

	movement := &entity.StockMovement{
		InventoryID: item.ID,
		Type:        movementType,
		Quantity:    quantity,
		Reason:      reason,
		PerformedBy: actorID,
	}

	return errors.Wrap(repoFactory.MovementRepo().Create(ctx, movement), "failed to append stock movement")
}

func insufficientStockDetails(requested, available int) string {
	return fmt.Sprintf("requested %d, available %d", requested, available)
}

// reserveVariant holds quantity for an in-flight checkout.
func reserveVariant(item *entity.InventoryItem, qty int) error {
	if item.Available() < qty {
		return domainerrors.ErrInsufficientStock.WithDetails(insufficientStockDetails(qty, item.Available()))
	}
	item.ReservedQuantity += qty

	return nil
}

// releaseVariant returns reserved quantity to the available pool.
func releaseVariant(item *entity.InventoryItem, qty int) error {
	if item.ReservedQuantity < qty {
		return domainerrors.ErrConflict.WithDetails("release exceeds reserved quantity")
	}
	item.ReservedQuantity -= qty

	return nil
}

// fulfillVariant deducts reserved quantity permanently.
func fulfillVariant(item *entity.InventoryItem, qty int) error {
	if item.ReservedQuantity < qty {
		return domainerrors.ErrConflict.WithDetails("fulfillment exceeds reserved quantity")
	}
	item.ReservedQuantity -= qty
	item.Quantity -= qty

	return nil
}
