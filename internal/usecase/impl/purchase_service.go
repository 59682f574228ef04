package impl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"
	"storefront/internal/util"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// purchaseService implements the PurchaseUsecase interface.
//
// Checkout reserves stock, snapshots cart prices into order lines and
// clears the cart in one transaction. Status changes that touch stock
// (shipping, cancellation) run their inventory writes in the same
// transaction as the status update.
type purchaseService struct {
	txManager    repository.TransactionManager
	purchaseRepo repository.PurchaseRepository
	userRepo     repository.UserRepository
	notifier     service.NotificationService
	publisher    service.EventPublisher
	qrGenerator  service.QRCodeService
	logger       *slog.Logger
}

// PurchaseServiceParams holds dependencies for purchaseService, injected by Fx.
type PurchaseServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	PurchaseRepo repository.PurchaseRepository
	UserRepo     repository.UserRepository
	Notifier     service.NotificationService
	Publisher    service.EventPublisher
	QRGenerator  service.QRCodeService
	Logger       *slog.Logger
}

// NewPurchaseService is the constructor for purchaseService.
func NewPurchaseService(params PurchaseServiceParams) usecase.PurchaseUsecase {
	return &purchaseService{
		txManager:    params.TxManager,
		purchaseRepo: params.PurchaseRepo,
		userRepo:     params.UserRepo,
		notifier:     params.Notifier,
		publisher:    params.Publisher,
		qrGenerator:  params.QRGenerator,
		logger:       params.Logger,
	}
}

func (srv *purchaseService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Checkout turns the user's cart into a pending order.
func (srv *purchaseService) Checkout(ctx context.Context, input usecase.CheckoutInput) (*entity.Purchase, error) {
	userID, err := parseID(input.UserID)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrUserNotFound, "invalid user id")
	}

	srv.log(ctx).Info("Starting checkout", slog.Any("userID", userID))

	var purchase *entity.Purchase
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		cartRepo := repoFactory.CartRepo()

		lines, err := cartRepo.ListByUser(ctx, userID)
		if err != nil {
			return errors.Wrap(err, "failed to list cart items")
		}
		if len(lines) == 0 {
			return errors.Wrap(domainerrors.ErrCartEmpty, "checkout with empty cart")
		}

		// Reserve stock for every line under row locks; any shortage
		// rolls back the whole checkout.
		for _, line := range lines {
			err := lockAndMutateVariant(ctx, repoFactory, line.ProductID, line.Size, line.Color,
				line.Quantity, entity.MovementReserved, "stock reserved for checkout", userID, reserveVariant)
			if err != nil {
				return err
			}
		}

		purchase = &entity.Purchase{
			UserID:          userID,
			Status:          entity.PurchasePending,
			ShippingAddress: input.ShippingAddress,
			PaymentMethod:   input.PaymentMethod,
		}
		for _, line := range lines {
			purchase.Items = append(purchase.Items, &entity.PurchaseItem{
				ProductID: line.ProductID,
				Size:      line.Size,
				Color:     line.Color,
				Quantity:  line.Quantity,
				UnitPrice: line.Price,
			})
			purchase.TotalAmount += line.Subtotal()
		}

		if err := repoFactory.PurchaseRepo().Create(ctx, purchase); err != nil {
			return errors.Wrap(err, "failed to create purchase")
		}

		return errors.Wrap(cartRepo.DeleteByUser(ctx, userID), "failed to clear cart after checkout")
	})
	if err != nil {
		srv.log(ctx).Warn("Checkout failed", slog.Any("userID", userID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute checkout transaction")
	}

	srv.log(ctx).Info("Checkout completed",
		slog.Any("purchaseID", purchase.ID), slog.Float64("total", purchase.TotalAmount), slog.Int("items", len(purchase.Items)))

	srv.publishEvent(ctx, purchase)
	srv.notifyUser(ctx, purchase)

	return purchase, nil
}

// GetPurchase retrieves one order with its items.
func (srv *purchaseService) GetPurchase(ctx context.Context, id string) (*entity.Purchase, error) {
	purchaseID, err := parseID(id)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrPurchaseNotFound, "invalid purchase id")
	}

	purchase, err := srv.purchaseRepo.FindByID(ctx, purchaseID)
	if err != nil {
		if errors.Is(err, repository.ErrPurchaseNotFound) {
			return nil, errors.Wrap(domainerrors.ErrPurchaseNotFound, "purchase lookup failed")
		}

		return nil, errors.Wrap(err, "failed to find purchase")
	}

	return purchase, nil
}

// ListPurchases retrieves orders matching the filter, newest first.
func (srv *purchaseService) ListPurchases(ctx context.Context, input usecase.ListPurchasesInput) ([]*entity.Purchase, error) {
	filter := repository.PurchaseFilter{
		Status: input.Status,
		Limit:  normalizeLimit(input.Limit),
		Offset: input.Offset,
	}
	if input.UserID != "" {
		userID, err := parseID(input.UserID)
		if err != nil {
			return nil, errors.Wrap(domainerrors.ErrUserNotFound, "invalid user id")
		}
		filter.UserID = &userID
	}
	if input.Status != "" && !input.Status.Valid() {
		return nil, domainerrors.ErrValidationFailed.WithDetails("unknown purchase status")
	}

	purchases, err := srv.purchaseRepo.List(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list purchases")
	}

	return purchases, nil
}

// UpdateStatus moves an order along its lifecycle. Shipping fulfills the
// reservation and assigns a tracking number; cancelling releases it.
func (srv *purchaseService) UpdateStatus(ctx context.Context, input usecase.UpdatePurchaseStatusInput) (*entity.Purchase, error) {
	purchaseID, err := parseID(input.PurchaseID)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrPurchaseNotFound, "invalid purchase id")
	}
	actorID, err := parseID(input.PerformedBy)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrUserNotFound, "invalid actor id")
	}
	if !input.Status.Valid() {
		return nil, domainerrors.ErrValidationFailed.WithDetails("unknown purchase status")
	}

	var updated *entity.Purchase
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		purchaseRepo := repoFactory.PurchaseRepo()

		purchase, err := purchaseRepo.FindByID(ctx, purchaseID)
		if err != nil {
			if errors.Is(err, repository.ErrPurchaseNotFound) {
				return errors.Wrap(domainerrors.ErrPurchaseNotFound, "purchase lookup failed")
			}

			return errors.Wrap(err, "failed to find purchase")
		}

		if !purchase.Status.CanTransitionTo(input.Status) {
			return domainerrors.ErrInvalidStatusTransition.WithDetails(
				fmt.Sprintf("%s -> %s", purchase.Status, input.Status))
		}

		switch input.Status {
		case entity.PurchaseShipped:
			// Reserved stock leaves the warehouse for good.
			for _, item := range purchase.Items {
				err := lockAndMutateVariant(ctx, repoFactory, item.ProductID, item.Size, item.Color,
					item.Quantity, entity.MovementOut, "order fulfilled", actorID, fulfillVariant)
				if err != nil {
					return err
				}
			}
			purchase.TrackingNumber = util.NewTrackingNumber(time.Now())
		case entity.PurchaseCancelled:
			// The reservation goes back to the available pool.
			for _, item := range purchase.Items {
				err := lockAndMutateVariant(ctx, repoFactory, item.ProductID, item.Size, item.Color,
					item.Quantity, entity.MovementReleased, "order cancelled", actorID, releaseVariant)
				if err != nil {
					return err
				}
			}
		}

		purchase.Status = input.Status
		if err := purchaseRepo.Update(ctx, purchase); err != nil {
			return errors.Wrap(err, "failed to update purchase")
		}

		updated = purchase

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to update purchase status",
			slog.Any("purchaseID", purchaseID), slog.String("status", string(input.Status)), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute status update transaction")
	}

	srv.log(ctx).Info("Purchase status updated",
		slog.Any("purchaseID", updated.ID), slog.String("status", string(updated.Status)))

	srv.publishEvent(ctx, updated)
	srv.notifyUser(ctx, updated)

	return updated, nil
}

// CancelPurchase is the owner-facing cancellation path.
func (srv *purchaseService) CancelPurchase(ctx context.Context, id, performedBy string) (*entity.Purchase, error) {
	return srv.UpdateStatus(ctx, usecase.UpdatePurchaseStatusInput{
		PurchaseID:  id,
		Status:      entity.PurchaseCancelled,
		PerformedBy: performedBy,
	})
}

// DeletePurchase removes an order record. Only orders in a terminal state
// may be deleted, so no reservation can be orphaned.
func (srv *purchaseService) DeletePurchase(ctx context.Context, id string) error {
	purchaseID, err := parseID(id)
	if err != nil {
		return errors.Wrap(domainerrors.ErrPurchaseNotFound, "invalid purchase id")
	}

	return srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		purchaseRepo := repoFactory.PurchaseRepo()

		purchase, err := purchaseRepo.FindByID(ctx, purchaseID)
		if err != nil {
			if errors.Is(err, repository.ErrPurchaseNotFound) {
				return errors.Wrap(domainerrors.ErrPurchaseNotFound, "purchase lookup failed")
			}

			return errors.Wrap(err, "failed to find purchase")
		}

		switch purchase.Status {
		case entity.PurchaseDelivered, entity.PurchaseCancelled, entity.PurchaseRefunded:
			return errors.Wrap(purchaseRepo.Delete(ctx, purchaseID), "failed to delete purchase")
		default:
			return domainerrors.ErrConflict.WithDetails("only completed or cancelled orders can be deleted")
		}
	})
}

// Stats aggregates order counts and revenue for the admin dashboard.
func (srv *purchaseService) Stats(ctx context.Context) (*entity.PurchaseStats, error) {
	stats, err := srv.purchaseRepo.Stats(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to aggregate purchase stats")
	}

	return stats, nil
}

// Track resolves a tracking number to its order and renders a QR code
// linking to the public tracking page.
func (srv *purchaseService) Track(ctx context.Context, trackingNumber string) (*usecase.TrackOutput, error) {
	if trackingNumber == "" {
		return nil, errors.Wrap(domainerrors.ErrPurchaseNotFound, "empty tracking number")
	}

	purchase, err := srv.purchaseRepo.FindByTrackingNumber(ctx, trackingNumber)
	if err != nil {
		if errors.Is(err, repository.ErrPurchaseNotFound) {
			return nil, errors.Wrap(domainerrors.ErrPurchaseNotFound, "tracking number lookup failed")
		}

		return nil, errors.Wrap(err, "failed to find purchase by tracking number")
	}

	qr, err := srv.qrGenerator.GenerateTrackingQR(trackingNumber)
	if err != nil {
		// Tracking still works without the QR image.
		srv.log(ctx).Warn("Failed to generate tracking QR", slog.String("trackingNumber", trackingNumber), slog.Any("error", err))
		qr = nil
	}

	return &usecase.TrackOutput{Purchase: purchase, QRCode: qr}, nil
}

// publishEvent emits an order event for downstream consumers. Failures are
// logged, never surfaced to the shopper.
func (srv *purchaseService) publishEvent(ctx context.Context, purchase *entity.Purchase) {
	event := &service.OrderEvent{
		RequestID:   deliverycontext.GetRequestIDFromContext(ctx),
		OrderID:     purchase.ID.String(),
		UserID:      purchase.UserID.String(),
		Status:      string(purchase.Status),
		TotalAmount: purchase.TotalAmount,
		ItemCount:   len(purchase.Items),
	}
	if err := srv.publisher.PublishOrderEvent(ctx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish order event", slog.Any("purchaseID", purchase.ID), slog.Any("error", err))
	}
}

// notifyUser pushes an order status notification to the owner's device,
// when one is registered. Best effort.
func (srv *purchaseService) notifyUser(ctx context.Context, purchase *entity.Purchase) {
	user, err := srv.userRepo.FindByID(ctx, purchase.UserID)
	if err != nil || user.DeviceToken == "" {
		return
	}

	title := "Order update"
	body := fmt.Sprintf("Your order is now %s.", purchase.Status)
	data := map[string]string{
		"order_id": purchase.ID.String(),
		"status":   string(purchase.Status),
	}
	if purchase.TrackingNumber != "" {
		data["tracking_number"] = purchase.TrackingNumber
	}

	if err := srv.notifier.SendSingleNotification(ctx, user.DeviceToken, title, body, data); err != nil {
		srv.log(ctx).Warn("Failed to push order notification", slog.Any("purchaseID", purchase.ID), slog.Any("error", err))
	}
}
