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

// Cart lines are capped per the storefront's order policy.
const (
	maxCartQuantity = 99
	maxCartLines    = 50
)

// cartService implements the CartUsecase interface.
type cartService struct {
	txManager   repository.TransactionManager
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	logger      *slog.Logger
}

// CartServiceParams holds dependencies for cartService, injected by Fx.
type CartServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	CartRepo    repository.CartRepository
	ProductRepo repository.ProductRepository
	Logger      *slog.Logger
}

// NewCartService is the constructor for cartService.
func NewCartService(params CartServiceParams) usecase.CartUsecase {
	return &cartService{
		txManager:   params.TxManager,
		cartRepo:    params.CartRepo,
		productRepo: params.ProductRepo,
		logger:      params.Logger,
	}
}

func (srv *cartService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// GetCart retrieves the user's cart lines and running total.
func (srv *cartService) GetCart(ctx context.Context, userID string) (*usecase.CartOutput, error) {
	uid, err := parseID(userID)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrUserNotFound, "invalid user id")
	}

	items, err := srv.cartRepo.ListByUser(ctx, uid)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list cart items")
	}

	var total float64
	for _, item := range items {
		total += item.Subtotal()
	}

	return &usecase.CartOutput{Items: items, Total: total}, nil
}

// AddItem adds a product variant to the cart. Adding a variant that is
// already in the cart increases the existing line's quantity instead of
// creating a duplicate.
func (srv *cartService) AddItem(ctx context.Context, userID string, input usecase.AddCartItemInput) (*entity.CartItem, error) {
	uid, err := parseID(userID)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrUserNotFound, "invalid user id")
	}
	productID, err := parseID(input.ProductID)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrProductNotFound, "invalid product id")
	}
	if input.Quantity < 1 || input.Quantity > maxCartQuantity {
		return nil, domainerrors.ErrValidationFailed.WithDetails("quantity must be between 1 and 99")
	}

	var result *entity.CartItem
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		cartRepo := repoFactory.CartRepo()

		product, err := repoFactory.ProductRepo().FindByID(ctx, productID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return errors.Wrap(domainerrors.ErrProductNotFound, "product lookup failed")
			}

			return errors.Wrap(err, "failed to find product")
		}
		if !product.Active {
			return errors.Wrap(domainerrors.ErrProductNotFound, "product is not for sale")
		}

		existing, err := cartRepo.FindVariant(ctx, uid, productID, input.Size, input.Color)
		if err == nil {
			existing.Quantity += input.Quantity
			if existing.Quantity > maxCartQuantity {
				return domainerrors.ErrValidationFailed.WithDetails("quantity must be between 1 and 99")
			}
			if err := cartRepo.Update(ctx, existing); err != nil {
				return errors.Wrap(err, "failed to update cart line")
			}
			result = existing

			return nil
		}
		if !errors.Is(err, repository.ErrCartItemNotFound) {
			return errors.Wrap(err, "failed to find cart line")
		}

		lines, err := cartRepo.ListByUser(ctx, uid)
		if err != nil {
			return errors.Wrap(err, "failed to list cart items")
		}
		if len(lines) >= maxCartLines {
			return domainerrors.ErrValidationFailed.WithDetails("cart is full")
		}

		item := &entity.CartItem{
			UserID:    uid,
			ProductID: productID,
			Size:      input.Size,
			Color:     input.Color,
			Quantity:  input.Quantity,
			Price:     product.Price, // Snapshot; later price changes don't affect the cart.
		}
		if err := cartRepo.Create(ctx, item); err != nil {
			return errors.Wrap(err, "failed to create cart line")
		}
		result = item

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to add cart item", slog.Any("userID", uid), slog.Any("productID", productID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute add-to-cart transaction")
	}

	srv.log(ctx).Debug("Cart item added", slog.Any("userID", uid), slog.Any("itemID", result.ID))

	return result, nil
}

// UpdateItemQuantity changes the quantity of an existing cart line.
func (srv *cartService) UpdateItemQuantity(ctx context.Context, userID string, input usecase.UpdateCartItemInput) (*entity.CartItem, error) {
	uid, err := parseID(userID)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrUserNotFound, "invalid user id")
	}
	itemID, err := parseID(input.ItemID)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrCartItemNotFound, "invalid cart item id")
	}
	if input.Quantity < 1 || input.Quantity > maxCartQuantity {
		return nil, domainerrors.ErrValidationFailed.WithDetails("quantity must be between 1 and 99")
	}

	var result *entity.CartItem
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		cartRepo := repoFactory.CartRepo()

		item, err := srv.findOwnedItem(ctx, cartRepo, uid, itemID)
		if err != nil {
			return err
		}

		item.Quantity = input.Quantity
		if err := cartRepo.Update(ctx, item); err != nil {
			return errors.Wrap(err, "failed to update cart line")
		}
		result = item

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute cart update transaction")
	}

	return result, nil
}

// RemoveItem deletes one cart line.
func (srv *cartService) RemoveItem(ctx context.Context, userID, itemID string) error {
	uid, err := parseID(userID)
	if err != nil {
		return errors.Wrap(domainerrors.ErrUserNotFound, "invalid user id")
	}
	id, err := parseID(itemID)
	if err != nil {
		return errors.Wrap(domainerrors.ErrCartItemNotFound, "invalid cart item id")
	}

	return srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		cartRepo := repoFactory.CartRepo()

		item, err := srv.findOwnedItem(ctx, cartRepo, uid, id)
		if err != nil {
			return err
		}

		return errors.Wrap(cartRepo.Delete(ctx, item.ID), "failed to delete cart line")
	})
}

// ClearCart removes every line from the user's cart.
func (srv *cartService) ClearCart(ctx context.Context, userID string) error {
	uid, err := parseID(userID)
	if err != nil {
		return errors.Wrap(domainerrors.ErrUserNotFound, "invalid user id")
	}

	srv.log(ctx).Debug("Clearing cart", slog.Any("userID", uid))

	return errors.Wrap(srv.cartRepo.DeleteByUser(ctx, uid), "failed to clear cart")
}

// findOwnedItem loads a cart line and verifies it belongs to the user.
// A line owned by someone else is reported as not found, not forbidden,
// so item IDs can't be probed.
func (srv *cartService) findOwnedItem(ctx context.Context, cartRepo repository.CartRepository, userID, itemID uuid.UUID) (*entity.CartItem, error) {
	item, err := cartRepo.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrCartItemNotFound) {
			return nil, errors.Wrap(domainerrors.ErrCartItemNotFound, "cart line lookup failed")
		}

		return nil, errors.Wrap(err, "failed to find cart line")
	}
	if item.UserID != userID {
		return nil, errors.Wrap(domainerrors.ErrCartItemNotFound, "cart line belongs to another user")
	}

	return item, nil
}
