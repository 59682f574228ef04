package impl

import (
	"context"
	"testing"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	mockRepo "storefront/internal/mocks/repository"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCartServiceForTest(t *testing.T) (*cartService, *mockRepo.MockCartRepository, *mockRepo.MockProductRepository) {
	cartRepo := mockRepo.NewMockCartRepository(t)
	productRepo := mockRepo.NewMockProductRepository(t)
	factory := &mockRepo.StubFactory{Carts: cartRepo, Products: productRepo}

	service := NewCartService(CartServiceParams{
		TxManager:   newStubTx(factory),
		CartRepo:    cartRepo,
		ProductRepo: productRepo,
		Logger:      newDiscardLogger(),
	})

	return service.(*cartService), cartRepo, productRepo
}

func addItemInput(productID uuid.UUID, quantity int) usecase.AddCartItemInput {
	return usecase.AddCartItemInput{
		ProductID: productID.String(),
		Size:      "M",
		Color:     "black",
		Quantity:  quantity,
	}
}

func updateItemInput(itemID uuid.UUID, quantity int) usecase.UpdateCartItemInput {
	return usecase.UpdateCartItemInput{ItemID: itemID.String(), Quantity: quantity}
}

func TestCartService_GetCart_SumsSubtotals(t *testing.T) {
	service, cartRepo, _ := newCartServiceForTest(t)

	userID := uuid.New()
	cartRepo.On("ListByUser", mock.Anything, userID).Return([]*entity.CartItem{
		{Quantity: 2, Price: 19.99},
		{Quantity: 1, Price: 5.00},
	}, nil)

	cart, err := service.GetCart(context.Background(), userID.String())
	require.NoError(t, err)
	assert.Len(t, cart.Items, 2)
	assert.InDelta(t, 44.98, cart.Total, 0.001)
}

func TestCartService_AddItem_NewLineSnapshotsPrice(t *testing.T) {
	service, cartRepo, productRepo := newCartServiceForTest(t)

	userID := uuid.New()
	productID := uuid.New()

	productRepo.On("FindByID", mock.Anything, productID).
		Return(&entity.Product{ID: productID, Price: 29.90, Active: true}, nil)
	cartRepo.On("FindVariant", mock.Anything, userID, productID, "M", "black").
		Return(nil, repository.ErrCartItemNotFound)
	cartRepo.On("ListByUser", mock.Anything, userID).Return([]*entity.CartItem{}, nil)
	cartRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.CartItem")).Return(nil)

	item, err := service.AddItem(context.Background(), userID.String(), addItemInput(productID, 2))
	require.NoError(t, err)
	assert.Equal(t, 2, item.Quantity)
	assert.InDelta(t, 29.90, item.Price, 0.001, "price must be snapshotted from the product")
}

func TestCartService_AddItem_MergesExistingLine(t *testing.T) {
	service, cartRepo, productRepo := newCartServiceForTest(t)

	userID := uuid.New()
	productID := uuid.New()
	existing := &entity.CartItem{
		ID: uuid.New(), UserID: userID, ProductID: productID,
		Size: "M", Color: "black", Quantity: 3, Price: 29.90,
	}

	productRepo.On("FindByID", mock.Anything, productID).
		Return(&entity.Product{ID: productID, Price: 34.90, Active: true}, nil)
	cartRepo.On("FindVariant", mock.Anything, userID, productID, "M", "black").
		Return(existing, nil)
	cartRepo.On("Update", mock.Anything, existing).Return(nil)

	item, err := service.AddItem(context.Background(), userID.String(), addItemInput(productID, 2))
	require.NoError(t, err)
	assert.Equal(t, 5, item.Quantity)
	assert.InDelta(t, 29.90, item.Price, 0.001, "merging must keep the original price snapshot")
}

func TestCartService_AddItem_InactiveProduct(t *testing.T) {
	service, _, productRepo := newCartServiceForTest(t)

	productID := uuid.New()
	productRepo.On("FindByID", mock.Anything, productID).
		Return(&entity.Product{ID: productID, Active: false}, nil)

	_, err := service.AddItem(context.Background(), uuid.NewString(), addItemInput(productID, 1))
	assert.True(t, errors.Is(err, domainerrors.ErrProductNotFound))
}

func TestCartService_AddItem_QuantityBounds(t *testing.T) {
	service, _, _ := newCartServiceForTest(t)

	_, err := service.AddItem(context.Background(), uuid.NewString(), addItemInput(uuid.New(), 0))
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))

	_, err = service.AddItem(context.Background(), uuid.NewString(), addItemInput(uuid.New(), 100))
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}

func TestCartService_UpdateItemQuantity_OtherUsersLineHidden(t *testing.T) {
	service, cartRepo, _ := newCartServiceForTest(t)

	itemID := uuid.New()
	cartRepo.On("FindByID", mock.Anything, itemID).
		Return(&entity.CartItem{ID: itemID, UserID: uuid.New()}, nil)

	_, err := service.UpdateItemQuantity(context.Background(), uuid.NewString(), updateItemInput(itemID, 2))

	// Someone else's line must look like it does not exist.
	assert.True(t, errors.Is(err, domainerrors.ErrCartItemNotFound))
}

func TestCartService_RemoveItem_OwnedLine(t *testing.T) {
	service, cartRepo, _ := newCartServiceForTest(t)

	userID := uuid.New()
	itemID := uuid.New()
	cartRepo.On("FindByID", mock.Anything, itemID).
		Return(&entity.CartItem{ID: itemID, UserID: userID}, nil)
	cartRepo.On("Delete", mock.Anything, itemID).Return(nil)

	err := service.RemoveItem(context.Background(), userID.String(), itemID.String())
	assert.NoError(t, err)
}

func TestCartService_ClearCart(t *testing.T) {
	service, cartRepo, _ := newCartServiceForTest(t)

	userID := uuid.New()
	cartRepo.On("DeleteByUser", mock.Anything, userID).Return(nil)

	assert.NoError(t, service.ClearCart(context.Background(), userID.String()))
}
