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

type inventoryServiceMocks struct {
	inventoryRepo *mockRepo.MockInventoryRepository
	movementRepo  *mockRepo.MockStockMovementRepository
	productRepo   *mockRepo.MockProductRepository
}

func newInventoryServiceForTest(t *testing.T) (*inventoryService, inventoryServiceMocks) {
	m := inventoryServiceMocks{
		inventoryRepo: mockRepo.NewMockInventoryRepository(t),
		movementRepo:  mockRepo.NewMockStockMovementRepository(t),
		productRepo:   mockRepo.NewMockProductRepository(t),
	}
	factory := &mockRepo.StubFactory{
		Inventory: m.inventoryRepo,
		Movements: m.movementRepo,
		Products:  m.productRepo,
	}

	svc := NewInventoryService(InventoryServiceParams{
		TxManager:     newStubTx(factory),
		InventoryRepo: m.inventoryRepo,
		MovementRepo:  m.movementRepo,
		Logger:        newDiscardLogger(),
	})

	return svc.(*inventoryService), m
}

func TestInventoryService_CheckAvailability(t *testing.T) {
	svc, m := newInventoryServiceForTest(t)

	inStock := uuid.New()
	missing := uuid.New()

	m.inventoryRepo.On("FindVariant", mock.Anything, inStock, "M", "black").
		Return(&entity.InventoryItem{Quantity: 10, ReservedQuantity: 4}, nil)
	m.inventoryRepo.On("FindVariant", mock.Anything, missing, "L", "red").
		Return(nil, repository.ErrInventoryNotFound)

	results, err := svc.CheckAvailability(context.Background(), []usecase.StockRequest{
		{ProductID: inStock.String(), Size: "M", Color: "black", Quantity: 6},
		{ProductID: missing.String(), Size: "L", Color: "red", Quantity: 1},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.True(t, results[0].Available)
	assert.Equal(t, 6, results[0].InStock, "available = on hand minus reserved")
	assert.False(t, results[1].Available)
	assert.Equal(t, 0, results[1].InStock)
}

func TestInventoryService_Reserve_InsufficientStock(t *testing.T) {
	svc, m := newInventoryServiceForTest(t)

	productID := uuid.New()
	m.inventoryRepo.On("FindVariantForUpdate", mock.Anything, productID, "M", "black").
		Return(&entity.InventoryItem{Quantity: 5, ReservedQuantity: 5}, nil)

	err := svc.Reserve(context.Background(), []usecase.StockRequest{
		{ProductID: productID.String(), Size: "M", Color: "black", Quantity: 1},
	}, uuid.NewString())
	assert.True(t, errors.Is(err, domainerrors.ErrInsufficientStock))
}

func TestInventoryService_Release_CannotExceedReservation(t *testing.T) {
	svc, m := newInventoryServiceForTest(t)

	productID := uuid.New()
	m.inventoryRepo.On("FindVariantForUpdate", mock.Anything, productID, "M", "black").
		Return(&entity.InventoryItem{Quantity: 10, ReservedQuantity: 2}, nil)

	err := svc.Release(context.Background(), []usecase.StockRequest{
		{ProductID: productID.String(), Size: "M", Color: "black", Quantity: 3},
	}, uuid.NewString())
	assert.True(t, errors.Is(err, domainerrors.ErrConflict))
}

func TestInventoryService_SetStock_CreatesRowOnFirstUse(t *testing.T) {
	svc, m := newInventoryServiceForTest(t)

	productID := uuid.New()
	actorID := uuid.New()

	m.productRepo.On("FindByID", mock.Anything, productID).
		Return(&entity.Product{ID: productID, Active: true}, nil)
	m.inventoryRepo.On("FindVariantForUpdate", mock.Anything, productID, "M", "black").
		Return(nil, repository.ErrInventoryNotFound)
	m.inventoryRepo.On("Create", mock.Anything, mock.MatchedBy(func(item *entity.InventoryItem) bool {
		return item.ProductID == productID && item.Quantity == 20
	})).Return(nil)
	m.movementRepo.On("Create", mock.Anything, mock.MatchedBy(func(mv *entity.StockMovement) bool {
		return mv.Type == entity.MovementIn && mv.Quantity == 20 && mv.PerformedBy == actorID
	})).Return(nil)

	item, err := svc.SetStock(context.Background(), usecase.SetStockInput{
		ProductID:   productID.String(),
		Size:        "M",
		Color:       "black",
		Quantity:    20,
		PerformedBy: actorID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, 20, item.Quantity)
}

func TestInventoryService_SetStock_RejectsBelowReserved(t *testing.T) {
	svc, m := newInventoryServiceForTest(t)

	productID := uuid.New()
	m.productRepo.On("FindByID", mock.Anything, productID).
		Return(&entity.Product{ID: productID, Active: true}, nil)
	m.inventoryRepo.On("FindVariantForUpdate", mock.Anything, productID, "M", "black").
		Return(&entity.InventoryItem{Quantity: 10, ReservedQuantity: 5}, nil)

	_, err := svc.SetStock(context.Background(), usecase.SetStockInput{
		ProductID:   productID.String(),
		Size:        "M",
		Color:       "black",
		Quantity:    3, // below the 5 still reserved
		PerformedBy: uuid.NewString(),
	})
	assert.True(t, errors.Is(err, domainerrors.ErrConflict))
}

func TestInventoryService_AdjustStock_ReservedFloor(t *testing.T) {
	svc, m := newInventoryServiceForTest(t)

	productID := uuid.New()
	m.inventoryRepo.On("FindVariantForUpdate", mock.Anything, productID, "M", "black").
		Return(&entity.InventoryItem{Quantity: 10, ReservedQuantity: 8}, nil)

	_, err := svc.AdjustStock(context.Background(), usecase.AdjustStockInput{
		ProductID:   productID.String(),
		Size:        "M",
		Color:       "black",
		Delta:       -5,
		PerformedBy: uuid.NewString(),
	})
	assert.True(t, errors.Is(err, domainerrors.ErrConflict))
}

func TestInventoryService_AdjustStock_RecordsAdjustmentMovement(t *testing.T) {
	svc, m := newInventoryServiceForTest(t)

	productID := uuid.New()
	actorID := uuid.New()
	stock := &entity.InventoryItem{ID: uuid.New(), ProductID: productID, Quantity: 10}

	m.inventoryRepo.On("FindVariantForUpdate", mock.Anything, productID, "M", "black").Return(stock, nil)
	m.inventoryRepo.On("Update", mock.Anything, stock).Return(nil)
	m.movementRepo.On("Create", mock.Anything, mock.MatchedBy(func(mv *entity.StockMovement) bool {
		return mv.Type == entity.MovementAdjustment && mv.Quantity == 4 && mv.Reason == "stocktake correction"
	})).Return(nil)

	item, err := svc.AdjustStock(context.Background(), usecase.AdjustStockInput{
		ProductID:   productID.String(),
		Size:        "M",
		Color:       "black",
		Delta:       -4,
		Reason:      "stocktake correction",
		PerformedBy: actorID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, 6, item.Quantity)
}

func TestInventoryService_AdjustStock_ZeroDelta(t *testing.T) {
	svc, _ := newInventoryServiceForTest(t)

	_, err := svc.AdjustStock(context.Background(), usecase.AdjustStockInput{
		ProductID:   uuid.NewString(),
		Delta:       0,
		PerformedBy: uuid.NewString(),
	})
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}
