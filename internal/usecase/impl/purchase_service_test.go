package impl

import (
	"context"
	"testing"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	mockRepo "storefront/internal/mocks/repository"
	mockSvc "storefront/internal/mocks/service"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type purchaseServiceMocks struct {
	purchaseRepo  *mockRepo.MockPurchaseRepository
	userRepo      *mockRepo.MockUserRepository
	cartRepo      *mockRepo.MockCartRepository
	inventoryRepo *mockRepo.MockInventoryRepository
	movementRepo  *mockRepo.MockStockMovementRepository
	notifier      *mockSvc.MockNotificationService
	publisher     *mockSvc.MockEventPublisher
	qrGenerator   *mockSvc.MockQRCodeService
}

func newPurchaseServiceForTest(t *testing.T) (*purchaseService, purchaseServiceMocks) {
	m := purchaseServiceMocks{
		purchaseRepo:  mockRepo.NewMockPurchaseRepository(t),
		userRepo:      mockRepo.NewMockUserRepository(t),
		cartRepo:      mockRepo.NewMockCartRepository(t),
		inventoryRepo: mockRepo.NewMockInventoryRepository(t),
		movementRepo:  mockRepo.NewMockStockMovementRepository(t),
		notifier:      mockSvc.NewMockNotificationService(t),
		publisher:     mockSvc.NewMockEventPublisher(t),
		qrGenerator:   mockSvc.NewMockQRCodeService(t),
	}
	factory := &mockRepo.StubFactory{
		Users:     m.userRepo,
		Carts:     m.cartRepo,
		Inventory: m.inventoryRepo,
		Movements: m.movementRepo,
		Purchases: m.purchaseRepo,
	}

	svc := NewPurchaseService(PurchaseServiceParams{
		TxManager:    newStubTx(factory),
		PurchaseRepo: m.purchaseRepo,
		UserRepo:     m.userRepo,
		Notifier:     m.notifier,
		Publisher:    m.publisher,
		QRGenerator:  m.qrGenerator,
		Logger:       newDiscardLogger(),
	})

	return svc.(*purchaseService), m
}

func TestPurchaseService_Checkout_EmptyCart(t *testing.T) {
	svc, m := newPurchaseServiceForTest(t)

	userID := uuid.New()
	m.cartRepo.On("ListByUser", mock.Anything, userID).Return([]*entity.CartItem{}, nil)

	_, err := svc.Checkout(context.Background(), usecase.CheckoutInput{
		UserID:          userID.String(),
		ShippingAddress: "1 Main St",
	})
	assert.True(t, errors.Is(err, domainerrors.ErrCartEmpty))
}

func TestPurchaseService_Checkout_ReservesStockAndClearsCart(t *testing.T) {
	svc, m := newPurchaseServiceForTest(t)

	userID := uuid.New()
	productID := uuid.New()
	stock := &entity.InventoryItem{
		ID: uuid.New(), ProductID: productID, Size: "M", Color: "black",
		Quantity: 10, ReservedQuantity: 0,
	}

	m.cartRepo.On("ListByUser", mock.Anything, userID).Return([]*entity.CartItem{
		{ProductID: productID, Size: "M", Color: "black", Quantity: 3, Price: 25.00},
	}, nil)
	m.inventoryRepo.On("FindVariantForUpdate", mock.Anything, productID, "M", "black").Return(stock, nil)
	m.inventoryRepo.On("Update", mock.Anything, stock).Return(nil)
	m.movementRepo.On("Create", mock.Anything, mock.MatchedBy(func(mv *entity.StockMovement) bool {
		return mv.Type == entity.MovementReserved && mv.Quantity == 3 && mv.PerformedBy == userID
	})).Return(nil)
	m.purchaseRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Purchase")).Return(nil)
	m.cartRepo.On("DeleteByUser", mock.Anything, userID).Return(nil)
	m.publisher.On("PublishOrderEvent", mock.Anything, mock.MatchedBy(func(ev *service.OrderEvent) bool {
		return ev.Status == string(entity.PurchasePending) && ev.ItemCount == 1
	})).Return(nil)
	m.userRepo.On("FindByID", mock.Anything, userID).
		Return(&entity.User{ID: userID, DeviceToken: ""}, nil)

	purchase, err := svc.Checkout(context.Background(), usecase.CheckoutInput{
		UserID:          userID.String(),
		ShippingAddress: "1 Main St",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.PurchasePending, purchase.Status)
	assert.InDelta(t, 75.00, purchase.TotalAmount, 0.001)
	require.Len(t, purchase.Items, 1)
	assert.InDelta(t, 25.00, purchase.Items[0].UnitPrice, 0.001)
	assert.Equal(t, 3, stock.ReservedQuantity, "checkout must reserve, not deduct")
	assert.Equal(t, 10, stock.Quantity)
}

func TestPurchaseService_Checkout_InsufficientStockRollsBack(t *testing.T) {
	svc, m := newPurchaseServiceForTest(t)

	userID := uuid.New()
	productID := uuid.New()
	stock := &entity.InventoryItem{
		ID: uuid.New(), ProductID: productID, Size: "M", Color: "black",
		Quantity: 5, ReservedQuantity: 4,
	}

	m.cartRepo.On("ListByUser", mock.Anything, userID).Return([]*entity.CartItem{
		{ProductID: productID, Size: "M", Color: "black", Quantity: 3, Price: 25.00},
	}, nil)
	m.inventoryRepo.On("FindVariantForUpdate", mock.Anything, productID, "M", "black").Return(stock, nil)

	_, err := svc.Checkout(context.Background(), usecase.CheckoutInput{
		UserID:          userID.String(),
		ShippingAddress: "1 Main St",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrInsufficientStock))

	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "requested 3, available 1", appErr.Details())
}

func TestPurchaseService_UpdateStatus_InvalidTransition(t *testing.T) {
	svc, m := newPurchaseServiceForTest(t)

	purchaseID := uuid.New()
	m.purchaseRepo.On("FindByID", mock.Anything, purchaseID).
		Return(&entity.Purchase{ID: purchaseID, Status: entity.PurchaseShipped}, nil)

	_, err := svc.UpdateStatus(context.Background(), usecase.UpdatePurchaseStatusInput{
		PurchaseID:  purchaseID.String(),
		Status:      entity.PurchaseCancelled,
		PerformedBy: uuid.NewString(),
	})
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidStatusTransition))
}

func TestPurchaseService_UpdateStatus_ShippedFulfillsAndTracks(t *testing.T) {
	svc, m := newPurchaseServiceForTest(t)

	purchaseID := uuid.New()
	userID := uuid.New()
	adminID := uuid.New()
	productID := uuid.New()
	stock := &entity.InventoryItem{
		ID: uuid.New(), ProductID: productID, Size: "M", Color: "black",
		Quantity: 10, ReservedQuantity: 3,
	}
	purchase := &entity.Purchase{
		ID: purchaseID, UserID: userID, Status: entity.PurchaseProcessing,
		Items: []*entity.PurchaseItem{
			{ProductID: productID, Size: "M", Color: "black", Quantity: 3, UnitPrice: 25.00},
		},
	}

	m.purchaseRepo.On("FindByID", mock.Anything, purchaseID).Return(purchase, nil)
	m.inventoryRepo.On("FindVariantForUpdate", mock.Anything, productID, "M", "black").Return(stock, nil)
	m.inventoryRepo.On("Update", mock.Anything, stock).Return(nil)
	m.movementRepo.On("Create", mock.Anything, mock.MatchedBy(func(mv *entity.StockMovement) bool {
		return mv.Type == entity.MovementOut && mv.Quantity == 3 && mv.PerformedBy == adminID
	})).Return(nil)
	m.purchaseRepo.On("Update", mock.Anything, purchase).Return(nil)
	m.publisher.On("PublishOrderEvent", mock.Anything, mock.Anything).Return(nil)
	m.userRepo.On("FindByID", mock.Anything, userID).
		Return(&entity.User{ID: userID, DeviceToken: ""}, nil) // no device, no push

	updated, err := svc.UpdateStatus(context.Background(), usecase.UpdatePurchaseStatusInput{
		PurchaseID:  purchaseID.String(),
		Status:      entity.PurchaseShipped,
		PerformedBy: adminID.String(),
	})
	require.NoError(t, err)

	assert.Equal(t, entity.PurchaseShipped, updated.Status)
	assert.NotEmpty(t, updated.TrackingNumber)
	assert.Equal(t, 7, stock.Quantity, "shipping deducts on-hand stock")
	assert.Equal(t, 0, stock.ReservedQuantity, "shipping consumes the reservation")
}

func TestPurchaseService_UpdateStatus_CancelledReleasesReservation(t *testing.T) {
	svc, m := newPurchaseServiceForTest(t)

	purchaseID := uuid.New()
	userID := uuid.New()
	productID := uuid.New()
	stock := &entity.InventoryItem{
		ID: uuid.New(), ProductID: productID, Size: "M", Color: "black",
		Quantity: 10, ReservedQuantity: 3,
	}
	purchase := &entity.Purchase{
		ID: purchaseID, UserID: userID, Status: entity.PurchasePending,
		Items: []*entity.PurchaseItem{
			{ProductID: productID, Size: "M", Color: "black", Quantity: 3, UnitPrice: 25.00},
		},
	}

	m.purchaseRepo.On("FindByID", mock.Anything, purchaseID).Return(purchase, nil)
	m.inventoryRepo.On("FindVariantForUpdate", mock.Anything, productID, "M", "black").Return(stock, nil)
	m.inventoryRepo.On("Update", mock.Anything, stock).Return(nil)
	m.movementRepo.On("Create", mock.Anything, mock.MatchedBy(func(mv *entity.StockMovement) bool {
		return mv.Type == entity.MovementReleased && mv.Quantity == 3
	})).Return(nil)
	m.purchaseRepo.On("Update", mock.Anything, purchase).Return(nil)
	m.publisher.On("PublishOrderEvent", mock.Anything, mock.Anything).Return(nil)
	m.userRepo.On("FindByID", mock.Anything, userID).
		Return(&entity.User{ID: userID, DeviceToken: "device-abc"}, nil)
	m.notifier.On("SendSingleNotification", mock.Anything, "device-abc", "Order update",
		mock.AnythingOfType("string"), mock.Anything).Return(nil)

	updated, err := svc.CancelPurchase(context.Background(), purchaseID.String(), userID.String())
	require.NoError(t, err)

	assert.Equal(t, entity.PurchaseCancelled, updated.Status)
	assert.Equal(t, 10, stock.Quantity, "cancelling must not touch on-hand stock")
	assert.Equal(t, 0, stock.ReservedQuantity)
}

func TestPurchaseService_DeletePurchase_OnlyTerminalStates(t *testing.T) {
	svc, m := newPurchaseServiceForTest(t)

	pendingID := uuid.New()
	m.purchaseRepo.On("FindByID", mock.Anything, pendingID).
		Return(&entity.Purchase{ID: pendingID, Status: entity.PurchasePending}, nil)

	err := svc.DeletePurchase(context.Background(), pendingID.String())
	assert.True(t, errors.Is(err, domainerrors.ErrConflict))

	doneID := uuid.New()
	m.purchaseRepo.On("FindByID", mock.Anything, doneID).
		Return(&entity.Purchase{ID: doneID, Status: entity.PurchaseDelivered}, nil)
	m.purchaseRepo.On("Delete", mock.Anything, doneID).Return(nil)

	assert.NoError(t, svc.DeletePurchase(context.Background(), doneID.String()))
}

func TestPurchaseService_Track_SurvivesQRFailure(t *testing.T) {
	svc, m := newPurchaseServiceForTest(t)

	purchase := &entity.Purchase{ID: uuid.New(), TrackingNumber: "SF20250601ABCDEF"}
	m.purchaseRepo.On("FindByTrackingNumber", mock.Anything, "SF20250601ABCDEF").Return(purchase, nil)
	m.qrGenerator.On("GenerateTrackingQR", "SF20250601ABCDEF").
		Return(nil, errors.New("encoder failure"))

	out, err := svc.Track(context.Background(), "SF20250601ABCDEF")
	require.NoError(t, err)
	assert.Equal(t, purchase, out.Purchase)
	assert.Nil(t, out.QRCode)
}

func TestPurchaseService_Track_UnknownNumber(t *testing.T) {
	svc, m := newPurchaseServiceForTest(t)

	m.purchaseRepo.On("FindByTrackingNumber", mock.Anything, "SF00000000000000").
		Return(nil, repository.ErrPurchaseNotFound)

	_, err := svc.Track(context.Background(), "SF00000000000000")
	assert.True(t, errors.Is(err, domainerrors.ErrPurchaseNotFound))
}
