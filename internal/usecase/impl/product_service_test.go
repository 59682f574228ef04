package impl

import (
	"context"
	"strings"
	"testing"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	mockRepo "storefront/internal/mocks/repository"
	mockSvc "storefront/internal/mocks/service"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newProductServiceForTest(t *testing.T) (*productService, *mockRepo.MockProductRepository, *mockSvc.MockImageStore) {
	productRepo := mockRepo.NewMockProductRepository(t)
	imageStore := mockSvc.NewMockImageStore(t)
	factory := &mockRepo.StubFactory{Products: productRepo}

	svc := NewProductService(ProductServiceParams{
		TxManager:   newStubTx(factory),
		ProductRepo: productRepo,
		ImageStore:  imageStore,
		Logger:      newDiscardLogger(),
	})

	return svc.(*productService), productRepo, imageStore
}

func TestProductService_CreateProduct_StartsActive(t *testing.T) {
	svc, productRepo, _ := newProductServiceForTest(t)

	productRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *entity.Product) bool {
		return p.Active
	})).Return(nil)

	product, err := svc.CreateProduct(context.Background(), usecase.CreateProductInput{
		Name: "Canvas Tote", Category: "bags", Price: 19.90,
	})
	require.NoError(t, err)
	assert.True(t, product.Active)
}

func TestProductService_CreateProduct_NonPositivePrice(t *testing.T) {
	svc, _, _ := newProductServiceForTest(t)

	_, err := svc.CreateProduct(context.Background(), usecase.CreateProductInput{
		Name: "Canvas Tote", Price: 0,
	})
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))
}

func TestProductService_UpdateProduct_PartialUpdate(t *testing.T) {
	svc, productRepo, _ := newProductServiceForTest(t)

	productID := uuid.New()
	productRepo.On("FindByID", mock.Anything, productID).Return(&entity.Product{
		ID: productID, Name: "Canvas Tote", Category: "bags", Price: 19.90, Active: true,
	}, nil)
	productRepo.On("Update", mock.Anything, mock.AnythingOfType("*entity.Product")).Return(nil)

	newPrice := 24.90
	inactive := false
	updated, err := svc.UpdateProduct(context.Background(), productID.String(), usecase.UpdateProductInput{
		Price:  &newPrice,
		Active: &inactive,
	})
	require.NoError(t, err)

	assert.InDelta(t, 24.90, updated.Price, 0.001)
	assert.False(t, updated.Active)
	assert.Equal(t, "Canvas Tote", updated.Name, "unset fields stay untouched")
}

func TestProductService_GetProduct_UnknownID(t *testing.T) {
	svc, productRepo, _ := newProductServiceForTest(t)

	productID := uuid.New()
	productRepo.On("FindByID", mock.Anything, productID).Return(nil, repository.ErrProductNotFound)

	_, err := svc.GetProduct(context.Background(), productID.String())
	assert.True(t, errors.Is(err, domainerrors.ErrProductNotFound))

	_, err = svc.GetProduct(context.Background(), "not-a-uuid")
	assert.True(t, errors.Is(err, domainerrors.ErrProductNotFound))
}

func TestProductService_UploadProductImage_RecordsURL(t *testing.T) {
	svc, productRepo, imageStore := newProductServiceForTest(t)

	productID := uuid.New()
	product := &entity.Product{ID: productID, Name: "Canvas Tote"}
	body := strings.NewReader("png-bytes")

	productRepo.On("FindByID", mock.Anything, productID).Return(product, nil)
	imageStore.On("Save", mock.Anything, "products/"+productID.String(), "image/png", body).
		Return("https://cdn.example.com/products/"+productID.String(), nil)
	productRepo.On("Update", mock.Anything, product).Return(nil)

	updated, err := svc.UploadProductImage(context.Background(), usecase.UploadProductImageInput{
		ProductID:   productID.String(),
		ContentType: "image/png",
		Body:        body,
	})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/products/"+productID.String(), updated.ImageURL)
}
