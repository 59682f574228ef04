package impl

import (
	"context"
	"log/slog"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// productService implements the ProductUsecase interface.
type productService struct {
	txManager   repository.TransactionManager
	productRepo repository.ProductRepository
	imageStore  service.ImageStore
	logger      *slog.Logger
}

// ProductServiceParams holds dependencies for productService, injected by Fx.
type ProductServiceParams struct {
	fx.In

	TxManager   repository.TransactionManager
	ProductRepo repository.ProductRepository
	ImageStore  service.ImageStore
	Logger      *slog.Logger
}

// NewProductService is the constructor for productService.
func NewProductService(params ProductServiceParams) usecase.ProductUsecase {
	return &productService{
		txManager:   params.TxManager,
		productRepo: params.ProductRepo,
		imageStore:  params.ImageStore,
		logger:      params.Logger,
	}
}

func (srv *productService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// ListProducts retrieves catalogue entries matching the filter.
func (srv *productService) ListProducts(ctx context.Context, input usecase.ListProductsInput) ([]*entity.Product, error) {
	products, err := srv.productRepo.List(ctx, repository.ProductFilter{
		Category:   input.Category,
		ActiveOnly: input.ActiveOnly,
		Limit:      normalizeLimit(input.Limit),
		Offset:     input.Offset,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list products")
	}

	return products, nil
}

// GetProduct retrieves one product by ID.
func (srv *productService) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	productID, err := parseID(id)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrProductNotFound, "invalid product id")
	}

	product, err := srv.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, errors.Wrap(domainerrors.ErrProductNotFound, "product lookup failed")
		}

		return nil, errors.Wrap(err, "failed to find product")
	}

	return product, nil
}

// CreateProduct adds a new catalogue entry. New products start active.
func (srv *productService) CreateProduct(ctx context.Context, input usecase.CreateProductInput) (*entity.Product, error) {
	if input.Price <= 0 {
		return nil, domainerrors.ErrValidationFailed.WithDetails("price must be a positive number")
	}

	product := &entity.Product{
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
		Price:       input.Price,
		ImageURL:    input.ImageURL,
		Active:      true,
	}
	if err := srv.productRepo.Create(ctx, product); err != nil {
		srv.log(ctx).Error("Failed to create product", slog.String("name", input.Name), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to create product")
	}

	srv.log(ctx).Info("Product created", slog.Any("productID", product.ID), slog.String("name", product.Name))

	return product, nil
}

// UpdateProduct applies the non-nil fields of input to a product.
func (srv *productService) UpdateProduct(ctx context.Context, id string, input usecase.UpdateProductInput) (*entity.Product, error) {
	productID, err := parseID(id)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrProductNotFound, "invalid product id")
	}
	if input.Price != nil && *input.Price <= 0 {
		return nil, domainerrors.ErrValidationFailed.WithDetails("price must be a positive number")
	}

	var updated *entity.Product
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		productRepo := repoFactory.ProductRepo()

		product, err := productRepo.FindByID(ctx, productID)
		if err != nil {
			if errors.Is(err, repository.ErrProductNotFound) {
				return errors.Wrap(domainerrors.ErrProductNotFound, "product lookup failed")
			}

			return errors.Wrap(err, "failed to find product")
		}

		if input.Name != nil {
			product.Name = *input.Name
		}
		if input.Description != nil {
			product.Description = *input.Description
		}
		if input.Category != nil {
			product.Category = *input.Category
		}
		if input.Price != nil {
			product.Price = *input.Price
		}
		if input.ImageURL != nil {
			product.ImageURL = *input.ImageURL
		}
		if input.Active != nil {
			product.Active = *input.Active
		}

		if err := productRepo.Update(ctx, product); err != nil {
			return errors.Wrap(err, "failed to update product")
		}

		updated = product

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to update product", slog.Any("productID", productID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute product update transaction")
	}

	return updated, nil
}

// DeleteProduct removes a catalogue entry. Inventory rows and cart lines
// referencing it are removed by foreign key cascade.
func (srv *productService) DeleteProduct(ctx context.Context, id string) error {
	productID, err := parseID(id)
	if err != nil {
		return errors.Wrap(domainerrors.ErrProductNotFound, "invalid product id")
	}

	srv.log(ctx).Info("Deleting product", slog.Any("productID", productID))

	if err := srv.productRepo.Delete(ctx, productID); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return errors.Wrap(domainerrors.ErrProductNotFound, "product lookup failed")
		}

		return errors.Wrap(err, "failed to delete product")
	}

	return nil
}

// UploadProductImage stores an image blob and records its public URL on
// the product.
func (srv *productService) UploadProductImage(ctx context.Context, input usecase.UploadProductImageInput) (*entity.Product, error) {
	productID, err := parseID(input.ProductID)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrProductNotFound, "invalid product id")
	}

	product, err := srv.productRepo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, errors.Wrap(domainerrors.ErrProductNotFound, "product lookup failed")
		}

		return nil, errors.Wrap(err, "failed to find product")
	}

	url, err := srv.imageStore.Save(ctx, "products/"+productID.String(), input.ContentType, input.Body)
	if err != nil {
		srv.log(ctx).Error("Failed to store product image", slog.Any("productID", productID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to store product image")
	}

	product.ImageURL = url
	if err := srv.productRepo.Update(ctx, product); err != nil {
		return nil, errors.Wrap(err, "failed to record product image url")
	}

	return product, nil
}
