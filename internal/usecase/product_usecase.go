package usecase

import (
	"context"
	"io"

	"storefront/internal/domain/entity"
)

// CreateProductInput defines the data required to create a product.
type CreateProductInput struct {
	Name        string
	Description string
	Category    string
	Price       float64
	ImageURL    string
}

// UpdateProductInput defines the mutable fields of a product.
// Nil fields are left untouched.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Category    *string
	Price       *float64
	ImageURL    *string
	Active      *bool
}

// ListProductsInput defines filtering and paging for the catalogue listing.
type ListProductsInput struct {
	Category   string
	ActiveOnly bool
	Limit      int
	Offset     int
}

// UploadProductImageInput carries an image to attach to a product.
type UploadProductImageInput struct {
	ProductID   string
	ContentType string
	Body        io.Reader
}

// ProductUsecase defines catalogue operations. Reads are public;
// mutations are admin-only (enforced in the delivery layer).
type ProductUsecase interface {
	ListProducts(ctx context.Context, input ListProductsInput) ([]*entity.Product, error)
	GetProduct(ctx context.Context, id string) (*entity.Product, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*entity.Product, error)
	UpdateProduct(ctx context.Context, id string, input UpdateProductInput) (*entity.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	UploadProductImage(ctx context.Context, input UploadProductImageInput) (*entity.Product, error)
}
