package handler

import (
	"net/http"

	"storefront/internal/delivery/http/response"
	"storefront/internal/sanitize"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// maxImageSize caps product image uploads at 5 MiB.
const maxImageSize = 5 << 20

// ProductHandler holds dependencies for catalogue handlers. Reads are
// public; mutations are mounted behind the admin middleware.
type ProductHandler struct {
	uc usecase.ProductUsecase
}

// NewProductHandler is the constructor for ProductHandler, injected by Fx.
func NewProductHandler(uc usecase.ProductUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

type listProductsRequest struct {
	Category   string `query:"category" validate:"omitempty,max=100"`
	ActiveOnly bool   `query:"activeOnly"`
	Limit      int    `query:"limit" validate:"omitempty,min=1,max=200"`
	Offset     int    `query:"offset" validate:"omitempty,min=0"`
}

// ListProducts handles the public catalogue listing.
func (h *ProductHandler) ListProducts(c echo.Context) error {
	var req listProductsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid listing input")
	}
	req.Category = sanitize.String(req.Category)
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	products, err := h.uc.ListProducts(c.Request().Context(), usecase.ListProductsInput{
		Category:   req.Category,
		ActiveOnly: req.ActiveOnly,
		Limit:      req.Limit,
		Offset:     req.Offset,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, products, "Products retrieved successfully")
}

// GetProduct handles the public single-product view.
func (h *ProductHandler) GetProduct(c echo.Context) error {
	product, err := h.uc.GetProduct(c.Request().Context(), c.Param("productId"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, product, "Product retrieved successfully")
}

type createProductRequest struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Description string  `json:"description" validate:"max=5000"`
	Category    string  `json:"category" validate:"required,max=100"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	ImageURL    string  `json:"imageUrl" validate:"omitempty,url"`
}

// CreateProduct handles the admin request to add a catalogue item.
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req createProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid product input")
	}
	req.Name = sanitize.String(req.Name)
	req.Description = sanitize.String(req.Description)
	req.Category = sanitize.String(req.Category)
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	product, err := h.uc.CreateProduct(c.Request().Context(), usecase.CreateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, product, "Product created successfully")
}

type updateProductRequest struct {
	Name        *string  `json:"name" validate:"omitempty,max=200"`
	Description *string  `json:"description" validate:"omitempty,max=5000"`
	Category    *string  `json:"category" validate:"omitempty,max=100"`
	Price       *float64 `json:"price" validate:"omitempty,gt=0"`
	ImageURL    *string  `json:"imageUrl" validate:"omitempty,url"`
	Active      *bool    `json:"active"`
}

// UpdateProduct handles the admin request to patch a catalogue item.
// Absent fields are left untouched.
func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	var req updateProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid product input")
	}
	sanitizeOptional(req.Name)
	sanitizeOptional(req.Description)
	sanitizeOptional(req.Category)
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	product, err := h.uc.UpdateProduct(c.Request().Context(), c.Param("productId"), usecase.UpdateProductInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Active:      req.Active,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, product, "Product updated successfully")
}

// DeleteProduct handles the admin request to remove a catalogue item.
func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	if err := h.uc.DeleteProduct(c.Request().Context(), c.Param("productId")); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Product deleted successfully")
}

// UploadImage handles the admin request to attach a product image.
// Expects a multipart form with an "image" file field.
func (h *ProductHandler) UploadImage(c echo.Context) error {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Image file is required")
	}
	if fileHeader.Size > maxImageSize {
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "Image exceeds the 5 MiB limit")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return errors.Wrap(err, "failed to open uploaded image")
	}
	defer file.Close()

	product, err := h.uc.UploadProductImage(c.Request().Context(), usecase.UploadProductImageInput{
		ProductID:   c.Param("productId"),
		ContentType: fileHeader.Header.Get("Content-Type"),
		Body:        file,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, product, "Product image uploaded")
}

func sanitizeOptional(s *string) {
	if s != nil {
		*s = sanitize.String(*s)
	}
}
