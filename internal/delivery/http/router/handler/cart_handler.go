package handler

import (
	"net/http"

	"storefront/internal/delivery/http/response"
	"storefront/internal/sanitize"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// CartHandler holds dependencies for shopping cart handlers. All routes
// are mounted behind the owner-or-admin middleware on :userId.
type CartHandler struct {
	uc usecase.CartUsecase
}

// NewCartHandler is the constructor for CartHandler, injected by Fx.
func NewCartHandler(uc usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

// GetCart handles the request to view a user's cart with its total.
func (h *CartHandler) GetCart(c echo.Context) error {
	cart, err := h.uc.GetCart(c.Request().Context(), c.Param("userId"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, cart, "Cart retrieved successfully")
}

type addCartItemRequest struct {
	ProductID string `json:"productId" validate:"required,uuid"`
	Size      string `json:"size" validate:"required,max=20"`
	Color     string `json:"color" validate:"required,max=50"`
	Quantity  int    `json:"quantity" validate:"required,min=1,max=99"`
}

// AddItem handles adding a product variant to the cart. Adding a variant
// already in the cart merges quantities instead of creating a new line.
func (h *CartHandler) AddItem(c echo.Context) error {
	var req addCartItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid cart item input")
	}
	req.Size = sanitize.String(req.Size)
	req.Color = sanitize.String(req.Color)
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	item, err := h.uc.AddItem(c.Request().Context(), c.Param("userId"), usecase.AddCartItemInput{
		ProductID: req.ProductID,
		Size:      req.Size,
		Color:     req.Color,
		Quantity:  req.Quantity,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, item, "Item added to cart")
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"required,min=1,max=99"`
}

// UpdateItem handles changing the quantity of one cart line.
func (h *CartHandler) UpdateItem(c echo.Context) error {
	var req updateCartItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid cart item input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	item, err := h.uc.UpdateItemQuantity(c.Request().Context(), c.Param("userId"), usecase.UpdateCartItemInput{
		ItemID:   c.Param("itemId"),
		Quantity: req.Quantity,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, item, "Cart item updated")
}

// RemoveItem handles removing one line from the cart.
func (h *CartHandler) RemoveItem(c echo.Context) error {
	err := h.uc.RemoveItem(c.Request().Context(), c.Param("userId"), c.Param("itemId"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Item removed from cart")
}

// ClearCart handles emptying the cart. Clearing an empty cart succeeds.
func (h *CartHandler) ClearCart(c echo.Context) error {
	if err := h.uc.ClearCart(c.Request().Context(), c.Param("userId")); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Cart cleared")
}
