package handler

import (
	"net/http"

	"storefront/internal/delivery/http/middleware"
	"storefront/internal/delivery/http/response"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/sanitize"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// PurchaseHandler holds dependencies for order lifecycle handlers.
type PurchaseHandler struct {
	uc usecase.PurchaseUsecase
}

// NewPurchaseHandler is the constructor for PurchaseHandler, injected by Fx.
func NewPurchaseHandler(uc usecase.PurchaseUsecase) *PurchaseHandler {
	return &PurchaseHandler{uc: uc}
}

type checkoutRequest struct {
	ShippingAddress string `json:"shippingAddress" validate:"required,max=500"`
	PaymentMethod   string `json:"paymentMethod" validate:"required,max=50"`
}

// Checkout handles creating an order from the caller's cart. Stock is
// reserved and the cart cleared in one transaction.
func (h *PurchaseHandler) Checkout(c echo.Context) error {
	var req checkoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid checkout input")
	}
	req.ShippingAddress = sanitize.String(req.ShippingAddress)
	req.PaymentMethod = sanitize.String(req.PaymentMethod)
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	purchase, err := h.uc.Checkout(c.Request().Context(), usecase.CheckoutInput{
		UserID:          actorID(c),
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, purchase, "Order placed successfully")
}

// GetPurchase handles the single-order view. Non-admin callers may only
// view their own orders.
func (h *PurchaseHandler) GetPurchase(c echo.Context) error {
	purchase, err := h.uc.GetPurchase(c.Request().Context(), c.Param("purchaseId"))
	if err != nil {
		return errors.WithStack(err)
	}
	if err := requireOwnership(c, purchase.UserID.String()); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, purchase, "Order retrieved successfully")
}

type listPurchasesRequest struct {
	UserID string `query:"userId" validate:"omitempty,uuid"`
	Status string `query:"status" validate:"omitempty,max=20"`
	Limit  int    `query:"limit" validate:"omitempty,min=1,max=200"`
	Offset int    `query:"offset" validate:"omitempty,min=0"`
}

// ListPurchases handles the order listing. Non-admin callers always see
// only their own orders regardless of the userId filter.
func (h *PurchaseHandler) ListPurchases(c echo.Context) error {
	var req listPurchasesRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid listing input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	userID := req.UserID
	if !callerIsAdmin(c) {
		userID = actorID(c)
	}

	purchases, err := h.uc.ListPurchases(c.Request().Context(), usecase.ListPurchasesInput{
		UserID: userID,
		Status: entity.PurchaseStatus(req.Status),
		Limit:  req.Limit,
		Offset: req.Offset,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, purchases, "Orders retrieved successfully")
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed processing shipped delivered cancelled refunded"`
}

// UpdateStatus handles the admin request to move an order along its
// lifecycle. Shipping fulfils reserved stock and assigns a tracking
// number; cancelling releases the reservation.
func (h *PurchaseHandler) UpdateStatus(c echo.Context) error {
	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid status input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	purchase, err := h.uc.UpdateStatus(c.Request().Context(), usecase.UpdatePurchaseStatusInput{
		PurchaseID:  c.Param("purchaseId"),
		Status:      entity.PurchaseStatus(req.Status),
		PerformedBy: actorID(c),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, purchase, "Order status updated")
}

// CancelPurchase handles cancelling an order. Owners may cancel their own
// orders while the lifecycle still allows it; admins may cancel any.
func (h *PurchaseHandler) CancelPurchase(c echo.Context) error {
	id := c.Param("purchaseId")

	current, err := h.uc.GetPurchase(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}
	if err := requireOwnership(c, current.UserID.String()); err != nil {
		return errors.WithStack(err)
	}

	purchase, err := h.uc.CancelPurchase(c.Request().Context(), id, actorID(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, purchase, "Order cancelled")
}

// DeletePurchase handles the admin request to remove a finished order.
// Only orders in a terminal status can be deleted.
func (h *PurchaseHandler) DeletePurchase(c echo.Context) error {
	if err := h.uc.DeletePurchase(c.Request().Context(), c.Param("purchaseId")); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Order deleted")
}

// Stats handles the admin dashboard aggregate view.
func (h *PurchaseHandler) Stats(c echo.Context) error {
	stats, err := h.uc.Stats(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, stats, "Order statistics retrieved")
}

// Track handles the public tracking view, looked up by tracking number.
func (h *PurchaseHandler) Track(c echo.Context) error {
	output, err := h.uc.Track(c.Request().Context(), c.Param("trackingNumber"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]any{
		"purchase": output.Purchase,
		"qr_code":  output.QRCode, // base64-encoded PNG
	}, "Tracking information retrieved")
}

func callerIsAdmin(c echo.Context) bool {
	role, ok := middleware.CurrentRole(c)

	return ok && role == entity.RoleAdmin
}

// requireOwnership rejects non-admin callers touching another user's record.
func requireOwnership(c echo.Context, ownerID string) error {
	if callerIsAdmin(c) {
		return nil
	}
	if actorID(c) != ownerID {
		return domainerrors.ErrForbidden.WrapMessage("You may only access your own resources")
	}

	return nil
}
