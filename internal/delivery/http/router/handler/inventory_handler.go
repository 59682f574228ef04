package handler

import (
	"net/http"

	"storefront/internal/delivery/http/middleware"
	"storefront/internal/delivery/http/response"
	"storefront/internal/sanitize"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// InventoryHandler holds dependencies for stock management handlers.
// Availability checks are public; everything else is admin-only.
type InventoryHandler struct {
	uc usecase.InventoryUsecase
}

// NewInventoryHandler is the constructor for InventoryHandler, injected by Fx.
func NewInventoryHandler(uc usecase.InventoryUsecase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

type stockRequestItem struct {
	ProductID string `json:"productId" validate:"required,uuid"`
	Size      string `json:"size" validate:"required,max=20"`
	Color     string `json:"color" validate:"required,max=50"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

type checkAvailabilityRequest struct {
	Items []stockRequestItem `json:"items" validate:"required,min=1,max=50,dive"`
}

// CheckAvailability handles the pre-checkout stock probe. The result is
// advisory; checkout re-checks under row locks.
func (h *InventoryHandler) CheckAvailability(c echo.Context) error {
	var req checkAvailabilityRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid availability input")
	}
	for i := range req.Items {
		req.Items[i].Size = sanitize.String(req.Items[i].Size)
		req.Items[i].Color = sanitize.String(req.Items[i].Color)
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	requests := make([]usecase.StockRequest, 0, len(req.Items))
	for _, item := range req.Items {
		requests = append(requests, usecase.StockRequest{
			ProductID: item.ProductID,
			Size:      item.Size,
			Color:     item.Color,
			Quantity:  item.Quantity,
		})
	}

	results, err := h.uc.CheckAvailability(c.Request().Context(), requests)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, results, "Availability checked")
}

type setStockRequest struct {
	Size          string `json:"size" validate:"required,max=20"`
	Color         string `json:"color" validate:"required,max=50"`
	Quantity      int    `json:"quantity" validate:"min=0"`
	ReorderLevel  int    `json:"reorderLevel" validate:"min=0"`
	MaxStockLevel int    `json:"maxStockLevel" validate:"min=0"`
	Location      string `json:"location" validate:"max=100"`
}

// SetStock handles the admin request to set a variant's stock level,
// creating the inventory row on first use.
func (h *InventoryHandler) SetStock(c echo.Context) error {
	var req setStockRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid stock input")
	}
	req.Size = sanitize.String(req.Size)
	req.Color = sanitize.String(req.Color)
	req.Location = sanitize.String(req.Location)
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	item, err := h.uc.SetStock(c.Request().Context(), usecase.SetStockInput{
		ProductID:     c.Param("productId"),
		Size:          req.Size,
		Color:         req.Color,
		Quantity:      req.Quantity,
		ReorderLevel:  req.ReorderLevel,
		MaxStockLevel: req.MaxStockLevel,
		Location:      req.Location,
		PerformedBy:   actorID(c),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, item, "Stock level set")
}

type adjustStockRequest struct {
	Size   string `json:"size" validate:"required,max=20"`
	Color  string `json:"color" validate:"required,max=50"`
	Delta  int    `json:"delta" validate:"required"`
	Reason string `json:"reason" validate:"required,max=200"`
}

// AdjustStock handles the admin request to apply a signed stock delta.
func (h *InventoryHandler) AdjustStock(c echo.Context) error {
	var req adjustStockRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid adjustment input")
	}
	req.Size = sanitize.String(req.Size)
	req.Color = sanitize.String(req.Color)
	req.Reason = sanitize.String(req.Reason)
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	item, err := h.uc.AdjustStock(c.Request().Context(), usecase.AdjustStockInput{
		ProductID:   c.Param("productId"),
		Size:        req.Size,
		Color:       req.Color,
		Delta:       req.Delta,
		Reason:      req.Reason,
		PerformedBy: actorID(c),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, item, "Stock adjusted")
}

// ListByProduct handles listing all variant stock rows for a product.
func (h *InventoryHandler) ListByProduct(c echo.Context) error {
	items, err := h.uc.ListByProduct(c.Request().Context(), c.Param("productId"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, items, "Inventory retrieved successfully")
}

// ListLowStock handles the admin low-stock report.
func (h *InventoryHandler) ListLowStock(c echo.Context) error {
	items, err := h.uc.ListLowStock(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, items, "Low-stock report retrieved")
}

type listMovementsRequest struct {
	Limit  int `query:"limit" validate:"omitempty,min=1,max=200"`
	Offset int `query:"offset" validate:"omitempty,min=0"`
}

// ListMovements handles the admin stock movement audit listing for one
// inventory row.
func (h *InventoryHandler) ListMovements(c echo.Context) error {
	var req listMovementsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid listing input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	movements, err := h.uc.ListMovements(c.Request().Context(), c.Param("inventoryId"), req.Limit, req.Offset)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, movements, "Stock movements retrieved")
}

// actorID returns the authenticated caller's ID for audit fields.
func actorID(c echo.Context) string {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		return ""
	}

	return userID.String()
}
