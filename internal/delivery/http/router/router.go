// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"storefront/internal/delivery/http/middleware"
	"storefront/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// RouterParams holds every handler and middleware the router mounts,
// injected by Fx.
type RouterParams struct {
	fx.In

	UserHandler      *handler.UserHandler
	ProductHandler   *handler.ProductHandler
	CartHandler      *handler.CartHandler
	InventoryHandler *handler.InventoryHandler
	PurchaseHandler  *handler.PurchaseHandler

	AuthMiddleware      *middleware.AuthMiddleware
	RateLimitMiddleware *middleware.RateLimitMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	params RouterParams
}

// NewRouter is the constructor for the Router.
func NewRouter(params RouterParams) *router {
	return &router{params: params}
}

// RegisterRoutes sets up all the API routes for the application.
// Every route carries a rate-limit class; protected routes additionally
// carry Authenticate plus an ownership or role predicate.
func (r *router) RegisterRoutes(e *echo.Echo) {
	authn := r.params.AuthMiddleware
	limits := r.params.RateLimitMiddleware

	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Session and registration routes, limited tightest.
	authGroup := e.Group("/api/auth", limits.Auth)
	{
		authGroup.POST("/register", r.params.UserHandler.Register)
		authGroup.POST("/login", r.params.UserHandler.Login)
		authGroup.POST("/google", r.params.UserHandler.GoogleLogin)
		authGroup.POST("/refresh", r.params.UserHandler.RefreshToken)
		authGroup.POST("/logout", r.params.UserHandler.Logout)
	}

	// Public catalogue and tracking.
	e.GET("/api/products", r.params.ProductHandler.ListProducts, limits.Public)
	e.GET("/api/products/:productId", r.params.ProductHandler.GetProduct, limits.Public)
	e.GET("/api/products/:productId/inventory", r.params.InventoryHandler.ListByProduct, limits.Public)
	e.POST("/api/inventory/check", r.params.InventoryHandler.CheckAvailability, limits.Public)
	e.GET("/api/track/:trackingNumber", r.params.PurchaseHandler.Track, limits.Public)

	// Catalogue and stock administration.
	adminProducts := e.Group("/api/products", authn.Authenticate, authn.RequireAdmin)
	{
		adminProducts.POST("", r.params.ProductHandler.CreateProduct, limits.Mutate)
		adminProducts.PUT("/:productId", r.params.ProductHandler.UpdateProduct, limits.Mutate)
		adminProducts.DELETE("/:productId", r.params.ProductHandler.DeleteProduct, limits.Destructive)
		adminProducts.POST("/:productId/image", r.params.ProductHandler.UploadImage, limits.Mutate)
		adminProducts.PUT("/:productId/inventory", r.params.InventoryHandler.SetStock, limits.Mutate)
		adminProducts.POST("/:productId/inventory/adjust", r.params.InventoryHandler.AdjustStock, limits.Mutate)
	}

	adminInventory := e.Group("/api/inventory", authn.Authenticate, authn.RequireAdmin)
	{
		adminInventory.GET("/low-stock", r.params.InventoryHandler.ListLowStock, limits.Public)
		adminInventory.GET("/:inventoryId/movements", r.params.InventoryHandler.ListMovements, limits.Public)
	}

	// Account routes. Listing is admin-only; the rest require the caller
	// to be the owner or an admin.
	userGroup := e.Group("/api/users", authn.Authenticate)
	{
		userGroup.GET("", r.params.UserHandler.ListUsers, authn.RequireAdmin, limits.Public)
		userGroup.GET("/:userId", r.params.UserHandler.GetUser, authn.RequireOwnerOrAdmin("userId"), limits.Public)
		userGroup.PUT("/:userId", r.params.UserHandler.UpdateUser, authn.RequireOwnerOrAdmin("userId"), limits.Mutate)
		userGroup.DELETE("/:userId", r.params.UserHandler.DeleteUser, authn.RequireOwnerOrAdmin("userId"), limits.Destructive)
	}

	// Cart routes, all scoped to the owning user.
	cartGroup := e.Group("/api/cart/:userId", authn.Authenticate, authn.RequireOwnerOrAdmin("userId"))
	{
		cartGroup.GET("", r.params.CartHandler.GetCart, limits.Public)
		cartGroup.POST("/items", r.params.CartHandler.AddItem, limits.Mutate)
		cartGroup.PUT("/items/:itemId", r.params.CartHandler.UpdateItem, limits.Mutate)
		cartGroup.DELETE("/items/:itemId", r.params.CartHandler.RemoveItem, limits.Mutate)
		cartGroup.DELETE("", r.params.CartHandler.ClearCart, limits.Destructive)
	}

	// Order routes. Ownership of individual orders is checked in the
	// handler after the purchase is loaded.
	purchaseGroup := e.Group("/api/purchases", authn.Authenticate)
	{
		purchaseGroup.POST("/checkout", r.params.PurchaseHandler.Checkout, limits.Mutate)
		purchaseGroup.GET("", r.params.PurchaseHandler.ListPurchases, limits.Public)
		purchaseGroup.GET("/stats", r.params.PurchaseHandler.Stats, authn.RequireAdmin, limits.Public)
		purchaseGroup.GET("/:purchaseId", r.params.PurchaseHandler.GetPurchase, limits.Public)
		purchaseGroup.PUT("/:purchaseId/status", r.params.PurchaseHandler.UpdateStatus, authn.RequireAdmin, limits.Mutate)
		purchaseGroup.POST("/:purchaseId/cancel", r.params.PurchaseHandler.CancelPurchase, limits.Mutate)
		purchaseGroup.DELETE("/:purchaseId", r.params.PurchaseHandler.DeletePurchase, authn.RequireAdmin, limits.Destructive)
	}
}
