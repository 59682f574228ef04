package middleware

import (
	"strings"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Sanity bounds on the presented token, checked before any parsing.
const (
	minTokenLength = 20
	maxTokenLength = 2048
)

// Context keys populated by Authenticate for downstream handlers.
const (
	ContextKeyUserID = "userID"
	ContextKeyRole   = "userRole"
)

// AuthMiddleware provides middleware for JWT authentication and authorization.
type AuthMiddleware struct {
	tokenSvc service.TokenService
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc}
}

// Authenticate validates the bearer access token and stores the caller's
// identity on the request context.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return domainerrors.ErrInvalidCredentials.WrapMessage("Authorization header is missing")
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return domainerrors.ErrInvalidCredentials.WrapMessage("Invalid token format, must be Bearer token")
		}

		if len(tokenString) < minTokenLength || len(tokenString) > maxTokenLength {
			return domainerrors.ErrInvalidCredentials.WrapMessage("Invalid token format")
		}

		claims, err := m.tokenSvc.ValidateAccessToken(tokenString)
		if err != nil {
			return domainerrors.ErrInvalidCredentials.WrapMessage("Invalid or expired token")
		}

		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyRole, claims.Role)

		return next(c)
	}
}

// RequireAdmin rejects callers without the admin role.
// It must be used AFTER the Authenticate middleware.
func (m *AuthMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !isAdmin(c) {
			return domainerrors.ErrForbidden.WrapMessage("Admin access required")
		}

		return next(c)
	}
}

// RequireOwnerOrAdmin allows the request when the authenticated user matches
// the user ID in the named path parameter, or when the caller is an admin.
// It must be used AFTER the Authenticate middleware.
func (m *AuthMiddleware) RequireOwnerOrAdmin(paramName string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if isAdmin(c) {
				return next(c)
			}

			userID, ok := CurrentUserID(c)
			if !ok {
				return domainerrors.ErrForbidden.WrapMessage("Identity information missing")
			}

			resourceID, err := uuid.Parse(c.Param(paramName))
			if err != nil {
				return domainerrors.ErrValidationFailed.WithDetails("invalid user id in path")
			}

			if userID != resourceID {
				return domainerrors.ErrForbidden.WrapMessage("You may only access your own resources")
			}

			return next(c)
		}
	}
}

// CurrentUserID returns the authenticated user's ID from the request context.
func CurrentUserID(c echo.Context) (uuid.UUID, bool) {
	userID, ok := c.Get(ContextKeyUserID).(uuid.UUID)

	return userID, ok
}

// CurrentRole returns the authenticated user's role from the request context.
func CurrentRole(c echo.Context) (entity.Role, bool) {
	role, ok := c.Get(ContextKeyRole).(string)
	if !ok {
		return "", false
	}

	return entity.Role(role), true
}

func isAdmin(c echo.Context) bool {
	role, ok := CurrentRole(c)

	return ok && role == entity.RoleAdmin
}
