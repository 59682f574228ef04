package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/service"
	mockSvc "storefront/internal/mocks/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthTestContext(t *testing.T, authHeader string) echo.Context {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	return e.NewContext(req, httptest.NewRecorder())
}

func okHandler(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func assertHTTPCode(t *testing.T, err error, wantCode int) {
	t.Helper()

	var appErr domainerrors.AppError
	require.True(t, errors.As(err, &appErr), "expected an application error, got %v", err)
	assert.Equal(t, wantCode, appErr.HTTPCode())
}

func TestAuthMiddleware_Authenticate_MissingHeader(t *testing.T) {
	m := NewAuthMiddleware(mockSvc.NewMockTokenService(t))
	c := newAuthTestContext(t, "")

	err := m.Authenticate(okHandler)(c)
	assertHTTPCode(t, err, http.StatusUnauthorized)
}

func TestAuthMiddleware_Authenticate_NotBearer(t *testing.T) {
	m := NewAuthMiddleware(mockSvc.NewMockTokenService(t))
	c := newAuthTestContext(t, "Basic dXNlcjpwYXNz")

	err := m.Authenticate(okHandler)(c)
	assertHTTPCode(t, err, http.StatusUnauthorized)
}

func TestAuthMiddleware_Authenticate_TokenLengthBounds(t *testing.T) {
	m := NewAuthMiddleware(mockSvc.NewMockTokenService(t))

	err := m.Authenticate(okHandler)(newAuthTestContext(t, "Bearer short"))
	assertHTTPCode(t, err, http.StatusUnauthorized)

	oversized := strings.Repeat("x", maxTokenLength+1)
	err = m.Authenticate(okHandler)(newAuthTestContext(t, "Bearer "+oversized))
	assertHTTPCode(t, err, http.StatusUnauthorized)
}

func TestAuthMiddleware_Authenticate_InvalidToken(t *testing.T) {
	tokenSvc := mockSvc.NewMockTokenService(t)
	tokenSvc.On("ValidateAccessToken", "this-token-is-long-enough").
		Return(nil, errors.New("token is expired"))

	m := NewAuthMiddleware(tokenSvc)
	c := newAuthTestContext(t, "Bearer this-token-is-long-enough")

	err := m.Authenticate(okHandler)(c)
	assertHTTPCode(t, err, http.StatusUnauthorized)
}

func TestAuthMiddleware_Authenticate_StoresIdentity(t *testing.T) {
	userID := uuid.New()
	tokenSvc := mockSvc.NewMockTokenService(t)
	tokenSvc.On("ValidateAccessToken", "this-token-is-long-enough").
		Return(&service.Claims{UserID: userID, Role: "admin", Type: "access"}, nil)

	m := NewAuthMiddleware(tokenSvc)
	c := newAuthTestContext(t, "Bearer this-token-is-long-enough")

	err := m.Authenticate(okHandler)(c)
	require.NoError(t, err)

	gotID, ok := CurrentUserID(c)
	require.True(t, ok)
	assert.Equal(t, userID, gotID)

	gotRole, ok := CurrentRole(c)
	require.True(t, ok)
	assert.Equal(t, entity.RoleAdmin, gotRole)
}

func TestAuthMiddleware_RequireAdmin(t *testing.T) {
	m := NewAuthMiddleware(mockSvc.NewMockTokenService(t))

	c := newAuthTestContext(t, "")
	c.Set(ContextKeyUserID, uuid.New())
	c.Set(ContextKeyRole, "admin")
	assert.NoError(t, m.RequireAdmin(okHandler)(c))

	c = newAuthTestContext(t, "")
	c.Set(ContextKeyUserID, uuid.New())
	c.Set(ContextKeyRole, "user")
	assertHTTPCode(t, m.RequireAdmin(okHandler)(c), http.StatusForbidden)

	// Role information missing entirely.
	c = newAuthTestContext(t, "")
	assertHTTPCode(t, m.RequireAdmin(okHandler)(c), http.StatusForbidden)
}

func newOwnerTestContext(t *testing.T, pathUserID string) echo.Context {
	t.Helper()

	c := newAuthTestContext(t, "")
	c.SetParamNames("userId")
	c.SetParamValues(pathUserID)

	return c
}

func TestAuthMiddleware_RequireOwnerOrAdmin_Owner(t *testing.T) {
	m := NewAuthMiddleware(mockSvc.NewMockTokenService(t))
	userID := uuid.New()

	c := newOwnerTestContext(t, userID.String())
	c.Set(ContextKeyUserID, userID)
	c.Set(ContextKeyRole, "user")

	assert.NoError(t, m.RequireOwnerOrAdmin("userId")(okHandler)(c))
}

func TestAuthMiddleware_RequireOwnerOrAdmin_Admin(t *testing.T) {
	m := NewAuthMiddleware(mockSvc.NewMockTokenService(t))

	// Admins may touch any user's resources.
	c := newOwnerTestContext(t, uuid.New().String())
	c.Set(ContextKeyUserID, uuid.New())
	c.Set(ContextKeyRole, "admin")

	assert.NoError(t, m.RequireOwnerOrAdmin("userId")(okHandler)(c))
}

func TestAuthMiddleware_RequireOwnerOrAdmin_OtherUser(t *testing.T) {
	m := NewAuthMiddleware(mockSvc.NewMockTokenService(t))

	c := newOwnerTestContext(t, uuid.New().String())
	c.Set(ContextKeyUserID, uuid.New())
	c.Set(ContextKeyRole, "user")

	assertHTTPCode(t, m.RequireOwnerOrAdmin("userId")(okHandler)(c), http.StatusForbidden)
}

func TestAuthMiddleware_RequireOwnerOrAdmin_BadPathID(t *testing.T) {
	m := NewAuthMiddleware(mockSvc.NewMockTokenService(t))

	c := newOwnerTestContext(t, "not-a-uuid")
	c.Set(ContextKeyUserID, uuid.New())
	c.Set(ContextKeyRole, "user")

	assertHTTPCode(t, m.RequireOwnerOrAdmin("userId")(okHandler)(c), http.StatusBadRequest)
}
