package impl

import (
	"context"
	"testing"
	"time"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	mockRepo "storefront/internal/mocks/repository"
	mockSvc "storefront/internal/mocks/service"
	"storefront/internal/usecase"
	"storefront/internal/util"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type userServiceMocks struct {
	userRepo *mockRepo.MockUserRepository
	authRepo *mockRepo.MockAuthRepository
	cartRepo *mockRepo.MockCartRepository
	hasher   *mockSvc.MockPasswordHasher
	tokenSvc *mockSvc.MockTokenService
	oauth    *mockSvc.MockOAuthAuthService
}

func newUserServiceForTest(t *testing.T) (*userService, userServiceMocks) {
	m := userServiceMocks{
		userRepo: mockRepo.NewMockUserRepository(t),
		authRepo: mockRepo.NewMockAuthRepository(t),
		cartRepo: mockRepo.NewMockCartRepository(t),
		hasher:   mockSvc.NewMockPasswordHasher(t),
		tokenSvc: mockSvc.NewMockTokenService(t),
		oauth:    mockSvc.NewMockOAuthAuthService(t),
	}
	factory := &mockRepo.StubFactory{Users: m.userRepo, Auths: m.authRepo, Carts: m.cartRepo}

	svc := NewUserService(UserServiceParams{
		TxManager:    newStubTx(factory),
		UserRepo:     m.userRepo,
		AuthRepo:     m.authRepo,
		Hasher:       m.hasher,
		TokenService: m.tokenSvc,
		GoogleAuth:   m.oauth,
		LoginGuard:   newTestLoginGuard(),
		Logger:       newDiscardLogger(),
	})

	return svc.(*userService), m
}

// expectSession covers the token pair issued after any successful login.
func expectSession(m userServiceMocks, userID uuid.UUID, role string) {
	m.tokenSvc.On("GenerateTokens", userID, role).Return("access-token", "refresh-token", nil)
	m.tokenSvc.On("GetRefreshTokenDuration").Return(time.Hour)
	m.authRepo.On("CreateRefreshToken", mock.Anything, mock.MatchedBy(func(rt *entity.RefreshToken) bool {
		return rt.UserID == userID && rt.TokenHash == util.HashToken("refresh-token")
	})).Return(nil)
}

func TestUserService_Register_Success(t *testing.T) {
	svc, m := newUserServiceForTest(t)

	m.hasher.On("ValidatePasswordStrength", "Sup3rSecret").Return(nil)
	m.authRepo.On("FindAuthentication", mock.Anything, entity.ProviderTypeEmail, "alice@example.com").
		Return(nil, repository.ErrAuthNotFound)
	m.hasher.On("Hash", "Sup3rSecret").Return("$2a$hashed", nil)
	m.userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *entity.User) bool {
		return u.Email == "alice@example.com" && u.Role == entity.RoleUser
	})).Return(nil)
	m.authRepo.On("CreateAuthentication", mock.Anything, mock.MatchedBy(func(a *entity.Authentication) bool {
		return a.Provider == entity.ProviderTypeEmail && a.PasswordHash == "$2a$hashed"
	})).Return(nil)

	out, err := svc.Register(context.Background(), usecase.RegisterUserInput{
		Name:     "Alice",
		Email:    "  Alice@Example.com ", // must be normalized
		Password: "Sup3rSecret",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", out.User.Email)
	assert.Equal(t, entity.RoleUser, out.User.Role)
}

func TestUserService_Register_WeakPassword(t *testing.T) {
	svc, m := newUserServiceForTest(t)

	m.hasher.On("ValidatePasswordStrength", "weak").Return(errors.New("must contain a digit"))

	_, err := svc.Register(context.Background(), usecase.RegisterUserInput{
		Name: "Alice", Email: "alice@example.com", Password: "weak",
	})
	assert.True(t, errors.Is(err, domainerrors.ErrPasswordStrength))
}

func TestUserService_Register_DuplicateEmail(t *testing.T) {
	svc, m := newUserServiceForTest(t)

	m.hasher.On("ValidatePasswordStrength", "Sup3rSecret").Return(nil)
	m.authRepo.On("FindAuthentication", mock.Anything, entity.ProviderTypeEmail, "alice@example.com").
		Return(&entity.Authentication{}, nil)

	_, err := svc.Register(context.Background(), usecase.RegisterUserInput{
		Name: "Alice", Email: "alice@example.com", Password: "Sup3rSecret",
	})
	assert.True(t, errors.Is(err, domainerrors.ErrUserAlreadyExists))
}

func TestUserService_Login_Success(t *testing.T) {
	svc, m := newUserServiceForTest(t)

	userID := uuid.New()
	user := &entity.User{ID: userID, Email: "alice@example.com", Role: entity.RoleUser}

	m.authRepo.On("FindAuthentication", mock.Anything, entity.ProviderTypeEmail, "alice@example.com").
		Return(&entity.Authentication{UserID: userID, PasswordHash: "$2a$hashed"}, nil)
	m.hasher.On("Check", "Sup3rSecret", "$2a$hashed").Return(true)
	m.userRepo.On("FindByID", mock.Anything, userID).Return(user, nil)
	expectSession(m, userID, "user")

	out, err := svc.Login(context.Background(), usecase.LoginInput{
		Email: "alice@example.com", Password: "Sup3rSecret", ClientIP: "10.0.0.1",
	})
	require.NoError(t, err)
	assert.Equal(t, "access-token", out.AccessToken)
	assert.Equal(t, "refresh-token", out.RefreshToken)
	assert.Equal(t, user, out.User)
}

func TestUserService_Login_WrongPassword(t *testing.T) {
	svc, m := newUserServiceForTest(t)

	m.authRepo.On("FindAuthentication", mock.Anything, entity.ProviderTypeEmail, "alice@example.com").
		Return(&entity.Authentication{UserID: uuid.New(), PasswordHash: "$2a$hashed"}, nil)
	m.hasher.On("Check", "nope", "$2a$hashed").Return(false)

	_, err := svc.Login(context.Background(), usecase.LoginInput{
		Email: "alice@example.com", Password: "nope", ClientIP: "10.0.0.1",
	})
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestUserService_Login_GuardBlocksRepeatedFailures(t *testing.T) {
	svc, m := newUserServiceForTest(t)

	m.authRepo.On("FindAuthentication", mock.Anything, entity.ProviderTypeEmail, "alice@example.com").
		Return(nil, repository.ErrAuthNotFound)

	input := usecase.LoginInput{Email: "alice@example.com", Password: "nope", ClientIP: "10.0.0.1"}

	// The guard allows three attempts, then blocks.
	for range 3 {
		_, err := svc.Login(context.Background(), input)
		assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
	}

	_, err := svc.Login(context.Background(), input)
	assert.True(t, errors.Is(err, domainerrors.ErrTooManyAttempts))

	// A different client IP gets its own budget.
	other := input
	other.ClientIP = "10.0.0.2"
	_, err = svc.Login(context.Background(), other)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestUserService_Login_SuccessResetsGuard(t *testing.T) {
	svc, m := newUserServiceForTest(t)

	userID := uuid.New()
	user := &entity.User{ID: userID, Email: "alice@example.com", Role: entity.RoleUser}

	m.authRepo.On("FindAuthentication", mock.Anything, entity.ProviderTypeEmail, "alice@example.com").
		Return(&entity.Authentication{UserID: userID, PasswordHash: "$2a$hashed"}, nil)
	m.hasher.On("Check", "nope", "$2a$hashed").Return(false)
	m.hasher.On("Check", "Sup3rSecret", "$2a$hashed").Return(true)
	m.userRepo.On("FindByID", mock.Anything, userID).Return(user, nil)
	expectSession(m, userID, "user")

	input := usecase.LoginInput{Email: "alice@example.com", Password: "nope", ClientIP: "10.0.0.1"}
	for range 2 {
		_, err := svc.Login(context.Background(), input)
		require.Error(t, err)
	}

	input.Password = "Sup3rSecret"
	_, err := svc.Login(context.Background(), input)
	require.NoError(t, err)

	// After the reset the failure counter starts over.
	input.Password = "nope"
	_, err = svc.Login(context.Background(), input)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidCredentials))
}

func TestUserService_RefreshToken_RotatesSession(t *testing.T) {
	svc, m := newUserServiceForTest(t)

	userID := uuid.New()
	user := &entity.User{ID: userID, Role: entity.RoleUser}
	tokenHash := util.HashToken("old-refresh-token")

	m.tokenSvc.On("ValidateRefreshToken", "old-refresh-token").
		Return(&service.Claims{UserID: userID, Type: "refresh"}, nil)
	m.authRepo.On("FindRefreshTokenByHash", mock.Anything, tokenHash).
		Return(&entity.RefreshToken{UserID: userID, TokenHash: tokenHash}, nil)
	m.authRepo.On("DeleteRefreshTokenByHash", mock.Anything, tokenHash).Return(nil)
	m.userRepo.On("FindByID", mock.Anything, userID).Return(user, nil)
	expectSession(m, userID, "user")

	out, err := svc.RefreshToken(context.Background(), usecase.RefreshTokenInput{RefreshToken: "old-refresh-token"})
	require.NoError(t, err)
	assert.Equal(t, "refresh-token", out.RefreshToken)
}

func TestUserService_RefreshToken_SubjectMismatch(t *testing.T) {
	svc, m := newUserServiceForTest(t)

	tokenHash := util.HashToken("stolen-token")

	m.tokenSvc.On("ValidateRefreshToken", "stolen-token").
		Return(&service.Claims{UserID: uuid.New(), Type: "refresh"}, nil)
	m.authRepo.On("FindRefreshTokenByHash", mock.Anything, tokenHash).
		Return(&entity.RefreshToken{UserID: uuid.New(), TokenHash: tokenHash}, nil)

	_, err := svc.RefreshToken(context.Background(), usecase.RefreshTokenInput{RefreshToken: "stolen-token"})
	assert.True(t, errors.Is(err, domainerrors.ErrRefreshTokenInvalid))
}

func TestUserService_Logout_UnknownTokenIsIdempotent(t *testing.T) {
	svc, m := newUserServiceForTest(t)

	m.authRepo.On("DeleteRefreshTokenByHash", mock.Anything, util.HashToken("gone")).
		Return(repository.ErrRefreshTokenNotFound)

	assert.NoError(t, svc.Logout(context.Background(), "gone"))
}

func TestUserService_LoginWithGoogle_FirstSignInProvisionsAccount(t *testing.T) {
	svc, m := newUserServiceForTest(t)

	m.oauth.On("VerifyIDToken", mock.Anything, "google-id-token").Return(&service.OAuthUser{
		ID: "google-sub-123", Email: "Bob@Example.com", Name: "Bob", EmailVerified: true,
	}, nil)
	m.authRepo.On("FindAuthentication", mock.Anything, entity.ProviderTypeGoogle, "google-sub-123").
		Return(nil, repository.ErrAuthNotFound)
	m.userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *entity.User) bool {
		return u.Email == "bob@example.com" && u.Role == entity.RoleUser
	})).Return(nil)
	m.authRepo.On("CreateAuthentication", mock.Anything, mock.MatchedBy(func(a *entity.Authentication) bool {
		return a.Provider == entity.ProviderTypeGoogle && a.ProviderUserID == "google-sub-123"
	})).Return(nil)
	m.tokenSvc.On("GenerateTokens", mock.Anything, "user").Return("access-token", "refresh-token", nil)
	m.tokenSvc.On("GetRefreshTokenDuration").Return(time.Hour)
	m.authRepo.On("CreateRefreshToken", mock.Anything, mock.Anything).Return(nil)

	out, err := svc.LoginWithGoogle(context.Background(), usecase.GoogleLoginInput{IDToken: "google-id-token"})
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", out.User.Email)
}

func TestUserService_LoginWithGoogle_UnverifiedEmail(t *testing.T) {
	svc, m := newUserServiceForTest(t)

	m.oauth.On("VerifyIDToken", mock.Anything, "google-id-token").Return(&service.OAuthUser{
		ID: "google-sub-123", Email: "bob@example.com", EmailVerified: false,
	}, nil)

	_, err := svc.LoginWithGoogle(context.Background(), usecase.GoogleLoginInput{IDToken: "google-id-token"})
	assert.True(t, errors.Is(err, domainerrors.ErrOAuthTokenInvalid))
}

func TestUserService_DeleteUser_ClearsCart(t *testing.T) {
	svc, m := newUserServiceForTest(t)

	userID := uuid.New()
	m.userRepo.On("FindByID", mock.Anything, userID).Return(&entity.User{ID: userID}, nil)
	m.cartRepo.On("DeleteByUser", mock.Anything, userID).Return(nil)
	m.userRepo.On("Delete", mock.Anything, userID).Return(nil)

	assert.NoError(t, svc.DeleteUser(context.Background(), userID.String()))
}
