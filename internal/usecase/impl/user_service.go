// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/ratelimit"
	"storefront/internal/usecase"
	"storefront/internal/util"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// userService implements the UserUsecase interface.
type userService struct {
	txManager    repository.TransactionManager
	userRepo     repository.UserRepository
	authRepo     repository.AuthRepository
	hasher       service.PasswordHasher
	tokenService service.TokenService
	googleAuth   service.OAuthAuthService
	loginGuard   ratelimit.LoginGuard
	logger       *slog.Logger
}

// UserServiceParams holds dependencies for userService, injected by Fx.
type UserServiceParams struct {
	fx.In

	TxManager    repository.TransactionManager
	UserRepo     repository.UserRepository
	AuthRepo     repository.AuthRepository
	Hasher       service.PasswordHasher
	TokenService service.TokenService
	GoogleAuth   service.OAuthAuthService
	LoginGuard   ratelimit.LoginGuard
	Logger       *slog.Logger
}

// NewUserService is the constructor for userService. It receives all dependencies as interfaces.
func NewUserService(params UserServiceParams) usecase.UserUsecase {
	return &userService{
		txManager:    params.TxManager,
		userRepo:     params.UserRepo,
		authRepo:     params.AuthRepo,
		hasher:       params.Hasher,
		tokenService: params.TokenService,
		googleAuth:   params.GoogleAuth,
		loginGuard:   params.LoginGuard,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *userService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register orchestrates the complete user registration process.
func (srv *userService) Register(ctx context.Context, input usecase.RegisterUserInput) (*usecase.RegisterOutput, error) {
	email := normalizeEmail(input.Email)
	srv.log(ctx).Info("Starting registration", slog.String("email", email))

	if err := srv.hasher.ValidatePasswordStrength(input.Password); err != nil {
		srv.log(ctx).Warn("Password validation failed during registration", slog.String("email", email))

		return nil, errors.Wrap(domainerrors.ErrPasswordStrength, err.Error())
	}

	var registeredUser *entity.User
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()
		authRepo := repoFactory.AuthRepo()

		_, err := authRepo.FindAuthentication(ctx, entity.ProviderTypeEmail, email)
		if err == nil {
			return errors.Wrap(domainerrors.ErrUserAlreadyExists, "email already registered")
		}
		if !errors.Is(err, repository.ErrAuthNotFound) {
			return errors.Wrap(err, "failed to find authentication")
		}

		hashedPassword, err := srv.hasher.Hash(input.Password)
		if err != nil {
			return errors.Wrap(err, "failed to hash password during registration")
		}

		newUser := &entity.User{
			Name:  input.Name,
			Email: email,
			Role:  entity.RoleUser,
		}
		if err := userRepo.Create(ctx, newUser); err != nil {
			return errors.Wrap(err, "failed to create user during registration")
		}

		newAuth := &entity.Authentication{
			UserID:         newUser.ID,
			Provider:       entity.ProviderTypeEmail,
			ProviderUserID: email,
			PasswordHash:   hashedPassword,
		}
		if err := authRepo.CreateAuthentication(ctx, newAuth); err != nil {
			return errors.Wrap(err, "failed to create authentication during registration")
		}

		registeredUser = newUser

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to execute registration transaction", slog.String("email", email), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute user registration transaction")
	}

	srv.log(ctx).Debug("Registration completed", slog.Any("userID", registeredUser.ID))

	return &usecase.RegisterOutput{User: registeredUser}, nil
}

// Login verifies email/password credentials and opens a new session.
// Failed attempts count against a per-identifier guard; a successful login
// clears the identifier's history.
func (srv *userService) Login(ctx context.Context, input usecase.LoginInput) (*usecase.LoginOutput, error) {
	email := normalizeEmail(input.Email)
	guardKey := email + "|" + input.ClientIP

	if decision := srv.loginGuard.Check(guardKey); !decision.Allowed {
		srv.log(ctx).Warn("Login attempts exceeded", slog.String("email", email), slog.String("ip", input.ClientIP))

		return nil, domainerrors.ErrTooManyAttempts.WithDetails(
			"retry after " + util.FormatDuration(decision.RetryAfter))
	}

	authRecord, err := srv.authRepo.FindAuthentication(ctx, entity.ProviderTypeEmail, email)
	if err != nil {
		if errors.Is(err, repository.ErrAuthNotFound) {
			return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "unknown email")
		}

		return nil, errors.Wrap(err, "failed to find authentication")
	}

	if !srv.hasher.Check(input.Password, authRecord.PasswordHash) {
		srv.log(ctx).Warn("Password mismatch during login", slog.String("email", email))

		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "password mismatch")
	}

	user, err := srv.userRepo.FindByID(ctx, authRecord.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load user for login")
	}

	output, err := srv.openSession(ctx, user)
	if err != nil {
		return nil, err
	}

	srv.loginGuard.Reset(guardKey)
	srv.log(ctx).Info("Login succeeded", slog.Any("userID", user.ID))

	return output, nil
}

// LoginWithGoogle verifies a Google ID token, provisioning an account on
// first sign-in, and opens a new session.
func (srv *userService) LoginWithGoogle(ctx context.Context, input usecase.GoogleLoginInput) (*usecase.LoginOutput, error) {
	oauthUser, err := srv.googleAuth.VerifyIDToken(ctx, input.IDToken)
	if err != nil {
		srv.log(ctx).Warn("Google ID token rejected", slog.Any("error", err))

		return nil, errors.Wrap(domainerrors.ErrOAuthTokenInvalid, "google token verification failed")
	}
	if !oauthUser.EmailVerified {
		return nil, errors.Wrap(domainerrors.ErrOAuthTokenInvalid, "google account email not verified")
	}

	var user *entity.User
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()
		authRepo := repoFactory.AuthRepo()

		authRecord, err := authRepo.FindAuthentication(ctx, entity.ProviderTypeGoogle, oauthUser.ID)
		if err == nil {
			user, err = userRepo.FindByID(ctx, authRecord.UserID)

			return errors.Wrap(err, "failed to load user for google login")
		}
		if !errors.Is(err, repository.ErrAuthNotFound) {
			return errors.Wrap(err, "failed to find google authentication")
		}

		// First sign-in with this Google account.
		user = &entity.User{
			Name:  oauthUser.Name,
			Email: normalizeEmail(oauthUser.Email),
			Role:  entity.RoleUser,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			return errors.Wrap(err, "failed to create user for google login")
		}

		newAuth := &entity.Authentication{
			UserID:         user.ID,
			Provider:       entity.ProviderTypeGoogle,
			ProviderUserID: oauthUser.ID,
		}

		return errors.Wrap(authRepo.CreateAuthentication(ctx, newAuth), "failed to link google account")
	})
	if err != nil {
		srv.log(ctx).Error("Failed to execute google login transaction", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute google login transaction")
	}

	return srv.openSession(ctx, user)
}

// RefreshToken rotates a refresh token: the presented token is revoked and
// a fresh pair is issued.
func (srv *userService) RefreshToken(ctx context.Context, input usecase.RefreshTokenInput) (*usecase.LoginOutput, error) {
	claims, err := srv.tokenService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrRefreshTokenInvalid, "refresh token validation failed")
	}

	tokenHash := util.HashToken(input.RefreshToken)

	var user *entity.User
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		authRepo := repoFactory.AuthRepo()

		stored, err := authRepo.FindRefreshTokenByHash(ctx, tokenHash)
		if err != nil {
			if errors.Is(err, repository.ErrRefreshTokenNotFound) {
				return errors.Wrap(domainerrors.ErrRefreshTokenInvalid, "refresh token not found or expired")
			}

			return errors.Wrap(err, "failed to find refresh token")
		}
		if stored.UserID != claims.UserID {
			return errors.Wrap(domainerrors.ErrRefreshTokenInvalid, "refresh token subject mismatch")
		}

		if err := authRepo.DeleteRefreshTokenByHash(ctx, tokenHash); err != nil {
			return errors.Wrap(err, "failed to revoke refresh token")
		}

		user, err = repoFactory.UserRepo().FindByID(ctx, stored.UserID)

		return errors.Wrap(err, "failed to load user for token refresh")
	})
	if err != nil {
		srv.log(ctx).Warn("Failed to rotate refresh token", slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to rotate refresh token")
	}

	return srv.openSession(ctx, user)
}

// Logout revokes the presented refresh token. Unknown tokens are treated as
// already logged out.
func (srv *userService) Logout(ctx context.Context, refreshToken string) error {
	err := srv.authRepo.DeleteRefreshTokenByHash(ctx, util.HashToken(refreshToken))
	if err != nil && !errors.Is(err, repository.ErrRefreshTokenNotFound) {
		return errors.Wrap(err, "failed to delete refresh token")
	}

	return nil
}

// GetUser retrieves a single user by ID.
func (srv *userService) GetUser(ctx context.Context, id string) (*entity.User, error) {
	userID, err := parseID(id)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrUserNotFound, "invalid user id")
	}

	user, err := srv.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.Wrap(domainerrors.ErrUserNotFound, "user lookup failed")
		}

		return nil, errors.Wrap(err, "failed to find user")
	}

	return user, nil
}

// ListUsers retrieves users for the admin listing, newest first.
func (srv *userService) ListUsers(ctx context.Context, input usecase.ListUsersInput) ([]*entity.User, error) {
	users, err := srv.userRepo.List(ctx, normalizeLimit(input.Limit), input.Offset)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list users")
	}

	return users, nil
}

// UpdateUser applies the non-nil fields of input to the user profile.
func (srv *userService) UpdateUser(ctx context.Context, id string, input usecase.UpdateUserInput) (*entity.User, error) {
	userID, err := parseID(id)
	if err != nil {
		return nil, errors.Wrap(domainerrors.ErrUserNotFound, "invalid user id")
	}

	var updated *entity.User
	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		user, err := userRepo.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return errors.Wrap(domainerrors.ErrUserNotFound, "user lookup failed")
			}

			return errors.Wrap(err, "failed to find user")
		}

		if input.Name != nil {
			user.Name = *input.Name
		}
		if input.DeviceToken != nil {
			user.DeviceToken = *input.DeviceToken
		}

		if err := userRepo.Update(ctx, user); err != nil {
			return errors.Wrap(err, "failed to update user")
		}

		updated = user

		return nil
	})
	if err != nil {
		srv.log(ctx).Error("Failed to update user", slog.Any("userID", userID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to execute user update transaction")
	}

	return updated, nil
}

// DeleteUser removes a user account together with its cart, credentials and sessions.
func (srv *userService) DeleteUser(ctx context.Context, id string) error {
	userID, err := parseID(id)
	if err != nil {
		return errors.Wrap(domainerrors.ErrUserNotFound, "invalid user id")
	}

	srv.log(ctx).Info("Deleting user", slog.Any("userID", userID))

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		if _, err := userRepo.FindByID(ctx, userID); err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return errors.Wrap(domainerrors.ErrUserNotFound, "user lookup failed")
			}

			return errors.Wrap(err, "failed to find user")
		}

		if err := repoFactory.CartRepo().DeleteByUser(ctx, userID); err != nil {
			return errors.Wrap(err, "failed to clear cart during user deletion")
		}

		return errors.Wrap(userRepo.Delete(ctx, userID), "failed to delete user")
	})
	if err != nil {
		srv.log(ctx).Error("Failed to delete user", slog.Any("userID", userID), slog.Any("error", err))

		return errors.Wrap(err, "failed to execute user deletion transaction")
	}

	return nil
}

// openSession issues a token pair for the user and persists the refresh
// token hash.
func (srv *userService) openSession(ctx context.Context, user *entity.User) (*usecase.LoginOutput, error) {
	accessToken, refreshToken, err := srv.tokenService.GenerateTokens(user.ID, string(user.Role))
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate tokens")
	}

	session := &entity.RefreshToken{
		UserID:    user.ID,
		TokenHash: util.HashToken(refreshToken),
		ExpiresAt: time.Now().Add(srv.tokenService.GetRefreshTokenDuration()),
	}
	if err := srv.authRepo.CreateRefreshToken(ctx, session); err != nil {
		return nil, errors.Wrap(err, "failed to persist refresh token")
	}

	return &usecase.LoginOutput{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func parseID(id string) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(id))
}

const defaultPageSize = 50

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > 200 {
		return defaultPageSize
	}

	return limit
}
