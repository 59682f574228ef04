package repository

import (
	"context"
	"errors"

	"storefront/internal/domain/entity"
)

// ErrAuthNotFound is returned when no authentication record matches.
var ErrAuthNotFound = errors.New("authentication not found")

// ErrRefreshTokenNotFound is returned when no stored refresh token matches.
var ErrRefreshTokenNotFound = errors.New("refresh token not found")

// AuthRepository persists login credentials and refresh-token sessions.
type AuthRepository interface {
	// FindAuthentication looks up a credential by provider and provider-side user ID.
	// For the "email" provider the provider user ID is the email address itself.
	FindAuthentication(ctx context.Context, provider, providerUserID string) (*entity.Authentication, error)

	// CreateAuthentication persists a new credential.
	CreateAuthentication(ctx context.Context, auth *entity.Authentication) error

	// CreateRefreshToken persists a new refresh-token session.
	CreateRefreshToken(ctx context.Context, token *entity.RefreshToken) error

	// FindRefreshTokenByHash retrieves a non-expired refresh token by its SHA-256 hash.
	FindRefreshTokenByHash(ctx context.Context, tokenHash string) (*entity.RefreshToken, error)

	// DeleteRefreshTokenByHash removes a refresh-token session.
	DeleteRefreshTokenByHash(ctx context.Context, tokenHash string) error
}
