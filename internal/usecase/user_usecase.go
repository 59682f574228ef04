// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"storefront/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterUserInput defines the data required to register a new user.
type RegisterUserInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput defines the data required for a user to log in.
type LoginInput struct {
	Email    string
	Password string
	ClientIP string
}

// GoogleLoginInput carries a Google ID token obtained by the client.
type GoogleLoginInput struct {
	IDToken string
}

// RefreshTokenInput carries the refresh token presented for rotation.
type RefreshTokenInput struct {
	RefreshToken string
}

// UpdateUserInput defines the mutable fields of a user profile.
// Nil fields are left untouched.
type UpdateUserInput struct {
	Name        *string
	DeviceToken *string
}

// ListUsersInput defines paging for the admin user listing.
type ListUsersInput struct {
	Limit  int
	Offset int
}

// --- Output DTOs ---

// RegisterOutput returns the newly created user's basic information.
type RegisterOutput struct {
	User *entity.User
}

// LoginOutput returns the generated tokens after a successful login.
type LoginOutput struct {
	AccessToken  string
	RefreshToken string
	User         *entity.User
}

// UserUsecase defines the interface for user-related business operations.
// This is the contract that the delivery layer (e.g., API handlers) will depend on.
type UserUsecase interface {
	Register(ctx context.Context, input RegisterUserInput) (*RegisterOutput, error)
	Login(ctx context.Context, input LoginInput) (*LoginOutput, error)
	LoginWithGoogle(ctx context.Context, input GoogleLoginInput) (*LoginOutput, error)
	RefreshToken(ctx context.Context, input RefreshTokenInput) (*LoginOutput, error)
	Logout(ctx context.Context, refreshToken string) error

	GetUser(ctx context.Context, id string) (*entity.User, error)
	ListUsers(ctx context.Context, input ListUsersInput) ([]*entity.User, error)
	UpdateUser(ctx context.Context, id string, input UpdateUserInput) (*entity.User, error)
	DeleteUser(ctx context.Context, id string) error
}
