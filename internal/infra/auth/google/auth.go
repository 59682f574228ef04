// Package google verifies Google ID tokens for the sign-in-with-Google flow.
package google

import (
	"context"

	"storefront/config"
	"storefront/internal/domain/service"

	"github.com/pkg/errors"
	"google.golang.org/api/idtoken"
)

// authService implements service.OAuthAuthService on top of Google's
// ID token validation endpoint.
type authService struct {
	clientID string
}

// NewAuthService creates a Google ID token verifier. The client ID is the
// OAuth audience the token must be minted for.
func NewAuthService(cfg *config.Config) (service.OAuthAuthService, error) {
	if cfg.GoogleOAuth == nil || cfg.GoogleOAuth.ClientID == "" {
		return nil, errors.New("google oauth client id must be provided")
	}

	return &authService{clientID: cfg.GoogleOAuth.ClientID}, nil
}

// VerifyIDToken validates the token's signature, audience and expiry
// against Google's public keys and extracts the user profile claims.
func (s *authService) VerifyIDToken(ctx context.Context, rawToken string) (*service.OAuthUser, error) {
	payload, err := idtoken.Validate(ctx, rawToken, s.clientID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to validate google id token")
	}

	user := &service.OAuthUser{ID: payload.Subject}
	if email, ok := payload.Claims["email"].(string); ok {
		user.Email = email
	}
	if name, ok := payload.Claims["name"].(string); ok {
		user.Name = name
	}
	if verified, ok := payload.Claims["email_verified"].(bool); ok {
		user.EmailVerified = verified
	}

	return user, nil
}
