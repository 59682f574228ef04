// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"strings"
	"unicode"

	"storefront/config"
	"storefront/internal/domain/service"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

// bcryptHasher is a concrete implementation of the PasswordHasher interface using bcrypt.
type bcryptHasher struct {
	cost   int
	policy config.PasswordStrengthConfig
}

var defaultPasswordPolicy = config.PasswordStrengthConfig{
	MinLength:        8,
	MaxLength:        72, // bcrypt input limit
	RequireUppercase: true,
	RequireLowercase: true,
	RequireNumbers:   true,
	RequireSpecial:   false,
}

// NewBcryptHasher is the constructor for bcryptHasher.
// It returns the implementation as a service.PasswordHasher interface.
func NewBcryptHasher(cfg *config.Config) service.PasswordHasher {
	cost := bcrypt.DefaultCost
	if cfg.Auth != nil && cfg.Auth.BcryptCost >= bcrypt.MinCost && cfg.Auth.BcryptCost <= bcrypt.MaxCost {
		cost = cfg.Auth.BcryptCost
	}

	policy := defaultPasswordPolicy
	if cfg.PasswordStrength != nil {
		policy = *cfg.PasswordStrength
	}
	if policy.MaxLength <= 0 || policy.MaxLength > 72 {
		policy.MaxLength = 72
	}

	return &bcryptHasher{cost: cost, policy: policy}
}

// Hash generates a salted hash from a plaintext password using bcrypt.
// bcrypt handles salt generation itself.
func (h *bcryptHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)

	return string(bytes), err
}

// Check compares a plaintext password with a bcrypt hash.
func (h *bcryptHasher) Check(password, hash string) bool {
	// err is nil if the password and hash match.
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidatePasswordStrength collects every policy rule the password fails
// and reports them in one error, so the client can show the full list.
func (h *bcryptHasher) ValidatePasswordStrength(password string) error {
	var problems []string

	if len(password) < h.policy.MinLength {
		problems = append(problems, errors.Errorf("at least %d characters", h.policy.MinLength).Error())
	}
	if len(password) > h.policy.MaxLength {
		problems = append(problems, errors.Errorf("at most %d characters", h.policy.MaxLength).Error())
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	if h.policy.RequireUppercase && !hasUpper {
		problems = append(problems, "an uppercase letter")
	}
	if h.policy.RequireLowercase && !hasLower {
		problems = append(problems, "a lowercase letter")
	}
	if h.policy.RequireNumbers && !hasDigit {
		problems = append(problems, "a digit")
	}
	if h.policy.RequireSpecial && !hasSpecial {
		problems = append(problems, "a special character")
	}

	if len(problems) > 0 {
		return errors.Errorf("password must contain %s", strings.Join(problems, ", "))
	}

	return nil
}
