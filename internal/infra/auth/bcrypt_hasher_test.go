package auth

import (
	"testing"

	"storefront/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHasher() *bcryptHasher {
	// Minimum cost keeps the test fast.
	cfg := &config.Config{Auth: &config.AuthConfig{BcryptCost: 4}}

	return NewBcryptHasher(cfg).(*bcryptHasher)
}

func TestBcryptHasher_HashAndCheck(t *testing.T) {
	hasher := newTestHasher()

	hash, err := hasher.Hash("Sup3rSecret")
	require.NoError(t, err)
	assert.NotEqual(t, "Sup3rSecret", hash)

	assert.True(t, hasher.Check("Sup3rSecret", hash))
	assert.False(t, hasher.Check("wrong-password", hash))
}

func TestBcryptHasher_ValidatePasswordStrength(t *testing.T) {
	hasher := newTestHasher()

	assert.NoError(t, hasher.ValidatePasswordStrength("Sup3rSecret"))

	err := hasher.ValidatePasswordStrength("short")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 8 characters")
	assert.Contains(t, err.Error(), "an uppercase letter")
	assert.Contains(t, err.Error(), "a digit")

	err = hasher.ValidatePasswordStrength("ALLUPPERCASE1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a lowercase letter")
}

func TestBcryptHasher_CustomPolicy(t *testing.T) {
	cfg := &config.Config{
		Auth: &config.AuthConfig{BcryptCost: 4},
		PasswordStrength: &config.PasswordStrengthConfig{
			MinLength:      4,
			RequireSpecial: true,
		},
	}
	hasher := NewBcryptHasher(cfg).(*bcryptHasher)

	assert.NoError(t, hasher.ValidatePasswordStrength("ab1!"))

	err := hasher.ValidatePasswordStrength("abcd")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a special character")
}
