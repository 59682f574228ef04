package model

import (
	"time"

	"github.com/google/uuid"
)

// AuthenticationModel mirrors the 'authentications' table. One row per
// login method; (provider, provider_user_id) is unique across the table.
type AuthenticationModel struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index"`
	Provider       string    `gorm:"type:varchar(20);not null;uniqueIndex:idx_provider_user"`
	ProviderUserID string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_provider_user"`
	PasswordHash   string    `gorm:"type:varchar(255)"`
	CreatedAt      time.Time
}

// TableName explicitly sets the table name for GORM.
func (AuthenticationModel) TableName() string {
	return "authentications"
}

// RefreshTokenModel mirrors the 'refresh_tokens' table. Tokens are stored
// as SHA-256 hashes, never in the clear.
type RefreshTokenModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	TokenHash string    `gorm:"type:char(64);unique;not null"`
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (RefreshTokenModel) TableName() string {
	return "refresh_tokens"
}
