// Package model defines the GORM persistence models mirroring the
// PostgreSQL schema. They are kept separate from the domain entities so
// storage concerns never leak into business logic.
package model

import (
	"time"

	"github.com/google/uuid"
)

// UserModel mirrors the 'users' table. PostgreSQL generates UUIDs via uuid_generate_v7().
type UserModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v7()"`
	Email       string    `gorm:"type:varchar(255);unique;not null"`
	Name        string    `gorm:"type:varchar(100)"`
	Role        string    `gorm:"type:varchar(20);not null;default:'user'"`
	DeviceToken string    `gorm:"type:varchar(512)"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Authentications []AuthenticationModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	RefreshTokens   []RefreshTokenModel   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName explicitly sets the table name for GORM.
func (UserModel) TableName() string {
	return "users"
}
