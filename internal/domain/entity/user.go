// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core account entity shared by shoppers and administrators.
type User struct {
	ID          uuid.UUID `json:"id"`                     // The unique identifier for the user.
	Email       string    `json:"email"`                  // The user's primary contact email, used as a login identifier.
	Name        string    `json:"name"`                   // The user's display name.
	Role        Role      `json:"role"`                   // Persisted authorization role ("user" or "admin").
	DeviceToken string    `json:"device_token,omitempty"` // Optional push notification token for order updates.
	CreatedAt   time.Time `json:"created_at"`             // Timestamp of when this account was created.
	UpdatedAt   time.Time `json:"updated_at"`             // Timestamp of the last modification to this user's data.
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
