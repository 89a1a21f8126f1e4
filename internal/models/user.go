// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a dashboard user with authentication and 2FA fields.
// There are no roles: the only access distinction is authenticated or not.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize the hash
	DisplayName  string    `json:"display_name"`
	TOTPSecret   *string   `json:"-"` // Nullable; set during 2FA setup
	TOTPEnabled  bool      `json:"totp_enabled"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NeedsTOTPSetup returns true if the user has not completed 2FA enrollment.
// All users must set up 2FA on their first login.
func (u *User) NeedsTOTPSetup() bool {
	return !u.TOTPEnabled
}
