package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered storefront account. Accounts are keyed
// by username, matching the storefront's sign-in form.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Username is the unique sign-in name.
	Username string

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string

	// CreatedAt is the unix timestamp when the account was created
	// ("member since" on the account page).
	CreatedAt int64
}

// NewUser creates a user with a generated ID and creation timestamp.
func NewUser(username, passwordHash string) *User {
	return &User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().Unix(),
	}
}
