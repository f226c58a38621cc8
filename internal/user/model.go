package user

import (
	"time"

	"github.com/google/uuid"
)

// Role is embedded as a claim in issued session tokens
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User is the domain model. The verification token and the password
// reset token are independent: each carries its own expiry so issuing
// one cannot shorten or extend the other's validity window.
type User struct {
	ID            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	PasswordHash  string    `json:"-"` // Never expose password hash in JSON
	Role          Role      `json:"role"`
	EmailVerified bool      `json:"email_verified"`

	VerificationToken     *string    `json:"-"`
	VerificationExpiresAt *time.Time `json:"-"`
	PasswordResetToken    *string    `json:"-"`
	ResetExpiresAt        *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasLiveVerificationToken reports whether a verification token exists
// and its expiry is still in the future.
func (u *User) HasLiveVerificationToken(now time.Time) bool {
	return u.VerificationToken != nil &&
		u.VerificationExpiresAt != nil &&
		u.VerificationExpiresAt.After(now)
}
