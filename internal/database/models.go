package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the bun model for the users table.
// Verification and password reset tokens each carry their own expiry
// column so the two purposes cannot alias each other's validity window.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID                    uuid.UUID  `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Email                 string     `bun:"email,notnull,unique"`
	FirstName             string     `bun:"first_name"`
	LastName              string     `bun:"last_name"`
	PasswordHash          string     `bun:"password_hash,notnull"`
	Role                  string     `bun:"role,notnull,default:'USER'"`
	EmailVerified         bool       `bun:"email_verified,notnull,default:false"`
	VerificationToken     *string    `bun:"verification_token"`
	VerificationExpiresAt *time.Time `bun:"verification_expires_at"`
	PasswordResetToken    *string    `bun:"password_reset_token"`
	ResetExpiresAt        *time.Time `bun:"reset_expires_at"`
	CreatedAt             time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt             time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}
