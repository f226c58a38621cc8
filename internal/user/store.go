package user

import (
	"context"

	"github.com/google/uuid"
)

// Store is the persistence contract the core needs from the user table.
// It is treated as a synchronous, strongly consistent key lookup; every
// logical state transition is persisted with a single Save.
type Store interface {
	Create(ctx context.Context, u *User) (*User, error)
	Save(ctx context.Context, u *User) (*User, error)
	Delete(ctx context.Context, id uuid.UUID) error

	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByVerificationToken(ctx context.Context, token string) (*User, error)
	FindByPasswordResetToken(ctx context.Context, token string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	List(ctx context.Context, page, size int) ([]*User, int, error)
}
