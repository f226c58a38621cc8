package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/kingscode/ecommerce-api/internal/database"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

// Repository implements Store against Postgres via bun
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user into the database
func (r *Repository) Create(ctx context.Context, u *User) (*User, error) {
	dbUser := mapModelToDBUser(u)

	_, err := r.db.NewInsert().
		Model(dbUser).
		Returning("*").
		Exec(ctx)

	if err != nil {
		if strings.Contains(err.Error(), "duplicate key value violates unique constraint") {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return mapDBUserToModel(dbUser), nil
}

// Save persists the full token/credential state of an existing user.
// One Save per logical state transition.
func (r *Repository) Save(ctx context.Context, u *User) (*User, error) {
	dbUser := mapModelToDBUser(u)

	result, err := r.db.NewUpdate().
		Model(dbUser).
		Column(
			"first_name",
			"last_name",
			"password_hash",
			"email_verified",
			"verification_token",
			"verification_expires_at",
			"password_reset_token",
			"reset_expires_at",
		).
		Set("updated_at = NOW()").
		Where("id = ?", u.ID).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrNotFound
	}

	return mapDBUserToModel(dbUser), nil
}

// Delete removes a user
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.NewDelete().
		Model((*database.User)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// FindByID retrieves a user by ID
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByEmail retrieves a user by email (case-sensitive, the login key)
func (r *Repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, "email = ?", email)
}

// FindByVerificationToken retrieves a user by verification token
func (r *Repository) FindByVerificationToken(ctx context.Context, token string) (*User, error) {
	return r.findOne(ctx, "verification_token = ?", token)
}

// FindByPasswordResetToken retrieves a user by password reset token
func (r *Repository) FindByPasswordResetToken(ctx context.Context, token string) (*User, error) {
	return r.findOne(ctx, "password_reset_token = ?", token)
}

// ExistsByEmail reports whether a user with the given email exists
func (r *Repository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	exists, err := r.db.NewSelect().
		Model((*database.User)(nil)).
		Where("email = ?", email).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}

	return exists, nil
}

// List returns a page of users ordered by most recently updated,
// together with the total count.
func (r *Repository) List(ctx context.Context, page, size int) ([]*User, int, error) {
	var dbUsers []*database.User

	count, err := r.db.NewSelect().
		Model(&dbUsers).
		Order("updated_at DESC").
		Limit(size).
		Offset(page * size).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]*User, 0, len(dbUsers))
	for _, dbu := range dbUsers {
		users = append(users, mapDBUserToModel(dbu))
	}

	return users, count, nil
}

func (r *Repository) findOne(ctx context.Context, where string, arg any) (*User, error) {
	dbUser := new(database.User)
	err := r.db.NewSelect().
		Model(dbUser).
		Where(where, arg).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return mapDBUserToModel(dbUser), nil
}

// mapDBUserToModel converts database model to domain model
func mapDBUserToModel(dbu *database.User) *User {
	return &User{
		ID:                    dbu.ID,
		Email:                 dbu.Email,
		FirstName:             dbu.FirstName,
		LastName:              dbu.LastName,
		PasswordHash:          dbu.PasswordHash,
		Role:                  Role(dbu.Role),
		EmailVerified:         dbu.EmailVerified,
		VerificationToken:     dbu.VerificationToken,
		VerificationExpiresAt: dbu.VerificationExpiresAt,
		PasswordResetToken:    dbu.PasswordResetToken,
		ResetExpiresAt:        dbu.ResetExpiresAt,
		CreatedAt:             dbu.CreatedAt,
		UpdatedAt:             dbu.UpdatedAt,
	}
}

// mapModelToDBUser converts domain model to database model
func mapModelToDBUser(u *User) *database.User {
	return &database.User{
		ID:                    u.ID,
		Email:                 u.Email,
		FirstName:             u.FirstName,
		LastName:              u.LastName,
		PasswordHash:          u.PasswordHash,
		Role:                  string(u.Role),
		EmailVerified:         u.EmailVerified,
		VerificationToken:     u.VerificationToken,
		VerificationExpiresAt: u.VerificationExpiresAt,
		PasswordResetToken:    u.PasswordResetToken,
		ResetExpiresAt:        u.ResetExpiresAt,
		CreatedAt:             u.CreatedAt,
		UpdatedAt:             u.UpdatedAt,
	}
}
