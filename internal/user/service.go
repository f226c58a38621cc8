package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kingscode/ecommerce-api/internal/logging"
	"github.com/kingscode/ecommerce-api/internal/password"
	"github.com/kingscode/ecommerce-api/internal/token"
)

var (
	ErrInvalidToken    = errors.New("invalid or already used token")
	ErrTokenExpired    = errors.New("token has expired")
	ErrAlreadyVerified = errors.New("email already verified")
	ErrSamePassword    = errors.New("new password must be different from old password")
)

const (
	verificationTokenTTL = 24 * time.Hour
	passwordResetTTL     = 15 * time.Minute
	resetCodeDigits      = 6
)

// Service manages users and the lifecycle of their verification and
// password reset tokens.
//
// The read-modify-write on a user's token fields is not guarded by any
// lock: two concurrent RefreshVerificationTokenIfExpired calls for the
// same user race, last write wins. Both racers write a live token so
// the operation is idempotent in intent, but the token value returned
// to one caller may not be the one ultimately persisted.
type Service struct {
	store  Store
	tokens *token.Generator
	logger *logging.Logger
	now    func() time.Time
}

func NewService(store Store, tokens *token.Generator, logger *logging.Logger) *Service {
	return &Service{
		store:  store,
		tokens: tokens,
		logger: logger,
		now:    time.Now,
	}
}

// CreateUser creates a new user with a hashed credential.
// The caller decides whether the account gets the admin role.
func (s *Service) CreateUser(ctx context.Context, email, firstName, lastName, plainPassword string, isAdmin bool) (*User, error) {
	exists, err := s.store.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, ErrDuplicateEmail
	}

	passwordHash, err := password.Hash(plainPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := RoleUser
	if isAdmin {
		role = RoleAdmin
	}

	newUser, err := s.store.Create(ctx, &User{
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: passwordHash,
		Role:         role,
	})
	if err != nil {
		return nil, err
	}

	return newUser, nil
}

// GetByID retrieves a user by ID
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.store.FindByID(ctx, id)
}

// GetByEmail retrieves a user by email
func (s *Service) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.store.FindByEmail(ctx, email)
}

// ListUsers returns a page of users and the total count
func (s *Service) ListUsers(ctx context.Context, page, size int) ([]*User, int, error) {
	return s.store.List(ctx, page, size)
}

// UpdateName updates a user's profile name fields, leaving any field
// unchanged when the new value is empty.
func (s *Service) UpdateName(ctx context.Context, id uuid.UUID, firstName, lastName string) (*User, error) {
	existing, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if firstName != "" {
		existing.FirstName = firstName
	}
	if lastName != "" {
		existing.LastName = lastName
	}

	return s.store.Save(ctx, existing)
}

// DeleteUser removes a user
func (s *Service) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return s.store.Delete(ctx, id)
}

// IssueVerificationToken issues a fresh verification token with a 24h
// expiry, overwriting any existing one, and persists it.
func (s *Service) IssueVerificationToken(ctx context.Context, u *User) (*User, error) {
	newToken, err := s.tokens.GenerateOpaqueToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate verification token: %w", err)
	}

	expiry := s.now().Add(verificationTokenTTL)
	u.VerificationToken = &newToken
	u.VerificationExpiresAt = &expiry

	saved, err := s.store.Save(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("failed to persist verification token: %w", err)
	}

	return saved, nil
}

// RefreshVerificationTokenIfExpired returns the user unchanged when a
// live verification token exists; otherwise it issues and persists a
// fresh one. This is the idempotent resend path.
func (s *Service) RefreshVerificationTokenIfExpired(ctx context.Context, u *User) (*User, error) {
	if u.HasLiveVerificationToken(s.now()) {
		return u, nil
	}

	return s.IssueVerificationToken(ctx, u)
}

// ConsumeVerificationToken validates and consumes a verification token
// in one atomic transition: the email is flipped to verified and the
// token plus its expiry are cleared with a single Save. A consumed
// token fails lookup on re-presentation and reads as invalid, not
// expired. Returns the verified user.
func (s *Service) ConsumeVerificationToken(ctx context.Context, tok string) (*User, error) {
	u, err := s.store.FindByVerificationToken(ctx, tok)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, fmt.Errorf("failed to find user by verification token: %w", err)
	}

	if u.EmailVerified {
		return nil, ErrAlreadyVerified
	}

	if u.VerificationExpiresAt == nil || !u.VerificationExpiresAt.After(s.now()) {
		return nil, ErrTokenExpired
	}

	u.EmailVerified = true
	u.VerificationToken = nil
	u.VerificationExpiresAt = nil

	u, err = s.store.Save(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("failed to persist email verification: %w", err)
	}

	s.logger.Info("email verified", "user_id", u.ID)
	return u, nil
}

// IssuePasswordResetCode issues a fresh six-digit reset code with a
// 15-minute expiry, overwriting any prior code, and persists it.
func (s *Service) IssuePasswordResetCode(ctx context.Context, u *User) (*User, error) {
	code, err := s.tokens.GenerateNumericCode(resetCodeDigits)
	if err != nil {
		return nil, fmt.Errorf("failed to generate reset code: %w", err)
	}

	expiry := s.now().Add(passwordResetTTL)
	u.PasswordResetToken = &code
	u.ResetExpiresAt = &expiry

	saved, err := s.store.Save(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("failed to persist reset code: %w", err)
	}

	return saved, nil
}

// ConsumePasswordReset validates a reset code and updates the user's
// credential, rejecting a new password identical to the current one.
// The code and its expiry are cleared in the same Save.
func (s *Service) ConsumePasswordReset(ctx context.Context, tok, newPassword string) error {
	u, err := s.store.FindByPasswordResetToken(ctx, tok)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrInvalidToken
		}
		return fmt.Errorf("failed to find user by reset token: %w", err)
	}

	if u.ResetExpiresAt == nil || !u.ResetExpiresAt.After(s.now()) {
		return ErrTokenExpired
	}

	if password.Verify(u.PasswordHash, newPassword) {
		return ErrSamePassword
	}

	passwordHash, err := password.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	u.PasswordHash = passwordHash
	u.PasswordResetToken = nil
	u.ResetExpiresAt = nil

	if _, err := s.store.Save(ctx, u); err != nil {
		return fmt.Errorf("failed to persist new password: %w", err)
	}

	s.logger.Info("password updated", "user_id", u.ID)
	return nil
}
