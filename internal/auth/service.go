package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"

	"github.com/kingscode/ecommerce-api/internal/logging"
	"github.com/kingscode/ecommerce-api/internal/password"
	"github.com/kingscode/ecommerce-api/internal/user"
)

// Mailer queues transactional email for asynchronous delivery
type Mailer interface {
	EnqueueVerificationEmail(ctx context.Context, to, recipientName, verificationToken string, expiry time.Time) error
	EnqueuePasswordResetEmail(ctx context.Context, to, recipientName, resetCode string, expiry time.Time) error
	EnqueueWelcomeEmail(ctx context.Context, to, recipientName string) error
}

// PublicUser is the projection of a user returned to clients.
// It never includes the password hash or any server-side tokens.
type PublicUser struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Role      user.Role `json:"role"`
}

// SessionPair is the result of a successful login
type SessionPair struct {
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
	TokenType    string     `json:"token_type"`
	ExpiresIn    int64      `json:"expires_in"`
	User         PublicUser `json:"user"`
}

// Service orchestrates authentication: credential checks, the
// must-be-verified login gate, session token issuance, and the
// verification / password-reset flows that feed the email queue.
type Service struct {
	users          *user.Service
	tokens         TokenService
	mailer         Mailer
	logger         *logging.Logger
	accessDuration time.Duration
}

func NewService(users *user.Service, tokens TokenService, mailer Mailer, logger *logging.Logger, accessDuration time.Duration) *Service {
	return &Service{
		users:          users,
		tokens:         tokens,
		mailer:         mailer,
		logger:         logger,
		accessDuration: accessDuration,
	}
}

// Register creates a new account, issues its verification token, and
// queues the verification email. A dead queue fails the request: the
// caller must know the email was never scheduled.
func (s *Service) Register(ctx context.Context, email, pwd, firstName, lastName string) (*user.User, error) {
	if err := validateCredentials(email, pwd); err != nil {
		return nil, err
	}

	newUser, err := s.users.CreateUser(ctx, email, firstName, lastName, pwd, false)
	if err != nil {
		return nil, err
	}

	newUser, err = s.users.IssueVerificationToken(ctx, newUser)
	if err != nil {
		return nil, fmt.Errorf("failed to issue verification token: %w", err)
	}

	if err := s.mailer.EnqueueVerificationEmail(ctx, newUser.Email, newUser.FirstName,
		*newUser.VerificationToken, *newUser.VerificationExpiresAt); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrQueueUnavailable, err)
	}

	s.logger.Info("user registered", "user_id", newUser.ID)
	return newUser, nil
}

// Authenticate validates credentials and returns a session pair.
// A missing user and a wrong password collapse to the same error.
// An unverified account never logs in: the verification token is
// refreshed if expired and a fresh verification email is queued before
// the login is rejected.
func (s *Service) Authenticate(ctx context.Context, email, pwd string) (*SessionPair, error) {
	if email == "" || pwd == "" {
		return nil, ErrAuthenticationFailed
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrAuthenticationFailed
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if !u.EmailVerified {
		s.logger.Warn("login attempt with unverified email", "email", email)

		u, err = s.users.RefreshVerificationTokenIfExpired(ctx, u)
		if err != nil {
			return nil, fmt.Errorf("failed to refresh verification token: %w", err)
		}

		if err := s.mailer.EnqueueVerificationEmail(ctx, u.Email, u.FirstName,
			*u.VerificationToken, *u.VerificationExpiresAt); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrQueueUnavailable, err)
		}

		return nil, &EmailNotVerifiedError{Email: u.Email}
	}

	if !password.Verify(u.PasswordHash, pwd) {
		s.logger.Warn("authentication failed", "email", email)
		return nil, ErrAuthenticationFailed
	}

	return s.newSessionPair(u)
}

// RefreshAccessToken exchanges a valid refresh token for a new access
// token. The refresh token itself is not rotated. An unknown subject
// surfaces as user.ErrNotFound, deliberately distinct from an invalid
// token.
func (s *Service) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	subject, err := s.tokens.ValidateAndExtractSubject(refreshToken)
	if err != nil {
		return "", err
	}

	u, err := s.users.GetByEmail(ctx, subject)
	if err != nil {
		return "", err
	}

	if !s.tokens.IsValid(refreshToken, u.Email) {
		return "", ErrExpiredToken
	}

	accessToken, err := s.tokens.IssueAccessToken(u.Email, string(u.Role))
	if err != nil {
		return "", fmt.Errorf("failed to issue access token: %w", err)
	}

	return accessToken, nil
}

// RequestPasswordReset issues a fresh six-digit reset code and queues
// the reset email. An unknown email propagates as user.ErrNotFound.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	u, err = s.users.IssuePasswordResetCode(ctx, u)
	if err != nil {
		return fmt.Errorf("failed to issue reset code: %w", err)
	}

	if err := s.mailer.EnqueuePasswordResetEmail(ctx, u.Email, u.FirstName,
		*u.PasswordResetToken, *u.ResetExpiresAt); err != nil {
		return fmt.Errorf("%w: %v", ErrQueueUnavailable, err)
	}

	return nil
}

// ResendVerificationEmail re-queues the verification email, rotating
// the token only when the previous one has expired.
func (s *Service) ResendVerificationEmail(ctx context.Context, email string) error {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	if u.EmailVerified {
		return user.ErrAlreadyVerified
	}

	u, err = s.users.RefreshVerificationTokenIfExpired(ctx, u)
	if err != nil {
		return fmt.Errorf("failed to refresh verification token: %w", err)
	}

	if err := s.mailer.EnqueueVerificationEmail(ctx, u.Email, u.FirstName,
		*u.VerificationToken, *u.VerificationExpiresAt); err != nil {
		return fmt.Errorf("%w: %v", ErrQueueUnavailable, err)
	}

	return nil
}

// VerifyEmail consumes a verification token. The welcome email is
// best-effort: verification has already been persisted, so a queue
// failure here is logged rather than surfaced.
func (s *Service) VerifyEmail(ctx context.Context, token string) error {
	u, err := s.users.ConsumeVerificationToken(ctx, token)
	if err != nil {
		return err
	}

	if err := s.mailer.EnqueueWelcomeEmail(ctx, u.Email, u.FirstName); err != nil {
		s.logger.Warn("failed to queue welcome email", "user_id", u.ID, "error", err)
	}

	return nil
}

// ResetPassword consumes a reset code and updates the credential
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if newPassword == "" {
		return ErrPasswordRequired
	}
	if len(newPassword) < 8 {
		return ErrPasswordTooShort
	}

	return s.users.ConsumePasswordReset(ctx, token, newPassword)
}

func (s *Service) newSessionPair(u *user.User) (*SessionPair, error) {
	accessToken, err := s.tokens.IssueAccessToken(u.Email, string(u.Role))
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	refreshToken, err := s.tokens.IssueRefreshToken(u.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue refresh token: %w", err)
	}

	return &SessionPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.accessDuration.Seconds()),
		User: PublicUser{
			ID:        u.ID,
			Email:     u.Email,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Role:      u.Role,
		},
	}, nil
}

func validateCredentials(email, pwd string) error {
	if email == "" {
		return ErrEmailRequired
	}
	if len(email) > 254 {
		return ErrInvalidEmailFormat
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return ErrInvalidEmailFormat
	}
	if pwd == "" {
		return ErrPasswordRequired
	}
	if len(pwd) < 8 {
		return ErrPasswordTooShort
	}
	return nil
}
