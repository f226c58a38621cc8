package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the JWT claims carried by session tokens. Access tokens
// additionally carry the user's role; refresh tokens hold the subject
// only.
type Claims struct {
	Role string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// JWTService signs and verifies HS256 session tokens with a single
// symmetric key decoded once at startup.
type JWTService struct {
	key             []byte
	accessDuration  time.Duration
	refreshDuration time.Duration
	now             func() time.Time
}

// NewJWTService decodes the base64-encoded secret and validates its
// strength. Access and refresh lifetimes are independent; refresh is
// expected to be materially longer.
func NewJWTService(base64Secret string, accessDuration, refreshDuration time.Duration) (*JWTService, error) {
	key, err := base64.StdEncoding.DecodeString(base64Secret)
	if err != nil {
		return nil, fmt.Errorf("failed to decode signing secret: %w", err)
	}
	if len(key) < 32 {
		return nil, fmt.Errorf("signing secret must be at least 32 bytes, got %d", len(key))
	}

	return &JWTService{
		key:             key,
		accessDuration:  accessDuration,
		refreshDuration: refreshDuration,
		now:             time.Now,
	}, nil
}

// IssueAccessToken creates a short-lived token with subject and role claims
func (s *JWTService) IssueAccessToken(subject, role string) (string, error) {
	return s.sign(subject, role, s.accessDuration)
}

// IssueRefreshToken creates a long-lived token with the subject claim only
func (s *JWTService) IssueRefreshToken(subject string) (string, error) {
	return s.sign(subject, "", s.refreshDuration)
}

func (s *JWTService) sign(subject, role string, duration time.Duration) (string, error) {
	now := s.now()

	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// ValidateAndExtractSubject verifies the token and returns its subject
func (s *JWTService) ValidateAndExtractSubject(tokenStr string) (string, error) {
	claims, err := s.parse(tokenStr)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// IsValid reports whether the token validates for the expected subject
func (s *JWTService) IsValid(tokenStr, expectedSubject string) bool {
	subject, err := s.ValidateAndExtractSubject(tokenStr)
	return err == nil && subject == expectedSubject
}

func (s *JWTService) parse(tokenStr string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)

	claims := new(Claims)
	token, err := parser.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return s.key, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
