package auth

import (
	"errors"
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
)

// PasetoService is the alternate token backend: PASETO v4.local with a
// 32-byte symmetric key (XChaCha20-Poly1305). Selected with
// TOKEN_BACKEND=paseto.
type PasetoService struct {
	symmetricKey    paseto.V4SymmetricKey
	accessDuration  time.Duration
	refreshDuration time.Duration
}

func NewPasetoService(symmetricKey []byte, accessDuration, refreshDuration time.Duration) (*PasetoService, error) {
	if len(symmetricKey) != 32 {
		return nil, fmt.Errorf("symmetric key must be exactly 32 bytes, got %d", len(symmetricKey))
	}

	key, err := paseto.V4SymmetricKeyFromBytes(symmetricKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create symmetric key: %w", err)
	}

	return &PasetoService{
		symmetricKey:    key,
		accessDuration:  accessDuration,
		refreshDuration: refreshDuration,
	}, nil
}

// IssueAccessToken creates a short-lived token with subject and role claims
func (s *PasetoService) IssueAccessToken(subject, role string) (string, error) {
	return s.encrypt(subject, role, s.accessDuration), nil
}

// IssueRefreshToken creates a long-lived token with the subject claim only
func (s *PasetoService) IssueRefreshToken(subject string) (string, error) {
	return s.encrypt(subject, "", s.refreshDuration), nil
}

func (s *PasetoService) encrypt(subject, role string, duration time.Duration) string {
	now := time.Now()

	token := paseto.NewToken()
	token.SetSubject(subject)
	token.SetIssuedAt(now)
	token.SetExpiration(now.Add(duration))
	if role != "" {
		token.SetString("role", role)
	}

	return token.V4Encrypt(s.symmetricKey, nil)
}

// ValidateAndExtractSubject verifies the token and returns its subject
func (s *PasetoService) ValidateAndExtractSubject(tokenStr string) (string, error) {
	parser := paseto.NewParser()

	token, err := parser.ParseV4Local(s.symmetricKey, tokenStr, nil)
	if err != nil {
		// The parser checks expiration by default; distinguish expired from invalid
		if errors.Is(err, &paseto.RuleError{}) {
			return "", ErrExpiredToken
		}
		return "", ErrInvalidToken
	}

	subject, err := token.GetSubject()
	if err != nil || subject == "" {
		return "", ErrInvalidToken
	}

	return subject, nil
}

// IsValid reports whether the token validates for the expected subject
func (s *PasetoService) IsValid(tokenStr, expectedSubject string) bool {
	subject, err := s.ValidateAndExtractSubject(tokenStr)
	return err == nil && subject == expectedSubject
}
