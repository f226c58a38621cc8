package auth

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSecret(t *testing.T) string {
	t.Helper()
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	return base64.StdEncoding.EncodeToString(key)
}

func newTestJWTService(t *testing.T) *JWTService {
	t.Helper()
	svc, err := NewJWTService(testSecret(t), 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)
	return svc
}

func TestNewJWTServiceRejectsWeakSecret(t *testing.T) {
	short := base64.StdEncoding.EncodeToString([]byte("too-short"))
	_, err := NewJWTService(short, time.Minute, time.Hour)
	assert.Error(t, err)

	_, err = NewJWTService("not-valid-base64!!!", time.Minute, time.Hour)
	assert.Error(t, err)
}

func TestJWTAccessTokenRoundTrip(t *testing.T) {
	svc := newTestJWTService(t)

	token, err := svc.IssueAccessToken("alice@example.com", "USER")
	require.NoError(t, err)

	subject, err := svc.ValidateAndExtractSubject(token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", subject)
}

func TestJWTRefreshTokenRoundTrip(t *testing.T) {
	svc := newTestJWTService(t)

	token, err := svc.IssueRefreshToken("bob@example.com")
	require.NoError(t, err)

	subject, err := svc.ValidateAndExtractSubject(token)
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", subject)
}

func TestJWTExpiredTokenRejected(t *testing.T) {
	svc := newTestJWTService(t)

	issued := time.Now()
	svc.now = func() time.Time { return issued }

	token, err := svc.IssueAccessToken("alice@example.com", "USER")
	require.NoError(t, err)

	svc.now = func() time.Time { return issued.Add(16 * time.Minute) }

	_, err = svc.ValidateAndExtractSubject(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTTamperedTokenRejected(t *testing.T) {
	svc := newTestJWTService(t)

	token, err := svc.IssueAccessToken("alice@example.com", "USER")
	require.NoError(t, err)

	// Flip a character in the signature segment
	tampered := token[:len(token)-2] + "xx"
	_, err = svc.ValidateAndExtractSubject(tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTWrongKeyRejected(t *testing.T) {
	svc := newTestJWTService(t)

	otherKey := make([]byte, 32)
	for i := range otherKey {
		otherKey[i] = byte(100 + i)
	}
	other, err := NewJWTService(base64.StdEncoding.EncodeToString(otherKey), time.Minute, time.Hour)
	require.NoError(t, err)

	token, err := other.IssueAccessToken("alice@example.com", "USER")
	require.NoError(t, err)

	_, err = svc.ValidateAndExtractSubject(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTMalformedTokenRejected(t *testing.T) {
	svc := newTestJWTService(t)

	for _, token := range []string{"", "garbage", "a.b.c", strings.Repeat("x", 500)} {
		_, err := svc.ValidateAndExtractSubject(token)
		assert.ErrorIs(t, err, ErrInvalidToken, "token %q", token)
	}
}

func TestJWTIsValidSubjectMismatch(t *testing.T) {
	svc := newTestJWTService(t)

	token, err := svc.IssueRefreshToken("alice@example.com")
	require.NoError(t, err)

	assert.True(t, svc.IsValid(token, "alice@example.com"))
	assert.False(t, svc.IsValid(token, "mallory@example.com"))
	assert.False(t, svc.IsValid("garbage", "alice@example.com"))
}

func TestPasetoRoundTrip(t *testing.T) {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}

	svc, err := NewPasetoService(key, 15*time.Minute, 7*24*time.Hour)
	require.NoError(t, err)

	token, err := svc.IssueAccessToken("alice@example.com", "ADMIN")
	require.NoError(t, err)

	subject, err := svc.ValidateAndExtractSubject(token)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", subject)

	assert.True(t, svc.IsValid(token, "alice@example.com"))
	assert.False(t, svc.IsValid(token, "bob@example.com"))

	_, err = svc.ValidateAndExtractSubject("v4.local.garbage")
	assert.Error(t, err)
}

func TestPasetoRejectsBadKeyLength(t *testing.T) {
	_, err := NewPasetoService([]byte("short"), time.Minute, time.Hour)
	assert.Error(t, err)
}
