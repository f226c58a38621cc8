package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protectedProbe(t *testing.T, tokens TokenService, mutate func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()

	var gotEmail string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotEmail, _ = GetUserEmailFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	mutate(req)

	rec := httptest.NewRecorder()
	NewMiddleware(tokens).RequireAuth(next).ServeHTTP(rec, req)

	if rec.Code == http.StatusOK {
		assert.NotEmpty(t, gotEmail)
	}
	return rec
}

func TestRequireAuthBearerHeader(t *testing.T) {
	svc := newTestJWTService(t)
	token, err := svc.IssueAccessToken("alice@example.com", "USER")
	require.NoError(t, err)

	rec := protectedProbe(t, svc, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAuthCookieFallback(t *testing.T) {
	svc := newTestJWTService(t)
	token, err := svc.IssueAccessToken("alice@example.com", "USER")
	require.NoError(t, err)

	rec := protectedProbe(t, svc, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: "access_token", Value: token})
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAuthMissingToken(t *testing.T) {
	svc := newTestJWTService(t)

	rec := protectedProbe(t, svc, func(r *http.Request) {})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthMalformedHeader(t *testing.T) {
	svc := newTestJWTService(t)

	rec := protectedProbe(t, svc, func(r *http.Request) {
		r.Header.Set("Authorization", "Token abc")
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthExpiredToken(t *testing.T) {
	svc := newTestJWTService(t)

	issued := time.Now().Add(-time.Hour)
	svc.now = func() time.Time { return issued }
	token, err := svc.IssueAccessToken("alice@example.com", "USER")
	require.NoError(t, err)
	svc.now = time.Now

	rec := protectedProbe(t, svc, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthGarbageToken(t *testing.T) {
	svc := newTestJWTService(t)

	rec := protectedProbe(t, svc, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer not-a-token")
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
