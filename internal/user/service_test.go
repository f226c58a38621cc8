package user

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingscode/ecommerce-api/internal/logging"
	"github.com/kingscode/ecommerce-api/internal/password"
	"github.com/kingscode/ecommerce-api/internal/token"
)

type fakeStore struct {
	users map[uuid.UUID]*User
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: make(map[uuid.UUID]*User)}
}

func (s *fakeStore) Create(_ context.Context, u *User) (*User, error) {
	clone := *u
	clone.ID = uuid.New()
	s.users[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (s *fakeStore) Save(_ context.Context, u *User) (*User, error) {
	if _, ok := s.users[u.ID]; !ok {
		return nil, ErrNotFound
	}
	clone := *u
	s.users[u.ID] = &clone
	out := clone
	return &out, nil
}

func (s *fakeStore) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := s.users[id]; !ok {
		return ErrNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *fakeStore) FindByID(_ context.Context, id uuid.UUID) (*User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (s *fakeStore) FindByEmail(_ context.Context, email string) (*User, error) {
	for _, u := range s.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, ErrNotFound
}

func (s *fakeStore) FindByVerificationToken(_ context.Context, tok string) (*User, error) {
	for _, u := range s.users {
		if u.VerificationToken != nil && *u.VerificationToken == tok {
			clone := *u
			return &clone, nil
		}
	}
	return nil, ErrNotFound
}

func (s *fakeStore) FindByPasswordResetToken(_ context.Context, tok string) (*User, error) {
	for _, u := range s.users {
		if u.PasswordResetToken != nil && *u.PasswordResetToken == tok {
			clone := *u
			return &clone, nil
		}
	}
	return nil, ErrNotFound
}

func (s *fakeStore) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, u := range s.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) List(_ context.Context, page, size int) ([]*User, int, error) {
	out := make([]*User, 0, len(s.users))
	for _, u := range s.users {
		clone := *u
		out = append(out, &clone)
	}
	return out, len(out), nil
}

func newTestService(t *testing.T) (*Service, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	return NewService(store, token.NewGenerator(), logging.NewLogger(true)), store
}

func createTestUser(t *testing.T, svc *Service) *User {
	t.Helper()
	u, err := svc.CreateUser(context.Background(), "alice@example.com", "Alice", "Smith", "password123", false)
	require.NoError(t, err)
	return u
}

func TestCreateUserHashesPassword(t *testing.T) {
	svc, _ := newTestService(t)

	u := createTestUser(t, svc)

	assert.NotEqual(t, "password123", u.PasswordHash)
	assert.True(t, password.Verify(u.PasswordHash, "password123"))
	assert.Equal(t, RoleUser, u.Role)
	assert.False(t, u.EmailVerified)
}

func TestCreateUserAdminRole(t *testing.T) {
	svc, _ := newTestService(t)

	u, err := svc.CreateUser(context.Background(), "admin@example.com", "Ada", "Root", "password123", true)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, u.Role)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	svc, _ := newTestService(t)

	createTestUser(t, svc)

	_, err := svc.CreateUser(context.Background(), "alice@example.com", "A", "B", "password456", false)
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestIssueVerificationTokenOverwrites(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	u := createTestUser(t, svc)

	u, err := svc.IssueVerificationToken(ctx, u)
	require.NoError(t, err)
	require.NotNil(t, u.VerificationToken)
	first := *u.VerificationToken

	u, err = svc.IssueVerificationToken(ctx, u)
	require.NoError(t, err)
	assert.NotEqual(t, first, *u.VerificationToken)
}

func TestRefreshVerificationTokenKeepsLiveToken(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	u := createTestUser(t, svc)
	u, err := svc.IssueVerificationToken(ctx, u)
	require.NoError(t, err)
	first := *u.VerificationToken

	u, err = svc.RefreshVerificationTokenIfExpired(ctx, u)
	require.NoError(t, err)
	assert.Equal(t, first, *u.VerificationToken)
}

func TestRefreshVerificationTokenRotatesExpired(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	u := createTestUser(t, svc)
	u, err := svc.IssueVerificationToken(ctx, u)
	require.NoError(t, err)
	first := *u.VerificationToken

	svc.now = func() time.Time { return time.Now().Add(25 * time.Hour) }

	u, err = svc.RefreshVerificationTokenIfExpired(ctx, u)
	require.NoError(t, err)
	assert.NotEqual(t, first, *u.VerificationToken)
	assert.True(t, u.VerificationExpiresAt.After(time.Now().Add(25*time.Hour)))
}

func TestConsumeVerificationTokenTransition(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	u := createTestUser(t, svc)
	u, err := svc.IssueVerificationToken(ctx, u)
	require.NoError(t, err)
	tok := *u.VerificationToken

	verified, err := svc.ConsumeVerificationToken(ctx, tok)
	require.NoError(t, err)
	assert.True(t, verified.EmailVerified)
	assert.Nil(t, verified.VerificationToken)
	assert.Nil(t, verified.VerificationExpiresAt)

	// Both the flag flip and the token clear landed in one save
	stored, err := store.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, stored.EmailVerified)
	assert.Nil(t, stored.VerificationToken)
}

func TestConsumeVerificationTokenSingleUse(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	u := createTestUser(t, svc)
	u, err := svc.IssueVerificationToken(ctx, u)
	require.NoError(t, err)
	tok := *u.VerificationToken

	_, err = svc.ConsumeVerificationToken(ctx, tok)
	require.NoError(t, err)

	_, err = svc.ConsumeVerificationToken(ctx, tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestConsumeVerificationTokenExpired(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	u := createTestUser(t, svc)
	u, err := svc.IssueVerificationToken(ctx, u)
	require.NoError(t, err)
	tok := *u.VerificationToken

	svc.now = func() time.Time { return time.Now().Add(24*time.Hour + time.Second) }

	_, err = svc.ConsumeVerificationToken(ctx, tok)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestConsumeVerificationTokenUnknown(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ConsumeVerificationToken(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestIssuePasswordResetCodeFormat(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	u := createTestUser(t, svc)

	u, err := svc.IssuePasswordResetCode(ctx, u)
	require.NoError(t, err)
	require.NotNil(t, u.PasswordResetToken)
	require.NotNil(t, u.ResetExpiresAt)

	code := *u.PasswordResetToken
	require.Len(t, code, 6)
	for _, c := range code {
		assert.True(t, c >= '0' && c <= '9')
	}

	assert.WithinDuration(t, time.Now().Add(15*time.Minute), *u.ResetExpiresAt, time.Minute)
}

func TestResetCodeDoesNotTouchVerificationExpiry(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	u := createTestUser(t, svc)
	u, err := svc.IssueVerificationToken(ctx, u)
	require.NoError(t, err)
	verifyExpiry := *u.VerificationExpiresAt

	u, err = svc.IssuePasswordResetCode(ctx, u)
	require.NoError(t, err)

	assert.Equal(t, verifyExpiry, *u.VerificationExpiresAt)
	assert.NotEqual(t, *u.ResetExpiresAt, *u.VerificationExpiresAt)
}

func TestConsumePasswordReset(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	u := createTestUser(t, svc)
	u, err := svc.IssuePasswordResetCode(ctx, u)
	require.NoError(t, err)
	code := *u.PasswordResetToken

	require.NoError(t, svc.ConsumePasswordReset(ctx, code, "newpassword456"))

	stored, err := store.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.PasswordResetToken)
	assert.Nil(t, stored.ResetExpiresAt)
	assert.True(t, password.Verify(stored.PasswordHash, "newpassword456"))
	assert.False(t, password.Verify(stored.PasswordHash, "password123"))

	err = svc.ConsumePasswordReset(ctx, code, "anotherpassword789")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestConsumePasswordResetExpired(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	u := createTestUser(t, svc)
	u, err := svc.IssuePasswordResetCode(ctx, u)
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(16 * time.Minute) }

	err = svc.ConsumePasswordReset(ctx, *u.PasswordResetToken, "newpassword456")
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestConsumePasswordResetSamePassword(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	u := createTestUser(t, svc)
	u, err := svc.IssuePasswordResetCode(ctx, u)
	require.NoError(t, err)
	code := *u.PasswordResetToken

	err = svc.ConsumePasswordReset(ctx, code, "password123")
	assert.ErrorIs(t, err, ErrSamePassword)

	// Rejection leaves the code usable
	require.NoError(t, svc.ConsumePasswordReset(ctx, code, "newpassword456"))
}

func TestUpdateNamePartial(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	u := createTestUser(t, svc)

	updated, err := svc.UpdateName(ctx, u.ID, "Alicia", "")
	require.NoError(t, err)
	assert.Equal(t, "Alicia", updated.FirstName)
	assert.Equal(t, "Smith", updated.LastName)
}
