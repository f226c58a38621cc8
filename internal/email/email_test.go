package email

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingscode/ecommerce-api/internal/mailqueue"
)

type captureQueue struct {
	messages []mailqueue.Message
}

func (q *captureQueue) Enqueue(_ context.Context, msg mailqueue.Message) error {
	q.messages = append(q.messages, msg)
	return nil
}

func newTestDispatcher(q *captureQueue) *Dispatcher {
	return NewDispatcher(q, "http://localhost:8080", "http://localhost:3000", "KingsCode")
}

func TestDispatcherVerificationEmail(t *testing.T) {
	q := &captureQueue{}
	d := newTestDispatcher(q)

	expiry := time.Now().Add(24 * time.Hour)
	err := d.EnqueueVerificationEmail(context.Background(), "alice@example.com", "Alice", "tok-123", expiry)
	require.NoError(t, err)
	require.Len(t, q.messages, 1)

	msg := q.messages[0]
	assert.Equal(t, "alice@example.com", msg.To)
	assert.Equal(t, "Verify Your Account", msg.Subject)
	assert.Equal(t, "user-verification", msg.TemplateName)
	assert.Equal(t, 0, msg.RetryCount)
	assert.Equal(t, "http://localhost:8080/auth/verify-email?token=tok-123", msg.Variables["verificationLink"])
}

func TestDispatcherPasswordResetEmail(t *testing.T) {
	q := &captureQueue{}
	d := newTestDispatcher(q)

	err := d.EnqueuePasswordResetEmail(context.Background(), "bob@example.com", "Bob", "042137", time.Now().Add(15*time.Minute))
	require.NoError(t, err)
	require.Len(t, q.messages, 1)

	msg := q.messages[0]
	assert.Equal(t, "password-reset", msg.TemplateName)
	assert.Equal(t, "042137", msg.Variables["resetCode"])
	assert.Equal(t, "15", msg.Variables["expiryInMinutes"])
}

func TestRenderKnownTemplates(t *testing.T) {
	q := &captureQueue{}
	d := newTestDispatcher(q)

	require.NoError(t, d.EnqueueVerificationEmail(context.Background(), "a@b.c", "A", "tok", time.Now()))
	require.NoError(t, d.EnqueuePasswordResetEmail(context.Background(), "a@b.c", "A", "123456", time.Now()))
	require.NoError(t, d.EnqueueWelcomeEmail(context.Background(), "a@b.c", "A"))

	for _, msg := range q.messages {
		body, err := render(msg.TemplateName, msg.Variables)
		require.NoError(t, err, msg.TemplateName)
		assert.Contains(t, body, "KingsCode")
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, err := render("account-locked", map[string]any{})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "unknown email template"))
}
