package email

import (
	"context"
	"fmt"
	"time"

	"github.com/kingscode/ecommerce-api/internal/mailqueue"
)

// Enqueuer appends one message to the email queue
type Enqueuer interface {
	Enqueue(ctx context.Context, msg mailqueue.Message) error
}

// Dispatcher builds message envelopes for the transactional email
// kinds and hands them to the queue. It never sends anything itself;
// delivery happens asynchronously in the queue consumer.
type Dispatcher struct {
	queue       Enqueuer
	baseURL     string
	frontendURL string
	companyName string
}

func NewDispatcher(queue Enqueuer, baseURL, frontendURL, companyName string) *Dispatcher {
	return &Dispatcher{
		queue:       queue,
		baseURL:     baseURL,
		frontendURL: frontendURL,
		companyName: companyName,
	}
}

// EnqueueVerificationEmail queues the account verification email
func (d *Dispatcher) EnqueueVerificationEmail(ctx context.Context, to, recipientName, verificationToken string, expiry time.Time) error {
	variables := d.commonVariables(recipientName)
	variables["verificationToken"] = verificationToken
	variables["verificationLink"] = fmt.Sprintf("%s/auth/verify-email?token=%s", d.baseURL, verificationToken)
	variables["tokenExpiry"] = expiry.Format(time.RFC3339)
	variables["expiryInHours"] = "24"
	variables["action"] = "complete your registration"
	variables["buttonText"] = "Verify Email"

	return d.queue.Enqueue(ctx, d.newMessage(to, KindUserVerification, variables))
}

// EnqueuePasswordResetEmail queues the password reset code email
func (d *Dispatcher) EnqueuePasswordResetEmail(ctx context.Context, to, recipientName, resetCode string, expiry time.Time) error {
	variables := d.commonVariables(recipientName)
	variables["resetCode"] = resetCode
	variables["tokenExpiry"] = expiry.Format(time.RFC3339)
	variables["expiryInMinutes"] = "15"
	variables["action"] = "reset your password"
	variables["buttonText"] = "Reset Password"

	return d.queue.Enqueue(ctx, d.newMessage(to, KindPasswordReset, variables))
}

// EnqueueWelcomeEmail queues the post-verification welcome email
func (d *Dispatcher) EnqueueWelcomeEmail(ctx context.Context, to, recipientName string) error {
	variables := d.commonVariables(recipientName)
	variables["dashboardLink"] = d.frontendURL + "/dashboard"
	variables["supportEmail"] = "support@kingscode.dev"
	variables["action"] = "explore your new account"

	return d.queue.Enqueue(ctx, d.newMessage(to, KindWelcome, variables))
}

func (d *Dispatcher) commonVariables(recipientName string) map[string]any {
	return map[string]any{
		"recipientName": recipientName,
		"currentYear":   time.Now().Year(),
		"companyName":   d.companyName,
	}
}

func (d *Dispatcher) newMessage(to string, kind Kind, variables map[string]any) mailqueue.Message {
	return mailqueue.Message{
		To:           to,
		Subject:      kind.Subject,
		TemplateName: kind.TemplateName,
		Variables:    variables,
		RetryCount:   0,
		CreatedAt:    time.Now().UTC(),
	}
}
