package email

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/kingscode/ecommerce-api/internal/logging"
)

// SMTPSender delivers templated HTML email over plain SMTP.
// It implements mailqueue.Sender.
type SMTPSender struct {
	smtpHost     string
	smtpPort     string
	smtpUser     string
	smtpPassword string
	fromEmail    string
	logger       *logging.Logger
}

func NewSMTPSender(smtpHost, smtpPort, smtpUser, smtpPassword, fromEmail string, logger *logging.Logger) *SMTPSender {
	if fromEmail == "" {
		fromEmail = smtpUser
	}
	return &SMTPSender{
		smtpHost:     smtpHost,
		smtpPort:     smtpPort,
		smtpUser:     smtpUser,
		smtpPassword: smtpPassword,
		fromEmail:    fromEmail,
		logger:       logger,
	}
}

// SendTemplated renders the named template with the given variables and
// sends the result. Rendering failures and transport failures are the
// same to the caller: the attempt failed.
func (s *SMTPSender) SendTemplated(ctx context.Context, to, subject, templateName string, variables map[string]any) error {
	body, err := render(templateName, variables)
	if err != nil {
		return fmt.Errorf("render email: %w", err)
	}

	if err := s.send(to, subject, body); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	s.logger.Info("email delivered", "to", to, "subject", subject)
	return nil
}

func (s *SMTPSender) send(to, subject, body string) error {
	auth := smtp.PlainAuth("", s.smtpUser, s.smtpPassword, s.smtpHost)

	msg := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s\r\n",
		s.fromEmail, to, subject, body,
	))

	addr := fmt.Sprintf("%s:%s", s.smtpHost, s.smtpPort)
	return smtp.SendMail(addr, auth, s.fromEmail, []string{to}, msg)
}
