package email

// Kind identifies a transactional email type and carries its default
// subject line and template name.
type Kind struct {
	Subject      string
	TemplateName string
}

var (
	KindUserVerification = Kind{Subject: "Verify Your Account", TemplateName: "user-verification"}
	KindPasswordReset    = Kind{Subject: "Reset Your Password", TemplateName: "password-reset"}
	KindWelcome          = Kind{Subject: "Welcome to Our Platform!", TemplateName: "welcome-email"}
)
