package email

import (
	"bytes"
	"fmt"
	"html/template"
)

const baseStyle = `
    body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
    .header { background-color: #4F46E5; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
    .content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
    .button { display: inline-block; background-color: #4F46E5; color: white !important; padding: 12px 30px; text-decoration: none; border-radius: 5px; margin: 20px 0; }
    .code { font-size: 28px; letter-spacing: 6px; font-weight: bold; color: #4F46E5; }
    .footer { margin-top: 30px; font-size: 12px; color: #666; text-align: center; }
`

var templateBodies = map[string]string{
	"user-verification": `
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><style>` + baseStyle + `</style></head>
<body>
    <div class="header"><h1>Welcome!</h1></div>
    <div class="content">
        <h2>Hi {{.recipientName}},</h2>
        <p>Thank you for signing up! Please click the button below to {{.action}}.</p>
        <a href="{{.verificationLink}}" class="button" style="color: white !important;">{{.buttonText}}</a>
        <p>Or copy and paste this link into your browser:</p>
        <p style="word-break: break-all; color: #4F46E5;">{{.verificationLink}}</p>
        <p style="margin-top: 30px;">If you didn't create an account, you can safely ignore this email.</p>
    </div>
    <div class="footer">
        <p>This link will expire in {{.expiryInHours}} hours.</p>
        <p>&copy; {{.currentYear}} {{.companyName}}. All rights reserved.</p>
    </div>
</body>
</html>
`,
	"password-reset": `
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><style>` + baseStyle + `</style></head>
<body>
    <div class="header"><h1>Password Reset Request</h1></div>
    <div class="content">
        <h2>Hi {{.recipientName}},</h2>
        <p>You requested to {{.action}}. Enter the code below to choose a new password.</p>
        <p class="code">{{.resetCode}}</p>
        <p style="margin-top: 30px;">If you didn't request a password reset, you can safely ignore this email. Your password will remain unchanged.</p>
    </div>
    <div class="footer">
        <p>This code will expire in {{.expiryInMinutes}} minutes.</p>
        <p>&copy; {{.currentYear}} {{.companyName}}. All rights reserved.</p>
    </div>
</body>
</html>
`,
	"welcome-email": `
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"><style>` + baseStyle + `</style></head>
<body>
    <div class="header"><h1>Welcome aboard!</h1></div>
    <div class="content">
        <h2>Hi {{.recipientName}},</h2>
        <p>Your email is verified and your account is ready. Head over to your dashboard to {{.action}}.</p>
        <a href="{{.dashboardLink}}" class="button" style="color: white !important;">Go to Dashboard</a>
    </div>
    <div class="footer">
        <p>Questions? Reach us at {{.supportEmail}}.</p>
        <p>&copy; {{.currentYear}} {{.companyName}}. All rights reserved.</p>
    </div>
</body>
</html>
`,
}

var templates = template.Must(parseAll())

func parseAll() (*template.Template, error) {
	root := template.New("email")
	for name, body := range templateBodies {
		if _, err := root.New(name).Parse(body); err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
	}
	return root, nil
}

// render executes the named template with the given variables.
// Unknown template names are an error, handled by the caller like any
// other delivery failure.
func render(templateName string, variables map[string]any) (string, error) {
	if templates.Lookup(templateName) == nil {
		return "", fmt.Errorf("unknown email template: %s", templateName)
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, templateName, variables); err != nil {
		return "", fmt.Errorf("execute template %s: %w", templateName, err)
	}

	return buf.String(), nil
}
