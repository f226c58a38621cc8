package httputil

// Machine-readable error codes returned alongside error messages.
// Clients should branch on these rather than on message text.
const (
	CodeInvalidRequestBody = "INVALID_REQUEST_BODY"
	CodeInternalError      = "INTERNAL_ERROR"
	CodeTooManyRequests    = "TOO_MANY_REQUESTS"
	CodeCooldownActive     = "COOLDOWN_ACTIVE"

	CodeInvalidCredentials = "AUTHENTICATION_FAILED"
	CodeEmailNotVerified   = "EMAIL_NOT_VERIFIED"
	CodeInvalidToken       = "INVALID_TOKEN"
	CodeTokenExpired       = "TOKEN_EXPIRED"
	CodeAlreadyVerified    = "EMAIL_ALREADY_VERIFIED"
	CodeSamePassword       = "SAME_PASSWORD"
	CodeNotFound           = "RESOURCE_NOT_FOUND"
	CodeQueueUnavailable   = "QUEUE_UNAVAILABLE"

	CodeEmailAlreadyExists = "EMAIL_ALREADY_EXISTS"
	CodeEmailRequired      = "EMAIL_REQUIRED"
	CodePasswordRequired   = "PASSWORD_REQUIRED"
	CodePasswordTooShort   = "PASSWORD_TOO_SHORT"
	CodeInvalidEmailFormat = "INVALID_EMAIL_FORMAT"

	CodeRefreshTokenRequired      = "REFRESH_TOKEN_REQUIRED"
	CodeVerificationTokenRequired = "VERIFICATION_TOKEN_REQUIRED"

	CodeMissingAuth        = "MISSING_AUTHENTICATION"
	CodeInvalidAuthHeader  = "INVALID_AUTH_HEADER"
	CodeInvalidTokenUserID = "INVALID_TOKEN_USER_ID"
)
