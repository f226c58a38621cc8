package auth

// TokenService issues and validates signed session tokens. The service
// is stateless: validity is established by signature and expiry alone,
// never by lookup, so it scales horizontally with no shared state
// beyond the immutable signing key.
//
// Implementations include JWTService (HS256) and PasetoService
// (PASETO v4.local), selected by configuration.
type TokenService interface {
	// IssueAccessToken creates a short-lived token carrying the
	// subject and a role claim.
	IssueAccessToken(subject, role string) (string, error)

	// IssueRefreshToken creates a long-lived token carrying only the
	// subject.
	IssueRefreshToken(subject string) (string, error)

	// ValidateAndExtractSubject verifies signature and expiry and
	// returns the subject claim. It fails closed: any signature
	// mismatch or malformed structure yields ErrInvalidToken, an
	// expired token yields ErrExpiredToken, and no partial subject is
	// ever returned.
	ValidateAndExtractSubject(token string) (string, error)

	// IsValid reports whether the token validates and its subject
	// equals expectedSubject. Used to cross-check refresh tokens
	// against the currently loaded user.
	IsValid(token, expectedSubject string) bool
}
