package token

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
)

var ErrInvalidDigits = errors.New("digits must be between 1 and 9")

const opaqueTokenBytes = 32

// Generator produces opaque tokens and numeric one-time codes from the
// process-wide secure random source. Construct once and share; it holds
// no mutable state and is safe for concurrent use.
type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// GenerateOpaqueToken returns a 256-bit random value encoded as a
// URL-safe, unpadded base64 string. Validity of an opaque token is
// determined solely by server-side lookup.
func (g *Generator) GenerateOpaqueToken() (string, error) {
	b := make([]byte, opaqueTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GenerateNumericCode returns a uniformly distributed, zero-padded
// numeric string of exactly digits characters. digits must be in [1, 9]
// so the value fits a signed 32-bit integer.
func (g *Generator) GenerateNumericCode(digits int) (string, error) {
	if digits < 1 || digits > 9 {
		return "", ErrInvalidDigits
	}

	bound := int64(1)
	for i := 0; i < digits; i++ {
		bound *= 10
	}

	n, err := rand.Int(rand.Reader, big.NewInt(bound))
	if err != nil {
		return "", fmt.Errorf("failed to generate numeric code: %w", err)
	}

	return fmt.Sprintf("%0*d", digits, n.Int64()), nil
}
