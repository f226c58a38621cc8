package token

import (
	"encoding/base64"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOpaqueToken(t *testing.T) {
	g := NewGenerator()

	tok, err := g.GenerateOpaqueToken()
	require.NoError(t, err)

	raw, err := base64.RawURLEncoding.DecodeString(tok)
	require.NoError(t, err)
	assert.Len(t, raw, 32)

	// two tokens from the same generator must differ
	other, err := g.GenerateOpaqueToken()
	require.NoError(t, err)
	assert.NotEqual(t, tok, other)
}

func TestGenerateNumericCode(t *testing.T) {
	g := NewGenerator()

	for digits := 1; digits <= 9; digits++ {
		code, err := g.GenerateNumericCode(digits)
		require.NoError(t, err)
		assert.Len(t, code, digits)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 0)
	}
}

func TestGenerateNumericCodeInvalidDigits(t *testing.T) {
	g := NewGenerator()

	for _, digits := range []int{0, -1, 10, 100} {
		_, err := g.GenerateNumericCode(digits)
		assert.ErrorIs(t, err, ErrInvalidDigits, "digits=%d", digits)
	}
}

func TestGenerateNumericCodeZeroPadding(t *testing.T) {
	g := NewGenerator()

	// with a single digit roughly one in ten codes is "0"; just check
	// the length contract holds across many draws
	for i := 0; i < 50; i++ {
		code, err := g.GenerateNumericCode(6)
		require.NoError(t, err)
		assert.Len(t, code, 6)
	}
}
