package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("correct horse battery staple")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))
	assert.True(t, Verify(hash, "correct horse battery staple"))
	assert.False(t, Verify(hash, "wrong password"))
}

func TestHashIsSalted(t *testing.T) {
	first, err := Hash("secret12")
	require.NoError(t, err)
	second, err := Hash("secret12")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, Verify(first, "secret12"))
	assert.True(t, Verify(second, "secret12"))
}

func TestVerifyMalformedHash(t *testing.T) {
	assert.False(t, Verify("", "password"))
	assert.False(t, Verify("not-a-hash", "password"))
	assert.False(t, Verify("$argon2id$v=19$m=65536,t=3,p=4$bad", "password"))
}
