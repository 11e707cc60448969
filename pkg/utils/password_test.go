package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)

	// Stored form is never the plaintext
	assert.NotEqual(t, "correct horse battery staple", hash)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

	// A fresh hash of the same password uses a fresh salt
	hash2, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, hash, hash2)
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("super-secret-1")
	require.NoError(t, err)

	ok, err := VerifyPassword("super-secret-1", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("super-secret-2", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerifyPasswordInvalidFormat(t *testing.T) {
	_, err := VerifyPassword("whatever", "not-a-real-hash")
	assert.Error(t, err)

	_, err = VerifyPassword("whatever", "$bcrypt$v=19$m=65536,t=3,p=2$abc$def")
	assert.Error(t, err)
}
