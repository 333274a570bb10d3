package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("Secret123!", bcrypt.MinCost)
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.True(t, CheckPasswordHash("Secret123!", hash))
	assert.False(t, CheckPasswordHash("Secret123?", hash))
	assert.False(t, CheckPasswordHash("", hash))
}

func TestHashPasswordRandomSalt(t *testing.T) {
	first, err := HashPassword("Secret123!", bcrypt.MinCost)
	require.NoError(t, err)
	second, err := HashPassword("Secret123!", bcrypt.MinCost)
	require.NoError(t, err)

	// Same password, per-call salt, different hashes
	assert.NotEqual(t, first, second)
	assert.True(t, CheckPasswordHash("Secret123!", first))
	assert.True(t, CheckPasswordHash("Secret123!", second))
}

func TestHashPasswordLengthBounds(t *testing.T) {
	_, err := HashPassword("short", bcrypt.MinCost)
	assert.Error(t, err)

	_, err = HashPassword("", bcrypt.MinCost)
	assert.Error(t, err)

	_, err = HashPassword(strings.Repeat("a", PasswordMaxLength+1), bcrypt.MinCost)
	assert.Error(t, err)

	_, err = HashPassword(strings.Repeat("a", PasswordMinLength), bcrypt.MinCost)
	assert.NoError(t, err)
}

func TestHashPasswordLongerThanBcryptInputLimit(t *testing.T) {
	// Passwords between 73 and 100 characters exceed bcrypt's raw 72-byte
	// input limit and must still hash and verify via the pre-digest.
	long := strings.Repeat("a", PasswordMaxLength)

	hash, err := HashPassword(long, bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash(long, hash))
	assert.False(t, CheckPasswordHash(long[:len(long)-1], hash))
	assert.False(t, CheckPasswordHash(strings.Repeat("b", PasswordMaxLength), hash))
}

func TestCheckPasswordHashMalformed(t *testing.T) {
	// A broken stored hash is a verification failure, never a panic
	assert.False(t, CheckPasswordHash("Secret123!", "not-a-bcrypt-hash"))
	assert.False(t, CheckPasswordHash("Secret123!", ""))
}
