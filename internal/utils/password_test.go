package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("secret-pw1", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "secret-pw1", hash)

	assert.True(t, VerifyPassword(hash, "secret-pw1"))
	assert.False(t, VerifyPassword(hash, "secret-pw2"))
	assert.False(t, VerifyPassword("not-a-hash", "secret-pw1"))
}

func TestHashPasswordSalts(t *testing.T) {
	a, err := HashPassword("secret-pw1", bcrypt.MinCost)
	require.NoError(t, err)
	b, err := HashPassword("secret-pw1", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
