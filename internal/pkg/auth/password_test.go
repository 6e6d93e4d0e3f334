package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hashed, err := HashPassword("Passw0rd1")
	require.NoError(t, err)
	assert.NotEqual(t, "Passw0rd1", hashed)

	assert.NoError(t, CheckPassword(hashed, "Passw0rd1"))
	assert.Error(t, CheckPassword(hashed, "WrongPass1"))
}

func TestHashPassword_Salted(t *testing.T) {
	first, err := HashPassword("Passw0rd1")
	require.NoError(t, err)
	second, err := HashPassword("Passw0rd1")
	require.NoError(t, err)

	// bcrypt salts every hash
	assert.NotEqual(t, first, second)
}
