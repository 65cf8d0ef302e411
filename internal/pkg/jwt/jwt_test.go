package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateAccessToken(t *testing.T) {
	token, err := GenerateAccessToken(7, "grace@example.com", "client", "Grace Mwakasege", "test-secret", 15)
	require.NoError(t, err)

	claims, err := ValidateAccessToken(token, "test-secret")
	require.NoError(t, err)

	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "grace@example.com", claims.Email)
	assert.Equal(t, "client", claims.Role)
	assert.Equal(t, "Grace Mwakasege", claims.Name)
}

func TestValidateWithWrongSecret(t *testing.T) {
	token, err := GenerateAccessToken(7, "grace@example.com", "client", "", "test-secret", 15)
	require.NoError(t, err)

	_, err = ValidateAccessToken(token, "other-secret")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateExpiredToken(t *testing.T) {
	token, err := GenerateAccessToken(7, "grace@example.com", "client", "", "test-secret", -1)
	require.NoError(t, err)

	_, err = ValidateAccessToken(token, "test-secret")
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateGarbage(t *testing.T) {
	_, err := ValidateAccessToken("not.a.token", "test-secret")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
