package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenPairRoundTrip(t *testing.T) {
	pair, err := GenerateTokenPair(7, "writer@example.com", true, false)
	require.NoError(t, err)

	claims, ok := ValidateAccess(pair.AccessToken)
	require.True(t, ok)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "writer@example.com", claims.Email)
	assert.True(t, claims.Admin)
	assert.False(t, claims.IsActivated)

	refreshClaims, ok := ValidateRefresh(pair.RefreshToken)
	require.True(t, ok)
	assert.Equal(t, uint(7), refreshClaims.UserID)
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	pair, err := GenerateTokenPair(7, "writer@example.com", false, true)
	require.NoError(t, err)

	_, ok := ValidateAccess(pair.RefreshToken)
	assert.False(t, ok, "refresh token must not pass access validation")
	_, ok = ValidateRefresh(pair.AccessToken)
	assert.False(t, ok, "access token must not pass refresh validation")
}

func TestValidateGarbage(t *testing.T) {
	_, ok := ValidateAccess("")
	assert.False(t, ok)
	_, ok = ValidateAccess("not.a.token")
	assert.False(t, ok)
}

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "secret123"))
	assert.False(t, CheckPassword(hash, "secret124"))
}
