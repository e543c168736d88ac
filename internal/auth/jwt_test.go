package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestManager() *TokenManager {
	return NewTokenManager(testSecret, "anirecs-api", 15*time.Minute, 168*time.Hour)
}

func TestTokenManager_AccessTokenRoundTrip(t *testing.T) {
	m := newTestManager()

	token, err := m.GenerateAccessToken(42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.Equal(t, "anirecs-api", claims.Issuer)
	assert.Equal(t, "42", claims.Subject)
}

func TestTokenManager_RefreshTokenRoundTrip(t *testing.T) {
	m := newTestManager()

	token, err := m.GenerateRefreshToken(7)
	require.NoError(t, err)

	claims, err := m.ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, TokenTypeRefresh, claims.TokenType)
}

func TestTokenManager_RejectsWrongTokenType(t *testing.T) {
	m := newTestManager()

	access, err := m.GenerateAccessToken(42)
	require.NoError(t, err)
	refresh, err := m.GenerateRefreshToken(42)
	require.NoError(t, err)

	_, err = m.ValidateRefreshToken(access)
	assert.ErrorContains(t, err, "token type")

	_, err = m.ValidateAccessToken(refresh)
	assert.ErrorContains(t, err, "token type")
}

func TestTokenManager_RejectsExpiredToken(t *testing.T) {
	m := NewTokenManager(testSecret, "anirecs-api", -time.Minute, 168*time.Hour)

	token, err := m.GenerateAccessToken(42)
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestTokenManager_RejectsWrongSecret(t *testing.T) {
	m := newTestManager()
	other := NewTokenManager("another-secret-another-secret-ab", "anirecs-api", 15*time.Minute, 168*time.Hour)

	token, err := m.GenerateAccessToken(42)
	require.NoError(t, err)

	_, err = other.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestTokenManager_RejectsUnsignedToken(t *testing.T) {
	m := newTestManager()

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		UserID:    42,
		TokenType: TokenTypeAccess,
	})
	tokenString, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = m.ValidateAccessToken(tokenString)
	assert.Error(t, err)
}

func TestTokenManager_RejectsGarbage(t *testing.T) {
	m := newTestManager()
	_, err := m.ValidateAccessToken("not.a.token")
	assert.Error(t, err)
}

func TestTokenManager_UniqueTokenIDs(t *testing.T) {
	m := newTestManager()

	a, err := m.GenerateAccessToken(42)
	require.NoError(t, err)
	b, err := m.GenerateAccessToken(42)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}
