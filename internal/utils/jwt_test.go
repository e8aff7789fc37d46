package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func newTestJWTUtil() *JWTUtil {
	return NewJWTUtil("secret", time.Hour, 24*time.Hour)
}

func TestJWTUtil_GenerateTokenPair(t *testing.T) {
	jwtUtil := newTestJWTUtil()
	userID := 1
	role := "user"

	pair, err := jwtUtil.GenerateTokenPair(userID, role)

	assert.NoError(t, err)
	assert.NotEmpty(t, pair.Access)
	assert.NotEmpty(t, pair.Refresh)

	// Validate both tokens to ensure they are well-formed and carry the claims
	claims, err := jwtUtil.ValidateToken(pair.Access)
	assert.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, role, claims.Role)
	assert.Equal(t, TokenTypeAccess, claims.TokenType)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)

	claims, err = jwtUtil.ValidateToken(pair.Refresh)
	assert.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, claims.TokenType)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestJWTUtil_ValidateAccessToken_RejectsRefresh(t *testing.T) {
	jwtUtil := newTestJWTUtil()

	pair, err := jwtUtil.GenerateTokenPair(1, "user")
	assert.NoError(t, err)

	claims, err := jwtUtil.ValidateAccessToken(pair.Access)
	assert.NoError(t, err)
	assert.Equal(t, 1, claims.UserID)

	_, err = jwtUtil.ValidateAccessToken(pair.Refresh)
	assert.Error(t, err)
}

func TestJWTUtil_RefreshAccessToken(t *testing.T) {
	jwtUtil := newTestJWTUtil()

	pair, err := jwtUtil.GenerateTokenPair(7, "moderator")
	assert.NoError(t, err)

	access, err := jwtUtil.RefreshAccessToken(pair.Refresh)
	assert.NoError(t, err)

	claims, err := jwtUtil.ValidateAccessToken(access)
	assert.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
	assert.Equal(t, "moderator", claims.Role)
}

func TestJWTUtil_RefreshAccessToken_RejectsAccessToken(t *testing.T) {
	jwtUtil := newTestJWTUtil()

	pair, _ := jwtUtil.GenerateTokenPair(1, "user")

	_, err := jwtUtil.RefreshAccessToken(pair.Access)
	assert.Error(t, err)
}

func TestJWTUtil_ValidateToken_InvalidToken(t *testing.T) {
	jwtUtil := newTestJWTUtil()

	_, err := jwtUtil.ValidateToken("invalid.token.string")
	assert.Error(t, err)
}

func TestJWTUtil_ValidateToken_ExpiredToken(t *testing.T) {
	jwtUtil := NewJWTUtil("secret", -time.Hour, -time.Hour) // Tokens expire in the past
	pair, _ := jwtUtil.GenerateTokenPair(1, "user")

	_, err := jwtUtil.ValidateToken(pair.Access)
	assert.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWTUtil_ValidateToken_WrongSecret(t *testing.T) {
	jwtUtil1 := NewJWTUtil("secret1", time.Hour, 24*time.Hour)
	jwtUtil2 := NewJWTUtil("secret2", time.Hour, 24*time.Hour)

	pair, _ := jwtUtil1.GenerateTokenPair(1, "user")

	_, err := jwtUtil2.ValidateToken(pair.Access)
	assert.Error(t, err)
}

func TestJWTUtil_ValidateToken_InvalidSigningMethod(t *testing.T) {
	jwtUtil := newTestJWTUtil()
	// Create a token with a different signing method (e.g., HS384 instead of HS256)
	claims := &JWTClaims{
		UserID:    1,
		Role:      "user",
		TokenType: TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS384, claims)
	tokenString, _ := token.SignedString([]byte("secret"))

	_, err := jwtUtil.ValidateToken(tokenString)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected signing method")
}
