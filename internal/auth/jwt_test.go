package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initSecret(t *testing.T) {
	t.Helper()

	t.Setenv("JWT_SECRET", "test-secret")
	require.NoError(t, InitJWTSecret())
}

func TestGenerateAndVerifyJWT(t *testing.T) {
	initSecret(t)

	token, err := GenerateJWT(42, "user@example.com")
	require.NoError(t, err)

	claims, err := VerifyJWT(token)
	require.NoError(t, err)

	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
}

func TestVerifyJWTRejectsWrongSecret(t *testing.T) {
	initSecret(t)

	token, err := GenerateJWT(1, "user@example.com")
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "another-secret")
	require.NoError(t, InitJWTSecret())

	_, err = VerifyJWT(token)
	assert.Error(t, err)
}

func TestVerifyJWTRejectsExpiredToken(t *testing.T) {
	initSecret(t)

	claims := Claims{
		UserID: 1,
		Email:  "user@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(jwtSecret))
	require.NoError(t, err)

	_, err = VerifyJWT(token)
	assert.Error(t, err)
}

func TestVerifyJWTRejectsGarbage(t *testing.T) {
	initSecret(t)

	_, err := VerifyJWT("not-a-token")
	assert.Error(t, err)
}
