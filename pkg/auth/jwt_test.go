package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

func signToken(t *testing.T, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func TestValidateToken(t *testing.T) {
	validator, err := NewJWTValidator(testSecret, "identity-compass")
	require.NoError(t, err)

	t.Run("valid token", func(t *testing.T) {
		signed := signToken(t, Claims{
			UserID: "user-1",
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "identity-compass",
				Subject:   "user-1",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})

		claims, err := validator.ValidateToken("Bearer " + signed)
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.UserID)
	})

	t.Run("subject fills missing user id", func(t *testing.T) {
		signed := signToken(t, Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "identity-compass",
				Subject:   "user-2",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})

		claims, err := validator.ValidateToken(signed)
		require.NoError(t, err)
		assert.Equal(t, "user-2", claims.UserID)
	})

	t.Run("expired token", func(t *testing.T) {
		signed := signToken(t, Claims{
			UserID: "user-1",
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "identity-compass",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			},
		})

		_, err := validator.ValidateToken(signed)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		signed := signToken(t, Claims{
			UserID: "user-1",
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "someone-else",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})

		_, err := validator.ValidateToken(signed)
		assert.ErrorIs(t, err, ErrInvalidClaims)
	})

	t.Run("missing token", func(t *testing.T) {
		_, err := validator.ValidateToken("")
		assert.ErrorIs(t, err, ErrMissingToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := validator.ValidateToken("Bearer not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestNewJWTValidatorRequiresSecret(t *testing.T) {
	_, err := NewJWTValidator("", "issuer")
	assert.Error(t, err)
}
