package auth

import (
	"testing"
	"time"

	"github.com/crewpay/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:          "test-secret-key-at-least-32-characters",
		TokenExpiration: time.Hour,
		Issuer:          "crewpay-backend",
	})
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := newTestService()
	userID := uuid.New()

	token, expiresAt, err := svc.GenerateToken(userID, "wanjiku", true)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.Equal(t, "wanjiku", claims.Username)
	assert.True(t, claims.IsAdmin)
}

func TestValidateTokenErrors(t *testing.T) {
	svc := newTestService()

	t.Run("garbage token", func(t *testing.T) {
		_, err := svc.ValidateToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{
			Secret:          "different-secret-also-32-characters-x",
			TokenExpiration: time.Hour,
			Issuer:          "crewpay-backend",
		})
		token, _, err := other.GenerateToken(uuid.New(), "x", false)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := NewJWTService(config.JWTConfig{
			Secret:          "test-secret-key-at-least-32-characters",
			TokenExpiration: -time.Minute,
			Issuer:          "crewpay-backend",
		})
		token, _, err := expired.GenerateToken(uuid.New(), "x", false)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{
			Secret:          "test-secret-key-at-least-32-characters",
			TokenExpiration: time.Hour,
			Issuer:          "someone-else",
		})
		token, _, err := other.GenerateToken(uuid.New(), "x", false)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
