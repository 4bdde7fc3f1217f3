package jwttoken

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "prooflayer/pkg/domain"
	dErrors "prooflayer/pkg/domain-errors"
)

const signingKey = "test-signing-key-0123456789"

func TestGenerateAndValidate(t *testing.T) {
	svc := NewJWTService(signingKey, "prooflayer", time.Hour)
	userID := id.NewUserID()

	token, err := svc.GenerateAccessToken(userID)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), token.ExpiresAt, time.Minute)

	claims, err := svc.ValidateToken(token.Token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.NotEmpty(t, claims.ID)
}

func TestValidateToken_Rejections(t *testing.T) {
	svc := NewJWTService(signingKey, "prooflayer", time.Hour)
	userID := id.NewUserID()

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateToken("not-a-token")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("expired", func(t *testing.T) {
		expired := NewJWTService(signingKey, "prooflayer", -time.Minute)
		token, err := expired.GenerateAccessToken(userID)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token.Token)
		assert.Equal(t, "token has expired", dErrors.MessageOf(err))
	})

	t.Run("other signing key", func(t *testing.T) {
		other := NewJWTService("another-signing-key-987654", "prooflayer", time.Hour)
		token, err := other.GenerateAccessToken(userID)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token.Token)
		assert.Equal(t, "invalid token", dErrors.MessageOf(err))
	})

	t.Run("other issuer", func(t *testing.T) {
		other := NewJWTService(signingKey, "someone-else", time.Hour)
		token, err := other.GenerateAccessToken(userID)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token.Token)
		assert.Error(t, err)
	})

	t.Run("none algorithm", func(t *testing.T) {
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: userID.String()})
		raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.ValidateToken(raw)
		assert.Error(t, err)
	})
}

func TestAdapter(t *testing.T) {
	svc := NewJWTService(signingKey, "prooflayer", time.Hour)
	userID := id.NewUserID()
	token, err := svc.GenerateAccessToken(userID)
	require.NoError(t, err)

	claims, err := NewJWTServiceAdapter(svc).ValidateToken(token.Token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)
	assert.NotEmpty(t, claims.JTI)
}
