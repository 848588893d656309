package identity_test

import (
	"testing"
	"time"

	"github.com/arthurdotwork/board/internal/adapters/secondary/identity"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)

	return signed
}

func TestVerifier_FromCredential(t *testing.T) {
	t.Parallel()

	verifier := identity.NewVerifier("secret")

	t.Run("it should resolve the user id from a valid token", func(t *testing.T) {
		credential := signToken(t, "secret", jwt.MapClaims{
			"userId": "user-1",
			"exp":    time.Now().Add(time.Hour).Unix(),
		})

		userID, err := verifier.FromCredential(credential)
		require.NoError(t, err)
		require.Equal(t, "user-1", userID)
	})

	t.Run("it should reject a token signed with another secret", func(t *testing.T) {
		credential := signToken(t, "other", jwt.MapClaims{"userId": "user-1"})

		_, err := verifier.FromCredential(credential)
		require.ErrorIs(t, err, identity.ErrInvalidCredential)
	})

	t.Run("it should reject an expired token", func(t *testing.T) {
		credential := signToken(t, "secret", jwt.MapClaims{
			"userId": "user-1",
			"exp":    time.Now().Add(-time.Hour).Unix(),
		})

		_, err := verifier.FromCredential(credential)
		require.ErrorIs(t, err, identity.ErrInvalidCredential)
	})

	t.Run("it should reject a token without a user id", func(t *testing.T) {
		credential := signToken(t, "secret", jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})

		_, err := verifier.FromCredential(credential)
		require.ErrorIs(t, err, identity.ErrInvalidCredential)
	})

	t.Run("it should reject garbage", func(t *testing.T) {
		_, err := verifier.FromCredential("not-a-token")
		require.ErrorIs(t, err, identity.ErrInvalidCredential)
	})
}
