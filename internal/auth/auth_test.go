package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestNewVerifier(t *testing.T) {
	t.Run("empty secret", func(t *testing.T) {
		v, err := NewVerifier("")
		require.Error(t, err)
		require.Nil(t, v)
	})

	t.Run("valid secret", func(t *testing.T) {
		v, err := NewVerifier("test-secret")
		require.NoError(t, err)
		require.NotNil(t, v)
	})
}

func TestVerify(t *testing.T) {
	secret := "test-secret"
	orgID := uuid.Must(uuid.NewV7())
	actorID := uuid.Must(uuid.NewV7())

	verifier, err := NewVerifier(secret)
	require.NoError(t, err)

	t.Run("valid token round trip", func(t *testing.T) {
		token, err := SignToken(secret, orgID, actorID, "admin", time.Hour)
		require.NoError(t, err)

		tc, err := verifier.Verify(token)
		require.NoError(t, err)
		require.Equal(t, orgID, tc.OrgID)
		require.Equal(t, actorID, tc.ActorID)
		require.Equal(t, "admin", tc.Role)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := SignToken("other-secret", orgID, actorID, "admin", time.Hour)
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		require.Error(t, err)
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := SignToken(secret, orgID, actorID, "admin", -time.Minute)
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		require.Error(t, err)
	})

	t.Run("unexpected signing method", func(t *testing.T) {
		claims := &Claims{
			UserID:         actorID.String(),
			OrganizationID: orgID.String(),
			Role:           "admin",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS384, claims).SignedString([]byte(secret))
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		require.Error(t, err)
	})

	t.Run("malformed token", func(t *testing.T) {
		_, err := verifier.Verify("not.a.token")
		require.Error(t, err)
	})

	t.Run("missing tenant claims", func(t *testing.T) {
		claims := &Claims{
			Role: "admin",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		require.NoError(t, err)

		_, err = verifier.Verify(token)
		require.Error(t, err)
	})
}
