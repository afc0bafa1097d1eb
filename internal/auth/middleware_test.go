package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/cornndawwg/the-icatalyst-crm/internal/tenant"
)

func TestMiddleware(t *testing.T) {
	secret := "test-secret"
	orgID := uuid.Must(uuid.NewV7())
	actorID := uuid.Must(uuid.NewV7())

	verifier, err := NewVerifier(secret)
	require.NoError(t, err)

	var seen tenant.Context
	var called bool
	handler := verifier.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		seen, _ = tenant.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("valid token reaches the handler with tenant context", func(t *testing.T) {
		called = false
		token, err := SignToken(secret, orgID, actorID, "admin", time.Hour)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/projects", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.True(t, called)
		require.Equal(t, orgID, seen.OrgID)
		require.Equal(t, actorID, seen.ActorID)
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		called = false
		req := httptest.NewRequest(http.MethodGet, "/projects", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.False(t, called)

		var body struct {
			Error struct {
				Kind    string `json:"kind"`
				Message string `json:"message"`
			} `json:"error"`
		}
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		require.Equal(t, "unauthorized", body.Error.Kind)
	})

	t.Run("malformed header is rejected", func(t *testing.T) {
		called = false
		req := httptest.NewRequest(http.MethodGet, "/projects", nil)
		req.Header.Set("Authorization", "Token abc123")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.False(t, called)
	})

	t.Run("invalid token is rejected", func(t *testing.T) {
		called = false
		req := httptest.NewRequest(http.MethodGet, "/projects", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.False(t, called)
	})
}

func TestExtractBearerToken(t *testing.T) {
	newReq := func(header string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		return req
	}

	require.Equal(t, "", extractBearerToken(newReq("")))
	require.Equal(t, "abc", extractBearerToken(newReq("Bearer abc")))
	require.Equal(t, "abc", extractBearerToken(newReq("bearer abc")))
	require.Equal(t, "", extractBearerToken(newReq("Basic abc")))
	require.Equal(t, "", extractBearerToken(newReq("Bearer")))
}
