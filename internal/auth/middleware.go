package auth

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/cornndawwg/the-icatalyst-crm/internal/tenant"
)

// Middleware returns an HTTP middleware that verifies the Bearer token and
// injects the resolved tenant context into the request context. Requests
// without a valid token are rejected before reaching any handler.
func (v *Verifier) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := extractBearerToken(r)
			if tokenString == "" {
				log.Warn().Str("path", r.URL.Path).Msg("Missing Authorization header")
				writeUnauthorized(w, "missing bearer token")
				return
			}

			tc, err := v.Verify(tokenString)
			if err != nil {
				log.Warn().Err(err).Str("path", r.URL.Path).Msg("Token verification failed")
				writeUnauthorized(w, "invalid token")
				return
			}

			ctx := tenant.WithContext(r.Context(), tc)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{
			"kind":    "unauthorized",
			"message": message,
		},
	})
}
