package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/updawg/Fund-Manager-Backend/internal/api/response"
)

// TokenVerifier resolves a session token to a username.
type TokenVerifier interface {
	VerifyToken(token string) (string, error)
}

type contextKey string

const usernameKey contextKey = "username"

// RequireAuth rejects requests without a valid "Authorization: Bearer" token
// with 401 Unauthorized. The authenticated username is stored in the request
// context.
func RequireAuth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Missing bearer token")
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Malformed authorization header")
				return
			}

			username, err := verifier.VerifyToken(strings.TrimSpace(token))
			if err != nil {
				response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Token is invalid or expired")
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), usernameKey, username)))
		})
	}
}

// Username returns the authenticated username, or "" for anonymous requests.
func Username(ctx context.Context) string {
	username, _ := ctx.Value(usernameKey).(string)
	return username
}
