package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/updawg/Fund-Manager-Backend/internal/api/middleware"
	"github.com/updawg/Fund-Manager-Backend/internal/apperrors"
)

type fakeVerifier map[string]string

func (f fakeVerifier) VerifyToken(token string) (string, error) {
	if username, ok := f[token]; ok {
		return username, nil
	}
	return "", apperrors.ErrInvalidToken
}

// TestRequireAuth tests the bearer token middleware guarding mutating routes.
//
// WHY: When AUTH_REQUIRED is set, every write to the ledgers must be made by a
// logged in user. A middleware that lets a malformed header through would
// silently open the API.
func TestRequireAuth(t *testing.T) {
	verifier := fakeVerifier{"good-token": "alice"}

	run := func(header string) (*httptest.ResponseRecorder, string, bool) {
		var seen string
		called := false
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			seen = middleware.Username(r.Context())
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodPost, "/test", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		middleware.RequireAuth(verifier)(next).ServeHTTP(w, req)
		return w, seen, called
	}

	details := func(t *testing.T, w *httptest.ResponseRecorder) string {
		t.Helper()
		var body map[string]string
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		return body["details"]
	}

	t.Run("rejects request without token", func(t *testing.T) {
		w, _, called := run("")
		assert.False(t, called)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Missing bearer token", details(t, w))
	})

	t.Run("rejects non bearer scheme", func(t *testing.T) {
		w, _, called := run("Basic YWxpY2U6c2VjcmV0")
		assert.False(t, called)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Malformed authorization header", details(t, w))
	})

	t.Run("rejects unknown token", func(t *testing.T) {
		w, _, called := run("Bearer forged")
		assert.False(t, called)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Token is invalid or expired", details(t, w))
	})

	t.Run("passes username to handler", func(t *testing.T) {
		w, username, called := run("Bearer good-token")
		assert.True(t, called)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "alice", username)
	})
}

func TestUsernameWithoutAuth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, middleware.Username(req.Context()))
}
