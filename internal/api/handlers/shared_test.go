package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/updawg/Fund-Manager-Backend/internal/apperrors"
	"github.com/updawg/Fund-Manager-Backend/internal/testutil"
	"github.com/updawg/Fund-Manager-Backend/internal/validation"
)

// TestRespondJSON tests the respondJSON helper function.
// This is an internal test (package handlers, not handlers_test) because
// respondJSON is unexported.
func TestRespondJSON(t *testing.T) {
	t.Run("sets content-type and status code correctly", func(t *testing.T) {
		w := httptest.NewRecorder()
		respondJSON(w, http.StatusOK, map[string]string{"message": "success"})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	})

	t.Run("handles un-encodable data gracefully", func(t *testing.T) {
		w := httptest.NewRecorder()

		// Channels cannot be JSON encoded
		respondJSON(w, http.StatusOK, map[string]any{"channel": make(chan int)})

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

// TestRespondServiceError tests the mapping from the error taxonomy to HTTP.
//
// WHY: Clients branch on the status code: a 400 shows field errors next to
// inputs, a 422 points at the missing parent row, and a 500 must never leak
// internal details.
func TestRespondServiceError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", &validation.Error{Fields: map[string]string{"size": "size is required"}}, http.StatusBadRequest},
		{"referential", fmt.Errorf("insert: %w", &apperrors.ReferentialError{Field: "fundId", Table: "funds", ID: 9}), http.StatusUnprocessableEntity},
		{"not found", apperrors.ErrFundNotFound, http.StatusNotFound},
		{"duplicate", apperrors.ErrDuplicateEntry, http.StatusConflict},
		{"company not active", apperrors.ErrCompanyNotActive, http.StatusConflict},
		{"credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized},
		{"token", apperrors.ErrInvalidToken, http.StatusUnauthorized},
		{"unexpected", errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/", nil)

			respondServiceError(w, r, tc.err, "failed to do the thing")

			assert.Equal(t, tc.status, w.Code)
		})
	}

	t.Run("referential details carry field table and id", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", nil)
		respondServiceError(w, r, &apperrors.ReferentialError{Field: "companyId", Table: "portfolio_companies", ID: 12}, "x")

		var body struct {
			Details ReferentialDetails `json:"details"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, ReferentialDetails{Field: "companyId", Table: "portfolio_companies", ID: 12}, body.Details)
	})

	t.Run("unexpected errors are not leaked", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		respondServiceError(w, r, errors.New("sql: connection refused at 10.0.0.3"), "failed to retrieve funds")

		assert.JSONEq(t, `{"error":"failed to retrieve funds"}`, w.Body.String())
	})
}

func TestDecodeJSON(t *testing.T) {
	t.Run("rejects malformed body", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))

		var dst map[string]any
		assert.False(t, decodeJSON(w, r, &dst))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("rejects oversized body", func(t *testing.T) {
		w := httptest.NewRecorder()
		big := `{"name":"` + strings.Repeat("a", maxBodyBytes) + `"}`
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(big))

		var dst map[string]any
		assert.False(t, decodeJSON(w, r, &dst))
	})
}

func TestQueryTime(t *testing.T) {
	t.Run("bare date is end of day", func(t *testing.T) {
		r := testutil.NewRequestWithQueryParams(http.MethodGet, "/", map[string]string{"asOf": "2024-03-31"})
		got, err := queryTime(r, "asOf", true)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 3, 31, 23, 59, 59, 0, time.UTC), got)
	})

	t.Run("bare date is start of day", func(t *testing.T) {
		r := testutil.NewRequestWithQueryParams(http.MethodGet, "/", map[string]string{"from": "2024-03-31"})
		got, err := queryTime(r, "from", false)
		require.NoError(t, err)
		assert.Equal(t, testutil.Day(2024, 3, 31), got)
	})

	t.Run("timestamp is kept", func(t *testing.T) {
		r := testutil.NewRequestWithQueryParams(http.MethodGet, "/", map[string]string{"asOf": "2024-03-31T12:00:00Z"})
		got, err := queryTime(r, "asOf", true)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 3, 31, 12, 0, 0, 0, time.UTC), got)
	})

	t.Run("garbage is a field error", func(t *testing.T) {
		r := testutil.NewRequestWithQueryParams(http.MethodGet, "/", map[string]string{"asOf": "yesterday"})
		_, err := queryTime(r, "asOf", true)

		var verr *validation.Error
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "asOf")
	})
}
