package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/updawg/Fund-Manager-Backend/internal/api/response"
	"github.com/updawg/Fund-Manager-Backend/internal/apperrors"
	"github.com/updawg/Fund-Manager-Backend/internal/service"
	"github.com/updawg/Fund-Manager-Backend/internal/validation"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// ReferentialDetails is the details payload of a 422 response.
type ReferentialDetails struct {
	Field string `json:"field"`
	Table string `json:"table"`
	ID    int64  `json:"id"`
}

// respondJSON sends a JSON response with the given status code
func respondJSON(w http.ResponseWriter, status int, data any) {
	response.RespondJSON(w, status, data)
}

// respondServiceError maps a service error to a status code. message is used
// for unexpected failures, whose cause is logged but not returned.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error, message string) {
	var verr *validation.Error
	var rerr *apperrors.ReferentialError

	switch {
	case errors.As(err, &verr):
		response.RespondError(w, http.StatusBadRequest, "validation failed", verr.Fields)
	case errors.As(err, &rerr):
		response.RespondError(w, http.StatusUnprocessableEntity, "referenced entity does not exist",
			ReferentialDetails{Field: rerr.Field, Table: rerr.Table, ID: rerr.ID})
	case errors.Is(err, apperrors.ErrNotFound):
		response.RespondError(w, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, apperrors.ErrDuplicateEntry), errors.Is(err, apperrors.ErrCompanyNotActive):
		response.RespondError(w, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, apperrors.ErrInvalidCredentials), errors.Is(err, apperrors.ErrInvalidToken):
		response.RespondError(w, http.StatusUnauthorized, err.Error(), nil)
	default:
		log.Error().
			Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("request_id", chimw.GetReqID(r.Context())).
			Msg(message)
		response.RespondError(w, http.StatusInternalServerError, message, nil)
	}
}

// decodeJSON reads the request body into dst. It writes a 400 response and
// returns false when the body is not valid JSON.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return false
	}
	return true
}

// pathID parses the {id} URL parameter.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := validation.ValidateID(chi.URLParam(r, "id"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid id format", err.Error())
		return 0, false
	}
	return id, true
}

// queryFundID parses the optional fundId query parameter.
func queryFundID(w http.ResponseWriter, r *http.Request) (*int64, bool) {
	raw := r.URL.Query().Get("fundId")
	if raw == "" {
		return nil, true
	}
	id, err := validation.ValidateID(raw)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", map[string]string{"fundId": "fundId must be a positive integer"})
		return nil, false
	}
	return &id, true
}

// queryTime parses a date or RFC3339 query parameter. A bare date means the
// end of that UTC day when endOfDay is set and its start otherwise. A missing
// parameter yields the zero time.
func queryTime(r *http.Request, name string, endOfDay bool) (time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := validation.ParseTime(raw)
	if err != nil {
		return time.Time{}, &validation.Error{Fields: map[string]string{name: name + " must be a date (YYYY-MM-DD or RFC3339)"}}
	}
	if endOfDay && len(raw) == len("2006-01-02") {
		t = service.EndOfDay(t)
	}
	return t, nil
}
