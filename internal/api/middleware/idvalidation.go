// Package middleware provides HTTP middleware for request validation,
// authentication and logging.
package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/updawg/Fund-Manager-Backend/internal/api/response"
	"github.com/updawg/Fund-Manager-Backend/internal/validation"
)

// ValidateIDMiddleware validates that the id URL parameter is present and is a
// positive integer. Returns 400 Bad Request otherwise.
//
// Example usage in router:
//
//	r.Route("/{id}", func(r chi.Router) {
//	    r.Use(middleware.ValidateIDMiddleware)
//	    r.Get("/", handler.Fund)
//	})
func ValidateIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		if id == "" {
			response.RespondError(w, http.StatusBadRequest, "id is required", nil)
			return
		}

		if _, err := validation.ValidateID(id); err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid id format", err.Error())
			return
		}

		next.ServeHTTP(w, r)
	})
}
