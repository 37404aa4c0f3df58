package handlers

import (
	"net/http"

	"github.com/updawg/Fund-Manager-Backend/internal/api/request"
	"github.com/updawg/Fund-Manager-Backend/internal/service"
	"github.com/updawg/Fund-Manager-Backend/internal/validation"
)

// AuthHandler handles user registration and login.
type AuthHandler struct {
	userService *service.UserService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(userService *service.UserService) *AuthHandler {
	return &AuthHandler{userService: userService}
}

// Register creates a user account.
//
// Endpoint: POST /api/auth/register
// Response: 201 Created with model.User
// Error: 400 on invalid credentials format, 409 when the username is taken
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req request.CredentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ins, err := validation.ValidateRegister(req)
	if err != nil {
		respondServiceError(w, r, err, "failed to register user")
		return
	}

	user, err := h.userService.Register(r.Context(), ins)
	if err != nil {
		respondServiceError(w, r, err, "failed to register user")
		return
	}
	respondJSON(w, http.StatusCreated, user)
}

// Login exchanges credentials for a session token.
//
// Endpoint: POST /api/auth/login
// Response: 200 OK with model.Session
// Error: 401 Unauthorized when the credentials do not match
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.CredentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	creds, err := validation.ValidateLogin(req)
	if err != nil {
		respondServiceError(w, r, err, "failed to log in")
		return
	}

	session, err := h.userService.Login(r.Context(), creds)
	if err != nil {
		respondServiceError(w, r, err, "failed to log in")
		return
	}
	respondJSON(w, http.StatusOK, session)
}
