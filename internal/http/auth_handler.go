package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/Nivash8098/E-Commerece-Website/internal/backend"
)

type AuthHandler struct {
	describe func(error) string
	timeout  time.Duration
}

func NewAuthHandler(describe func(error) string, timeout time.Duration) *AuthHandler {
	return &AuthHandler{describe: describe, timeout: timeout}
}

type LoginRequestDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequestDTO struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type MessageResponseDTO struct {
	Message string `json:"message"`
}

// POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req LoginRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "missing_credentials", "email and password are required")
		return
	}

	identity, err := sessionFrom(r.Context()).Identity.Login(ctx, req.Email, req.Password)
	if err != nil {
		h.handleBackendError(w, err, http.StatusUnauthorized)
		return
	}
	respondJSON(w, http.StatusOK, identity)
}

// POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req RegisterRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "missing_fields", "name, email and password are required")
		return
	}

	if err := sessionFrom(r.Context()).Identity.Register(ctx, req.Name, req.Email, req.Password); err != nil {
		h.handleBackendError(w, err, http.StatusBadRequest)
		return
	}
	respondJSON(w, http.StatusCreated, MessageResponseDTO{Message: "Registration successful! Please login."})
}

// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	s := sessionFrom(r.Context())
	s.Identity.Logout()
	respondJSON(w, http.StatusOK, s.Identity.Identity())
}

// GET /api/v1/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, sessionFrom(r.Context()).Identity.Identity())
}

// handleBackendError passes the backend's message through. Rejections keep
// rejectStatus; an unreachable backend is a bad gateway.
func (h *AuthHandler) handleBackendError(w http.ResponseWriter, err error, rejectStatus int) {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError {
		respondError(w, rejectStatus, "rejected", h.describe(err))
		return
	}
	respondError(w, http.StatusBadGateway, "backend_unavailable", h.describe(err))
}
