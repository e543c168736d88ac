package http

import (
	"log/slog"
	"net/http"

	"github.com/eaaniwezi/anirecs/internal/service"
	"github.com/eaaniwezi/anirecs/pkg/middleware"
	"github.com/eaaniwezi/anirecs/pkg/validator"
)

// AuthHandler handles registration, login and token endpoints.
type AuthHandler struct {
	service *service.AuthService
	logger  *slog.Logger
}

// NewAuthHandler creates a new auth HTTP handler.
func NewAuthHandler(svc *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{service: svc, logger: logger}
}

// RegisterRequest is the JSON request body for registration.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest is the JSON request body for login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RefreshRequest is the JSON request body for token refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Register handles POST /register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	if _, err := h.service.Register(r.Context(), service.RegisterInput{
		Username: req.Username,
		Password: req.Password,
	}); err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, response{Data: map[string]string{
		"message": "user registered successfully",
	}})
}

// Login handles POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	tokens, err := h.service.Login(r.Context(), service.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: tokens})
}

// Refresh handles POST /refresh
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, response{
			Error: &errorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	tokens, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: tokens})
}

// Logout handles POST /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	h.service.Logout(r.Context(), userID)

	writeJSON(w, http.StatusOK, response{Data: map[string]string{
		"message": "logged out",
	}})
}
