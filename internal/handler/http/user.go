package http

import (
	"log/slog"
	"net/http"

	"github.com/eaaniwezi/anirecs/internal/service"
	"github.com/eaaniwezi/anirecs/pkg/middleware"
	"github.com/eaaniwezi/anirecs/pkg/validator"
)

// UserHandler handles user account endpoints.
type UserHandler struct {
	authService    *service.AuthService
	catalogService *service.CatalogService
	logger         *slog.Logger
}

// NewUserHandler creates a new user HTTP handler.
func NewUserHandler(authSvc *service.AuthService, catalogSvc *service.CatalogService, logger *slog.Logger) *UserHandler {
	return &UserHandler{authService: authSvc, catalogService: catalogSvc, logger: logger}
}

// Me handles GET /users/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	user, err := h.authService.CurrentUser(r.Context(), userID)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: user})
}

// List handles GET /users with an optional ?username= substring filter.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.authService.ListUsers(r.Context(), r.URL.Query().Get("username"))
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: users})
}

// Get handles GET /users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	user, err := h.authService.GetUser(r.Context(), id)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: user})
}

// UpdateUserRequest is the JSON request body for renaming an account.
type UpdateUserRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
}

// Update handles PUT /users/{id}
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	var req UpdateUserRequest
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

	callerID := middleware.UserIDFromContext(r.Context())
	user, err := h.authService.UpdateUsername(r.Context(), callerID, id, req.Username)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: user})
}

// DeleteMe handles DELETE /users/me
func (h *UserHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	callerID := middleware.UserIDFromContext(r.Context())
	if err := h.authService.DeleteAccount(r.Context(), callerID); err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Recommendations handles GET /users/me/recommendations
func (h *UserHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	animes, err := h.catalogService.Recommendations(r.Context(), userID)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: animes})
}
