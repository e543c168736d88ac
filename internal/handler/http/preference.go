package http

import (
	"log/slog"
	"net/http"

	"github.com/eaaniwezi/anirecs/internal/service"
	"github.com/eaaniwezi/anirecs/pkg/middleware"
	"github.com/eaaniwezi/anirecs/pkg/validator"
)

// PreferenceHandler handles the user genre preference endpoints.
type PreferenceHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewPreferenceHandler creates a new preferences HTTP handler.
func NewPreferenceHandler(svc *service.CatalogService, logger *slog.Logger) *PreferenceHandler {
	return &PreferenceHandler{service: svc, logger: logger}
}

// AddPreferenceRequest is the JSON request body for adding a preference.
type AddPreferenceRequest struct {
	UserID  int64 `json:"user_id" validate:"required,gt=0"`
	GenreID int64 `json:"genre_id" validate:"required,gt=0"`
}

// Add handles POST /user/addpreferences
func (h *PreferenceHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req AddPreferenceRequest
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
	if err := h.service.AddPreference(r.Context(), callerID, req.UserID, req.GenreID); err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, response{Data: map[string]string{
		"message": "preference added",
	}})
}

// Remove handles DELETE /user/removepreferences/{uid}/{gid}
func (h *PreferenceHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "uid")
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}
	genreID, err := pathID(r, "gid")
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	callerID := middleware.UserIDFromContext(r.Context())
	if err := h.service.RemovePreference(r.Context(), callerID, userID, genreID); err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]string{
		"message": "preference removed",
	}})
}

// List handles GET /preferences/{uid}
func (h *PreferenceHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "uid")
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	genres, err := h.service.ListPreferences(r.Context(), userID)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: genres})
}
