package http

import (
	"log/slog"
	"net/http"

	"github.com/eaaniwezi/anirecs/internal/service"
	"github.com/eaaniwezi/anirecs/pkg/validator"
)

// GenreHandler handles genre catalog endpoints.
type GenreHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewGenreHandler creates a new genre HTTP handler.
func NewGenreHandler(svc *service.CatalogService, logger *slog.Logger) *GenreHandler {
	return &GenreHandler{service: svc, logger: logger}
}

// CreateGenreRequest is the JSON request body for adding a genre.
type CreateGenreRequest struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// Create handles POST /genres
func (h *GenreHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateGenreRequest
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

	genre, err := h.service.CreateGenre(r.Context(), req.Name)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, response{Data: genre})
}

// List handles GET /genres with an optional ?search= name filter.
func (h *GenreHandler) List(w http.ResponseWriter, r *http.Request) {
	genres, err := h.service.ListGenres(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: genres})
}

// Get handles GET /genres/{id}
func (h *GenreHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	genre, err := h.service.GetGenre(r.Context(), id)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: genre})
}

// Update handles PUT /genres/{id}
func (h *GenreHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	var req CreateGenreRequest
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

	genre, err := h.service.UpdateGenre(r.Context(), id, req.Name)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: genre})
}

// Delete handles DELETE /genres/{id}
func (h *GenreHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	if err := h.service.DeleteGenre(r.Context(), id); err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]string{
		"message": "genre deleted",
	}})
}
