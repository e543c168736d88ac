package http

import (
	"log/slog"
	"net/http"

	"github.com/eaaniwezi/anirecs/internal/service"
	"github.com/eaaniwezi/anirecs/pkg/validator"
)

// AnimeHandler handles anime catalog endpoints.
type AnimeHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewAnimeHandler creates a new anime HTTP handler.
func NewAnimeHandler(svc *service.CatalogService, logger *slog.Logger) *AnimeHandler {
	return &AnimeHandler{service: svc, logger: logger}
}

// CreateAnimeRequest is the JSON request body for adding a catalog entry.
type CreateAnimeRequest struct {
	Title       string  `json:"title" validate:"required,min=1,max=255"`
	Description string  `json:"description" validate:"max=2000"`
	Rating      float64 `json:"rating" validate:"gte=0,lte=10"`
	GenreIDs    []int64 `json:"genre_ids"`
}

// Create handles POST /animes
func (h *AnimeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAnimeRequest
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

	anime, err := h.service.CreateAnime(r.Context(), service.CreateAnimeInput{
		Title:       req.Title,
		Description: req.Description,
		Rating:      req.Rating,
		GenreIDs:    req.GenreIDs,
	})
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, response{Data: anime})
}

// List handles GET /animes with an optional ?search= title filter.
func (h *AnimeHandler) List(w http.ResponseWriter, r *http.Request) {
	animes, err := h.service.ListAnimes(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: animes})
}

// Get handles GET /animes/{id}
func (h *AnimeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	anime, err := h.service.GetAnime(r.Context(), id)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: anime})
}

// Update handles PUT /animes/{id}
func (h *AnimeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	var req CreateAnimeRequest
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

	anime, err := h.service.UpdateAnime(r.Context(), id, service.CreateAnimeInput{
		Title:       req.Title,
		Description: req.Description,
		Rating:      req.Rating,
	})
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: anime})
}

// Delete handles DELETE /animes/{id}
func (h *AnimeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	if err := h.service.DeleteAnime(r.Context(), id); err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, response{Data: map[string]string{
		"message": "anime deleted",
	}})
}
